package repositories

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/bazaar/internal/app/models"
)

// AdFilterPredicate builds the WHERE clause for an ad search. Criteria left
// at their zero value are omitted.
func AdFilterPredicate(f models.AdFilter) squirrel.And {
	pred := squirrel.And{}

	if city := strings.TrimSpace(f.City); city != "" {
		pred = append(pred, squirrel.Eq{"a.city": city})
	}
	if country := strings.TrimSpace(f.Country); country != "" {
		pred = append(pred, squirrel.Eq{"a.country": country})
	}
	if f.MinPrice > 0 {
		pred = append(pred, squirrel.GtOrEq{"a.price": f.MinPrice})
	}
	if f.MaxPrice > 0 {
		pred = append(pred, squirrel.LtOrEq{"a.price": f.MaxPrice})
	}
	if f.MinSize > 0 {
		pred = append(pred, squirrel.GtOrEq{"a.size": f.MinSize})
	}
	if f.MaxSize > 0 {
		pred = append(pred, squirrel.LtOrEq{"a.size": f.MaxSize})
	}
	if f.Type != nil {
		pred = append(pred, squirrel.Eq{"a.type": int16(*f.Type)})
	}

	return pred
}
