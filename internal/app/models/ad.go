package models

import (
	"time"

	"github.com/google/uuid"
)

// Ad defines a marketplace listing stored in the 'ads' table
type Ad struct {
	ID           uuid.UUID `db:"id"`
	Title        string    `db:"title"`
	City         string    `db:"city"`
	Country      string    `db:"country"`
	Price        float64   `db:"price"`
	Size         float64   `db:"size"`
	Type         AdType    `db:"type"`
	PicturePaths []string  `db:"picture_paths"`
	UserID       uuid.UUID `db:"user_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// AdDetails is an Ad joined with its owner's name.
type AdDetails struct {
	Ad
	Owner OwnerSummary
}

// AdFilter holds the optional search criteria; zero values mean "not supplied".
type AdFilter struct {
	City     string
	Country  string
	MinPrice float64
	MaxPrice float64
	MinSize  float64
	MaxSize  float64
	Type     *AdType
}

// AdBounds are the global price and size extremes. All four are nil when no ads exist.
type AdBounds struct {
	MinPrice *float64 `json:"minPrice"`
	MaxPrice *float64 `json:"maxPrice"`
	MinSize  *float64 `json:"minSize"`
	MaxSize  *float64 `json:"maxSize"`
	Count    int64    `json:"count"`
}

// HasData reports whether the bounds were computed over at least one ad.
func (b AdBounds) HasData() bool {
	return b.Count > 0
}
