package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/db"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
	"github.com/yigit/bazaar/internal/pkg/logger"
)

// AdRepository handles database operations for ads
type AdRepository struct {
	base
}

// NewAdRepository creates a new AdRepository
func NewAdRepository(pool db.Querier) *AdRepository {
	return &AdRepository{base{pool: pool}}
}

func (r *AdRepository) selectDetails() squirrel.SelectBuilder {
	return psql.Select(
		"a.id", "a.title", "a.city", "a.country", "a.price", "a.size", "a.type",
		"a.picture_paths", "a.user_id", "a.created_at", "a.updated_at",
		"u.first_name", "u.last_name", "u.image_path",
	).
		From("ads a").
		Join("users u ON u.id = a.user_id")
}

func scanAdDetails(row pgx.Row) (*models.AdDetails, error) {
	var (
		d     models.AdDetails
		adTyp int16
	)
	err := row.Scan(
		&d.ID, &d.Title, &d.City, &d.Country, &d.Price, &d.Size, &adTyp,
		&d.PicturePaths, &d.UserID, &d.CreatedAt, &d.UpdatedAt,
		&d.Owner.FirstName, &d.Owner.LastName, &d.Owner.ImagePath,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError(apperrors.ErrAdNotFound, "Ad not found")
		}
		logger.Error().Err(err).Msg("Error scanning ad row")
		return nil, err
	}
	d.Type = models.AdType(adTyp)
	d.Owner.ID = d.UserID
	if d.PicturePaths == nil {
		d.PicturePaths = []string{}
	}
	return &d, nil
}

// Create inserts the ad row. Picture paths are attached later with SetPicturePaths.
func (r *AdRepository) Create(ctx context.Context, ad *models.Ad) error {
	paths := ad.PicturePaths
	if paths == nil {
		paths = []string{}
	}

	sql, args, err := psql.Insert("ads").
		Columns("id", "title", "city", "country", "price", "size", "type", "picture_paths", "user_id").
		Values(ad.ID, ad.Title, ad.City, ad.Country, ad.Price, ad.Size, int16(ad.Type), paths, ad.UserID).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create ad SQL: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&ad.CreatedAt, &ad.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("userID", ad.UserID.String()).Msg("Error creating ad")
		return parentGone(err, apperrors.ErrUserNotFound, "User not found")
	}
	return nil
}

// GetByID retrieves an ad joined with its owner
func (r *AdRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdDetails, error) {
	sql, args, err := r.selectDetails().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanAdDetails(r.conn(ctx).QueryRow(ctx, sql, args...))
}

// List returns every ad, newest first
func (r *AdRepository) List(ctx context.Context) ([]*models.AdDetails, error) {
	return r.list(ctx, r.selectDetails().OrderBy("a.created_at DESC", "a.id"))
}

// ListByUser returns the ads owned by userID, newest first
func (r *AdRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.AdDetails, error) {
	return r.list(ctx, r.selectDetails().
		Where(squirrel.Eq{"a.user_id": userID}).
		OrderBy("a.created_at DESC", "a.id"))
}

// CountMatching counts the ads matching filter
func (r *AdRepository) CountMatching(ctx context.Context, filter models.AdFilter) (int64, error) {
	sql, args, err := psql.Select("COUNT(*)").From("ads a").Where(AdFilterPredicate(filter)).ToSql()
	if err != nil {
		return 0, err
	}

	var total int64
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting ads")
		return 0, err
	}
	return total, nil
}

// FindMatching returns one page of ads matching filter
func (r *AdRepository) FindMatching(ctx context.Context, filter models.AdFilter, offset, limit uint64) ([]*models.AdDetails, error) {
	q := r.selectDetails().
		Where(AdFilterPredicate(filter)).
		OrderBy("a.created_at DESC", "a.id").
		Offset(offset).
		Limit(limit)
	return r.list(ctx, q)
}

// Bounds computes the global price and size extremes
func (r *AdRepository) Bounds(ctx context.Context) (*models.AdBounds, error) {
	var b models.AdBounds
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT MIN(price), MAX(price), MIN(size), MAX(size), COUNT(*) FROM ads`,
	).Scan(&b.MinPrice, &b.MaxPrice, &b.MinSize, &b.MaxSize, &b.Count)
	if err != nil {
		logger.Error().Err(err).Msg("Error computing ad bounds")
		return nil, err
	}
	return &b, nil
}

func (r *AdRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.AdDetails, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing ads")
		return nil, err
	}
	return collect(rows, scanAdDetails)
}

// Update persists the editable fields of ad
func (r *AdRepository) Update(ctx context.Context, ad *models.Ad) error {
	sql, args, err := psql.Update("ads").
		Set("title", ad.Title).
		Set("city", ad.City).
		Set("country", ad.Country).
		Set("price", ad.Price).
		Set("size", ad.Size).
		Set("type", int16(ad.Type)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ad.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&ad.UpdatedAt); err != nil {
		if isNoRows(err) {
			return apperrors.NewResourceNotFoundError(apperrors.ErrAdNotFound, "Ad not found")
		}
		logger.Error().Err(err).Str("adID", ad.ID.String()).Msg("Error updating ad")
		return err
	}
	return nil
}

// SetPicturePaths replaces the stored picture list of an ad
func (r *AdRepository) SetPicturePaths(ctx context.Context, id uuid.UUID, paths []string) error {
	if paths == nil {
		paths = []string{}
	}
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE ads SET picture_paths = $1, updated_at = NOW() WHERE id = $2`, paths, id)
	if err != nil {
		logger.Error().Err(err).Str("adID", id.String()).Msg("Error storing picture paths")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(apperrors.ErrAdNotFound, "Ad not found")
	}
	return nil
}

// Delete removes a single ad row
func (r *AdRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Str("adID", id.String()).Msg("Error deleting ad")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(apperrors.ErrAdNotFound, "Ad not found")
	}
	return nil
}

// IDsByUser returns the ids of every ad owned by userID
func (r *AdRepository) IDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id FROM ads WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error listing ad ids")
		return nil, err
	}
	return ids, nil
}

// DeleteByUser removes every ad owned by userID and reports how many went.
func (r *AdRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM ads WHERE user_id = $1`, userID)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error deleting user ads")
		return 0, err
	}
	return tag.RowsAffected(), nil
}
