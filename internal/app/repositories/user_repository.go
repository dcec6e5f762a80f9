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
	"github.com/yigit/bazaar/internal/pkg/dberrors"
	"github.com/yigit/bazaar/internal/pkg/helpers"
	"github.com/yigit/bazaar/internal/pkg/logger"
)

const usersEmailConstraint = "users_email_key"

var userColumns = []string{
	"id", "first_name", "last_name", "email", "password", "role", "image_path", "created_at", "updated_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	base
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool db.Querier) *UserRepository {
	return &UserRepository{base{pool: pool}}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u    models.User
		role int16
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &role, &u.ImagePath, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError(apperrors.ErrUserNotFound, "User not found")
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

func emailInUse(err error) error {
	if dberrors.IsDuplicateConstraintError(err, usersEmailConstraint) {
		return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email already in use")
	}
	return err
}

// Create inserts a new user; the caller assigns the ID.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	sql, args, err := psql.Insert("users").
		Columns("id", "first_name", "last_name", "email", "password", "role", "image_path").
		Values(u.ID, u.FirstName, u.LastName, u.Email, u.Password, int16(u.Role), u.ImagePath).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create user SQL: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("email", u.Email).Msg("Error creating user")
		return emailInUse(err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by exact email match
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.conn(ctx).QueryRow(ctx, sql, args...))
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// List returns every user, oldest first
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	return r.list(ctx, psql.Select(userColumns...).From("users").OrderBy("created_at", "id"))
}

// SearchByEmail returns users whose email contains fragment, ignoring case.
func (r *UserRepository) SearchByEmail(ctx context.Context, fragment string) ([]*models.User, error) {
	q := psql.Select(userColumns...).From("users").
		Where(squirrel.ILike{"email": helpers.ContainsPattern(fragment)}).
		OrderBy("email")
	return r.list(ctx, q)
}

func (r *UserRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.User, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing users")
		return nil, err
	}
	return collect(rows, scanUser)
}

// Update persists the mutable profile fields of u.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	sql, args, err := psql.Update("users").
		Set("first_name", u.FirstName).
		Set("last_name", u.LastName).
		Set("email", u.Email).
		Set("password", u.Password).
		Set("image_path", u.ImagePath).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": u.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&u.UpdatedAt); err != nil {
		if isNoRows(err) {
			return apperrors.NewResourceNotFoundError(apperrors.ErrUserNotFound, "User not found")
		}
		logger.Error().Err(err).Str("userID", u.ID.String()).Msg("Error updating user")
		return emailInUse(err)
	}
	return nil
}

// UpdateRole stores a new role for id.
func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, int16(role), id)
	if err != nil {
		logger.Error().Err(err).Str("userID", id.String()).Msg("Error updating user role")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(apperrors.ErrUserNotFound, "User not found")
	}
	return nil
}

// Delete removes the user row. Owned rows must already be gone.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Str("userID", id.String()).Msg("Error deleting user")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(apperrors.ErrUserNotFound, "User not found")
	}
	return nil
}
