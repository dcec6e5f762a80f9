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

// QuestionRepository handles database operations for forum questions
type QuestionRepository struct {
	base
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(pool db.Querier) *QuestionRepository {
	return &QuestionRepository{base{pool: pool}}
}

func (r *QuestionRepository) selectDetails() squirrel.SelectBuilder {
	return psql.Select(
		"q.id", "q.title", "q.content", "q.user_id", "q.created_at", "q.updated_at",
		"u.first_name", "u.last_name", "u.image_path",
	).
		From("questions q").
		Join("users u ON u.id = q.user_id")
}

func scanQuestionDetails(row pgx.Row) (*models.QuestionDetails, error) {
	var d models.QuestionDetails
	err := row.Scan(
		&d.ID, &d.Title, &d.Content, &d.UserID, &d.CreatedAt, &d.UpdatedAt,
		&d.Owner.FirstName, &d.Owner.LastName, &d.Owner.ImagePath,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError(apperrors.ErrQuestionNotFound, "Question not found")
		}
		logger.Error().Err(err).Msg("Error scanning question row")
		return nil, err
	}
	d.Owner.ID = d.UserID
	return &d, nil
}

// Create inserts a new question
func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	sql, args, err := psql.Insert("questions").
		Columns("id", "title", "content", "user_id").
		Values(q.ID, q.Title, q.Content, q.UserID).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create question SQL: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&q.CreatedAt, &q.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("userID", q.UserID.String()).Msg("Error creating question")
		return parentGone(err, apperrors.ErrUserNotFound, "User not found")
	}
	return nil
}

// GetByID retrieves a question joined with its author. Answers are not loaded.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.QuestionDetails, error) {
	sql, args, err := r.selectDetails().Where(squirrel.Eq{"q.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanQuestionDetails(r.conn(ctx).QueryRow(ctx, sql, args...))
}

// List returns all questions, newest first
func (r *QuestionRepository) List(ctx context.Context) ([]*models.QuestionDetails, error) {
	return r.list(ctx, r.selectDetails().OrderBy("q.created_at DESC", "q.id"))
}

// ListByUser returns the questions asked by userID
func (r *QuestionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.QuestionDetails, error) {
	return r.list(ctx, r.selectDetails().
		Where(squirrel.Eq{"q.user_id": userID}).
		OrderBy("q.created_at DESC", "q.id"))
}

func (r *QuestionRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.QuestionDetails, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing questions")
		return nil, err
	}
	return collect(rows, scanQuestionDetails)
}

// Update persists title and content
func (r *QuestionRepository) Update(ctx context.Context, q *models.Question) error {
	sql, args, err := psql.Update("questions").
		Set("title", q.Title).
		Set("content", q.Content).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": q.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&q.UpdatedAt); err != nil {
		if isNoRows(err) {
			return apperrors.NewResourceNotFoundError(apperrors.ErrQuestionNotFound, "Question not found")
		}
		logger.Error().Err(err).Str("questionID", q.ID.String()).Msg("Error updating question")
		return err
	}
	return nil
}

// Delete removes a question row. Its answers must be deleted first.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Str("questionID", id.String()).Msg("Error deleting question")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(apperrors.ErrQuestionNotFound, "Question not found")
	}
	return nil
}

// DeleteByUser removes every question asked by userID
func (r *QuestionRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM questions WHERE user_id = $1`, userID)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error deleting user questions")
		return 0, err
	}
	return tag.RowsAffected(), nil
}
