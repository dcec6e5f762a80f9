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

// AnswerRepository handles database operations for answers
type AnswerRepository struct {
	base
}

// NewAnswerRepository creates a new AnswerRepository
func NewAnswerRepository(pool db.Querier) *AnswerRepository {
	return &AnswerRepository{base{pool: pool}}
}

func (r *AnswerRepository) selectDetails() squirrel.SelectBuilder {
	return psql.Select(
		"an.id", "an.content", "an.user_id", "an.question_id", "an.created_at", "an.updated_at",
		"u.first_name", "u.last_name", "u.image_path",
	).
		From("answers an").
		Join("users u ON u.id = an.user_id")
}

func scanAnswerDetails(row pgx.Row) (*models.AnswerDetails, error) {
	var d models.AnswerDetails
	err := row.Scan(
		&d.ID, &d.Content, &d.UserID, &d.QuestionID, &d.CreatedAt, &d.UpdatedAt,
		&d.Owner.FirstName, &d.Owner.LastName, &d.Owner.ImagePath,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError(apperrors.ErrAnswerNotFound, "Answer not found")
		}
		logger.Error().Err(err).Msg("Error scanning answer row")
		return nil, err
	}
	d.Owner.ID = d.UserID
	return &d, nil
}

// Create inserts a new answer
func (r *AnswerRepository) Create(ctx context.Context, a *models.Answer) error {
	sql, args, err := psql.Insert("answers").
		Columns("id", "content", "user_id", "question_id").
		Values(a.ID, a.Content, a.UserID, a.QuestionID).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create answer SQL: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("questionID", a.QuestionID.String()).Msg("Error creating answer")
		return parentGone(err, apperrors.ErrQuestionNotFound, "Question not found")
	}
	return nil
}

// GetByID retrieves an answer joined with its author
func (r *AnswerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnswerDetails, error) {
	sql, args, err := r.selectDetails().Where(squirrel.Eq{"an.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanAnswerDetails(r.conn(ctx).QueryRow(ctx, sql, args...))
}

// List returns all answers, oldest first
func (r *AnswerRepository) List(ctx context.Context) ([]*models.AnswerDetails, error) {
	return r.list(ctx, r.selectDetails().OrderBy("an.created_at", "an.id"))
}

// ListByQuestion returns the answers to questionID in posting order
func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*models.AnswerDetails, error) {
	return r.list(ctx, r.selectDetails().
		Where(squirrel.Eq{"an.question_id": questionID}).
		OrderBy("an.created_at", "an.id"))
}

// ListByUser returns the answers written by userID
func (r *AnswerRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.AnswerDetails, error) {
	return r.list(ctx, r.selectDetails().
		Where(squirrel.Eq{"an.user_id": userID}).
		OrderBy("an.created_at", "an.id"))
}

func (r *AnswerRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.AnswerDetails, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing answers")
		return nil, err
	}
	return collect(rows, scanAnswerDetails)
}

// Update persists the content of an answer
func (r *AnswerRepository) Update(ctx context.Context, a *models.Answer) error {
	err := r.conn(ctx).QueryRow(ctx,
		`UPDATE answers SET content = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`,
		a.Content, a.ID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return apperrors.NewResourceNotFoundError(apperrors.ErrAnswerNotFound, "Answer not found")
		}
		logger.Error().Err(err).Str("answerID", a.ID.String()).Msg("Error updating answer")
		return err
	}
	return nil
}

// Delete removes a single answer
func (r *AnswerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM answers WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Str("answerID", id.String()).Msg("Error deleting answer")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(apperrors.ErrAnswerNotFound, "Answer not found")
	}
	return nil
}

// DeleteByQuestion removes every answer to questionID
func (r *AnswerRepository) DeleteByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM answers WHERE question_id = $1`, questionID)
}

// DeleteByUser removes every answer written by userID
func (r *AnswerRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM answers WHERE user_id = $1`, userID)
}

// DeleteOnQuestionsOf removes answers posted by anyone on questions asked by userID.
func (r *AnswerRepository) DeleteOnQuestionsOf(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx,
		`DELETE FROM answers WHERE question_id IN (SELECT id FROM questions WHERE user_id = $1)`, userID)
}

func (r *AnswerRepository) deleteWhere(ctx context.Context, sql string, id uuid.UUID) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, sql, id)
	if err != nil {
		logger.Error().Err(err).Str("id", id.String()).Msg("Error deleting answers")
		return 0, err
	}
	return tag.RowsAffected(), nil
}
