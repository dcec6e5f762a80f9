package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/bazaar/internal/db"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
	"github.com/yigit/bazaar/internal/pkg/dberrors"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository     *UserRepository
	AdRepository       *AdRepository
	QuestionRepository *QuestionRepository
	AnswerRepository   *AnswerRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(pool),
		AdRepository:       NewAdRepository(pool),
		QuestionRepository: NewQuestionRepository(pool),
		AnswerRepository:   NewAnswerRepository(pool),
	}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// base carries the pool and resolves the transaction-aware connection.
type base struct {
	pool db.Querier
}

func (b base) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, b.pool)
}

// collect scans every row with scan and closes rows.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()

	out := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// parentGone maps a foreign key violation on insert to the not-found error of
// the referenced row, which was removed between the lookup and the write.
func parentGone(err, notFound error, message string) error {
	if dberrors.IsForeignKeyViolation(err) {
		return apperrors.NewResourceNotFoundError(notFound, message)
	}
	return err
}
