package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/db"
)

// Transactor runs fn inside a single store transaction carried by ctx.
type Transactor interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// UserStore is the persistence contract UserService relies on
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
	SearchByEmail(ctx context.Context, fragment string) ([]*models.User, error)
	Update(ctx context.Context, u *models.User) error
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdStore is the persistence contract for ads
type AdStore interface {
	Create(ctx context.Context, ad *models.Ad) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdDetails, error)
	List(ctx context.Context) ([]*models.AdDetails, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.AdDetails, error)
	CountMatching(ctx context.Context, filter models.AdFilter) (int64, error)
	FindMatching(ctx context.Context, filter models.AdFilter, offset, limit uint64) ([]*models.AdDetails, error)
	Bounds(ctx context.Context) (*models.AdBounds, error)
	Update(ctx context.Context, ad *models.Ad) error
	SetPicturePaths(ctx context.Context, id uuid.UUID, paths []string) error
	Delete(ctx context.Context, id uuid.UUID) error
	IDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// QuestionStore is the persistence contract for forum questions
type QuestionStore interface {
	Create(ctx context.Context, q *models.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.QuestionDetails, error)
	List(ctx context.Context) ([]*models.QuestionDetails, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.QuestionDetails, error)
	Update(ctx context.Context, q *models.Question) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// AnswerStore is the persistence contract for answers
type AnswerStore interface {
	Create(ctx context.Context, a *models.Answer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AnswerDetails, error)
	List(ctx context.Context) ([]*models.AnswerDetails, error)
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*models.AnswerDetails, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.AnswerDetails, error)
	Update(ctx context.Context, a *models.Answer) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteOnQuestionsOf(ctx context.Context, userID uuid.UUID) (int64, error)
}
