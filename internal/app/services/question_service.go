package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	authz "github.com/yigit/bazaar/internal/app/auth"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
	"github.com/yigit/bazaar/internal/pkg/validation"
)

// QuestionService handles forum questions
type QuestionService struct {
	questions QuestionStore
	answers   AnswerStore
	users     UserStore
	tx        Transactor
	logger    zerolog.Logger
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(questions QuestionStore, answers AnswerStore, users UserStore, tx Transactor, logger zerolog.Logger) *QuestionService {
	return &QuestionService{
		questions: questions,
		answers:   answers,
		users:     users,
		tx:        tx,
		logger:    logger,
	}
}

// Create stores a question asked by actorID
func (s *QuestionService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	title := validation.NewStringValidation("title", req.Title).WithMaxLength(validation.TitleMaxLength)
	if err := title.Validate(); err != nil {
		return nil, err
	}
	content := validation.NewStringValidation("content", req.Content)
	if err := content.Validate(); err != nil {
		return nil, err
	}

	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ResourceQuestion, actor.ID, authz.ActionCreate); err != nil {
		return nil, err
	}

	q := &models.Question{
		ID:      uuid.New(),
		Title:   title.Trimmed(),
		Content: content.Trimmed(),
		UserID:  actor.ID,
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("error creating question: %w", err)
	}

	details, err := s.questions.GetByID(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewQuestionResponse(details)
	return &resp, nil
}

// GetByID returns a question with its answers in posting order
func (s *QuestionService) GetByID(ctx context.Context, id uuid.UUID) (*dto.QuestionResponse, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	answers, err := s.answers.ListByQuestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading answers: %w", err)
	}
	q.Answers = answers

	resp := dto.NewQuestionResponse(q)
	return &resp, nil
}

// List returns all questions without their answers
func (s *QuestionService) List(ctx context.Context) ([]dto.QuestionResponse, error) {
	qs, err := s.questions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing questions: %w", err)
	}
	return dto.NewQuestionListResponse(qs), nil
}

// ListByUser returns the questions of an existing user
func (s *QuestionService) ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.QuestionResponse, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	qs, err := s.questions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing user questions: %w", err)
	}
	return dto.NewQuestionListResponse(qs), nil
}

// Update changes title and/or content
func (s *QuestionService) Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	current, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ResourceQuestion, current.UserID, authz.ActionUpdate); err != nil {
		return nil, err
	}

	q := current.Question
	changed := false
	if raw, ok := req.Title.Get(); ok {
		if v := validation.NewStringValidation("title", raw).WithMaxLength(validation.TitleMaxLength); v.Valid() {
			q.Title = v.Trimmed()
			changed = true
		}
	}
	if raw, ok := req.Content.Get(); ok {
		if v := validation.NewStringValidation("content", raw); v.Valid() {
			q.Content = v.Trimmed()
			changed = true
		}
	}
	if !changed {
		return nil, apperrors.NewCustomError(apperrors.ErrNoUpdates, "No updates provided")
	}

	if err := s.questions.Update(ctx, &q); err != nil {
		return nil, fmt.Errorf("error updating question: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes a question together with every answer to it
func (s *QuestionService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return err
	}
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ResourceQuestion, q.UserID, authz.ActionDelete); err != nil {
		return err
	}

	var removed int64
	err = newCascade("delete-question", s.tx, s.logger).
		Store("delete-answers", func(ctx context.Context) error {
			n, err := s.answers.DeleteByQuestion(ctx, id)
			removed = n
			return err
		}).
		Store("delete-question-row", func(ctx context.Context) error {
			return s.questions.Delete(ctx, id)
		}).
		Run(ctx)
	if err != nil {
		return err
	}

	s.logger.Info().Str("questionID", id.String()).Int64("answers", removed).Msg("Question deleted")
	return nil
}
