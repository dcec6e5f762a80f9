package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	authz "github.com/yigit/bazaar/internal/app/auth"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/pkg/validation"
)

// AnswerService handles answers to forum questions
type AnswerService struct {
	answers   AnswerStore
	questions QuestionStore
	users     UserStore
	logger    zerolog.Logger
}

// NewAnswerService creates a new AnswerService
func NewAnswerService(answers AnswerStore, questions QuestionStore, users UserStore, logger zerolog.Logger) *AnswerService {
	return &AnswerService{
		answers:   answers,
		questions: questions,
		users:     users,
		logger:    logger,
	}
}

// Create posts an answer by actorID to the question identified by questionID
func (s *AnswerService) Create(ctx context.Context, actorID uuid.UUID, questionID, content string) (*dto.AnswerResponse, error) {
	qid, err := validation.ParseID("questionId", questionID)
	if err != nil {
		return nil, err
	}

	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.questions.GetByID(ctx, qid); err != nil {
		return nil, err
	}

	body := validation.NewStringValidation("content", content)
	if err := body.Validate(); err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ResourceAnswer, actor.ID, authz.ActionCreate); err != nil {
		return nil, err
	}

	a := &models.Answer{
		ID:         uuid.New(),
		Content:    body.Trimmed(),
		UserID:     actor.ID,
		QuestionID: qid,
	}
	if err := s.answers.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("error creating answer: %w", err)
	}

	return s.GetByID(ctx, a.ID)
}

// GetByID returns one answer with its author
func (s *AnswerService) GetByID(ctx context.Context, id uuid.UUID) (*dto.AnswerResponse, error) {
	a, err := s.answers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewAnswerResponse(a)
	return &resp, nil
}

// List returns all answers
func (s *AnswerService) List(ctx context.Context) ([]dto.AnswerResponse, error) {
	as, err := s.answers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing answers: %w", err)
	}
	return dto.NewAnswerListResponse(as), nil
}

// ListByQuestion returns the answers of an existing question
func (s *AnswerService) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]dto.AnswerResponse, error) {
	if _, err := s.questions.GetByID(ctx, questionID); err != nil {
		return nil, err
	}
	as, err := s.answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("error listing question answers: %w", err)
	}
	return dto.NewAnswerListResponse(as), nil
}

// ListByUser returns the answers of an existing user
func (s *AnswerService) ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.AnswerResponse, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	as, err := s.answers.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing user answers: %w", err)
	}
	return dto.NewAnswerListResponse(as), nil
}

// Update replaces the content of an answer
func (s *AnswerService) Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateAnswerRequest) (*dto.AnswerResponse, error) {
	raw, _ := req.Content.Get()
	content := validation.NewStringValidation("content", raw)
	if err := content.Validate(); err != nil {
		return nil, err
	}

	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	current, err := s.answers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ResourceAnswer, current.UserID, authz.ActionUpdate); err != nil {
		return nil, err
	}

	a := current.Answer
	a.Content = content.Trimmed()
	if err := s.answers.Update(ctx, &a); err != nil {
		return nil, fmt.Errorf("error updating answer: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes an answer
func (s *AnswerService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return err
	}
	a, err := s.answers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ResourceAnswer, a.UserID, authz.ActionDelete); err != nil {
		return err
	}

	if err := s.answers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("answerID", id.String()).Msg("Answer deleted")
	return nil
}
