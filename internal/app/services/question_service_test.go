package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
	"github.com/yigit/bazaar/internal/pkg/patch"
)

func TestQuestionService_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.seedUser(t, "buyer@example.com", models.RoleBuyer)

	created, err := env.questions.Create(ctx, buyer.ID, dto.CreateQuestionRequest{Title: " Parking? ", Content: "Is there parking nearby?"})
	require.NoError(t, err)
	assert.Equal(t, "Parking?", created.Title)
	assert.Equal(t, buyer.ID, created.UserID)
	assert.Equal(t, buyer.ID, created.Owner.ID)

	got, err := env.questions.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Answers)
	assert.Empty(t, *got.Answers)

	_, err = env.questions.Create(ctx, buyer.ID, dto.CreateQuestionRequest{Title: "t", Content: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = env.questions.Create(ctx, buyer.ID, dto.CreateQuestionRequest{Content: "c"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestQuestionService_GetByIDIncludesAnswersInOrder(t *testing.T) {
	env := newTestEnv(t)
	asker := env.seedUser(t, "asker@example.com", models.RoleBuyer)
	helper := env.seedUser(t, "helper@example.com", models.RoleSeller)
	q := env.seedQuestion(t, asker.ID, "Noise at night?")
	first := env.seedAnswer(t, helper.ID, q.ID, "Quiet street")
	second := env.seedAnswer(t, asker.ID, q.ID, "Thanks!")

	got, err := env.questions.GetByID(context.Background(), q.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Answers)
	answers := *got.Answers
	require.Len(t, answers, 2)
	assert.Equal(t, first.ID, answers[0].ID)
	assert.Equal(t, second.ID, answers[1].ID)

	list, err := env.questions.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Answers, "listings do not embed answers")
}

func TestQuestionService_DeleteRemovesAnswers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asker := env.seedUser(t, "asker@example.com", models.RoleBuyer)
	q := env.seedQuestion(t, asker.ID, "Best neighbourhood?")
	keep := env.seedQuestion(t, asker.ID, "Unrelated")
	for i := 0; i < 3; i++ {
		responder := env.seedUser(t, uuid.NewString()+"@example.com", models.RoleBuyer)
		env.seedAnswer(t, responder.ID, q.ID, "Answer")
	}
	env.seedAnswer(t, asker.ID, keep.ID, "Self answer")

	require.NoError(t, env.questions.Delete(ctx, asker.ID, q.ID))

	_, err := env.questions.GetByID(ctx, q.ID)
	assert.ErrorIs(t, err, apperrors.ErrQuestionNotFound)
	assert.Equal(t, 1, env.db.countAnswers(), "only answers to the deleted question go")
	assert.Equal(t, 1, env.db.countQuestions())
}

func TestQuestionService_DeleteRollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	asker := env.seedUser(t, "asker@example.com", models.RoleBuyer)
	q := env.seedQuestion(t, asker.ID, "Heating?")
	env.seedAnswer(t, asker.ID, q.ID, "Gas")
	env.seedAnswer(t, asker.ID, q.ID, "Electric")
	env.db.failOn("questions.Delete", errors.New("connection reset"))

	err := env.questions.Delete(context.Background(), asker.ID, q.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete-question-row")
	assert.Equal(t, 2, env.db.countAnswers(), "answer removal is rolled back")
	assert.Equal(t, 1, env.db.countQuestions())
}

func TestQuestionService_DeleteAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asker := env.seedUser(t, "asker@example.com", models.RoleBuyer)
	stranger := env.seedUser(t, "stranger@example.com", models.RoleSeller)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdministrator)
	q := env.seedQuestion(t, asker.ID, "Heating?")

	err := env.questions.Delete(ctx, stranger.ID, q.ID)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, "You don't have permission to delete this question", err.Error())

	require.NoError(t, env.questions.Delete(ctx, admin.ID, q.ID))
	assert.Zero(t, env.db.countQuestions())
}

func TestQuestionService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asker := env.seedUser(t, "asker@example.com", models.RoleBuyer)
	q := env.seedQuestion(t, asker.ID, "Old title")

	got, err := env.questions.Update(ctx, asker.ID, q.ID, dto.UpdateQuestionRequest{Title: patch.Set("New title"), Content: patch.Set("")})
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, q.Content, got.Content)

	_, err = env.questions.Update(ctx, asker.ID, q.ID, dto.UpdateQuestionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNoUpdates)
}

func TestQuestionService_ListByUser(t *testing.T) {
	env := newTestEnv(t)
	asker := env.seedUser(t, "asker@example.com", models.RoleBuyer)
	env.seedQuestion(t, asker.ID, "One")

	qs, err := env.questions.ListByUser(context.Background(), asker.ID)
	require.NoError(t, err)
	assert.Len(t, qs, 1)

	_, err = env.questions.ListByUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
