package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
	"github.com/yigit/bazaar/internal/pkg/patch"
)

func TestAnswerService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asker := env.seedUser(t, "asker@example.com", models.RoleBuyer)
	helper := env.seedUser(t, "helper@example.com", models.RoleBuyer)
	q := env.seedQuestion(t, asker.ID, "Where to buy furniture?")

	got, err := env.answers.Create(ctx, helper.ID, q.ID.String(), " Try the market ")
	require.NoError(t, err)
	assert.Equal(t, "Try the market", got.Content)
	assert.Equal(t, q.ID, got.QuestionID)
	assert.Equal(t, helper.ID, got.Owner.ID)

	tests := []struct {
		name       string
		questionID string
		content    string
		wantErr    error
	}{
		{name: "malformed question id", questionID: "abc", content: "x", wantErr: apperrors.ErrInvalidID},
		{name: "unknown question", questionID: uuid.NewString(), content: "x", wantErr: apperrors.ErrQuestionNotFound},
		{name: "empty content", questionID: q.ID.String(), content: "   ", wantErr: apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.answers.Create(ctx, helper.ID, tt.questionID, tt.content)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, 1, env.db.countAnswers())
}

func TestAnswerService_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asker := env.seedUser(t, "asker@example.com", models.RoleBuyer)
	helper := env.seedUser(t, "helper@example.com", models.RoleBuyer)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdministrator)
	q := env.seedQuestion(t, asker.ID, "Pets allowed?")
	a := env.seedAnswer(t, helper.ID, q.ID, "Usually")

	_, err := env.answers.Update(ctx, asker.ID, a.ID, dto.UpdateAnswerRequest{Content: patch.Set("No")})
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, "You don't have permission to update this answer", err.Error())

	_, err = env.answers.Update(ctx, helper.ID, a.ID, dto.UpdateAnswerRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	got, err := env.answers.Update(ctx, helper.ID, a.ID, dto.UpdateAnswerRequest{Content: patch.Set("Depends on the owner")})
	require.NoError(t, err)
	assert.Equal(t, "Depends on the owner", got.Content)

	require.ErrorIs(t, env.answers.Delete(ctx, asker.ID, a.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, env.answers.Delete(ctx, admin.ID, a.ID))
	assert.Zero(t, env.db.countAnswers())

	_, err = env.answers.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrAnswerNotFound)
}

func TestAnswerService_Listings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asker := env.seedUser(t, "asker@example.com", models.RoleBuyer)
	helper := env.seedUser(t, "helper@example.com", models.RoleBuyer)
	q1 := env.seedQuestion(t, asker.ID, "One")
	q2 := env.seedQuestion(t, asker.ID, "Two")
	env.seedAnswer(t, helper.ID, q1.ID, "a")
	env.seedAnswer(t, helper.ID, q2.ID, "b")
	env.seedAnswer(t, asker.ID, q1.ID, "c")

	byQuestion, err := env.answers.ListByQuestion(ctx, q1.ID)
	require.NoError(t, err)
	assert.Len(t, byQuestion, 2)

	byUser, err := env.answers.ListByUser(ctx, helper.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	all, err := env.answers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = env.answers.ListByQuestion(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrQuestionNotFound)
	_, err = env.answers.ListByUser(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
