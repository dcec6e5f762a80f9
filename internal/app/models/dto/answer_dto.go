package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/pkg/patch"
)

// CreateAnswerRequest is the body of POST /answers
type CreateAnswerRequest struct {
	QuestionID string `json:"questionId" form:"questionId"`
	Content    string `json:"content" form:"content"`
}

// UpdateAnswerRequest is the body of PATCH /answers/:id
type UpdateAnswerRequest struct {
	Content patch.Field[string] `json:"content" swaggertype:"string"`
}

// AnswerResponse is the answer view
type AnswerResponse struct {
	ID         uuid.UUID     `json:"id"`
	Content    string        `json:"content"`
	UserID     uuid.UUID     `json:"userId"`
	QuestionID uuid.UUID     `json:"questionId"`
	Owner      OwnerResponse `json:"owner"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func NewAnswerResponse(a *models.AnswerDetails) AnswerResponse {
	return AnswerResponse{
		ID:         a.ID,
		Content:    a.Content,
		UserID:     a.UserID,
		QuestionID: a.QuestionID,
		Owner:      NewOwnerResponse(a.Owner),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func NewAnswerListResponse(as []*models.AnswerDetails) []AnswerResponse {
	out := make([]AnswerResponse, 0, len(as))
	for _, a := range as {
		out = append(out, NewAnswerResponse(a))
	}
	return out
}
