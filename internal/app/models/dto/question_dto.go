package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/pkg/patch"
)

// CreateQuestionRequest is the body of POST /questions
type CreateQuestionRequest struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
}

// UpdateQuestionRequest is the body of PATCH /questions/:id
type UpdateQuestionRequest struct {
	Title   patch.Field[string] `json:"title" swaggertype:"string"`
	Content patch.Field[string] `json:"content" swaggertype:"string"`
}

// QuestionResponse is the question view. Answers is only present on
// single-question lookups.
type QuestionResponse struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title" example:"Is the harbour area safe at night?"`
	Content   string            `json:"content"`
	UserID    uuid.UUID         `json:"userId"`
	Owner     OwnerResponse     `json:"owner"`
	Answers   *[]AnswerResponse `json:"answers,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func NewQuestionResponse(q *models.QuestionDetails) QuestionResponse {
	resp := QuestionResponse{
		ID:        q.ID,
		Title:     q.Title,
		Content:   q.Content,
		UserID:    q.UserID,
		Owner:     NewOwnerResponse(q.Owner),
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
	if q.Answers != nil {
		answers := NewAnswerListResponse(q.Answers)
		resp.Answers = &answers
	}
	return resp
}

func NewQuestionListResponse(qs []*models.QuestionDetails) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, NewQuestionResponse(q))
	}
	return out
}
