package models

import (
	"time"

	"github.com/google/uuid"
)

// Answer defines a reply to a Question stored in the 'answers' table
type Answer struct {
	ID         uuid.UUID `db:"id"`
	Content    string    `db:"content"`
	UserID     uuid.UUID `db:"user_id"`
	QuestionID uuid.UUID `db:"question_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// AnswerDetails is an Answer joined with its author.
type AnswerDetails struct {
	Answer
	Owner OwnerSummary
}
