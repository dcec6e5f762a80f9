package models

import (
	"time"

	"github.com/google/uuid"
)

// Question defines a forum question stored in the 'questions' table
type Question struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// QuestionDetails is a Question joined with its author; Answers is only
// populated on single-question lookups.
type QuestionDetails struct {
	Question
	Owner   OwnerSummary
	Answers []*AnswerDetails
}
