package domain

import "time"

// Form is a questionnaire users answer once each.
type Form struct {
	ID          int64
	Title       string
	Description string
	OpensAt     time.Time
	ClosesAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuestionTypeText is applied when a submission omits the question type.
const QuestionTypeText = "texto"

// Answer stores a single question/answer pair of a submission.
type Answer struct {
	ID           int64
	PublicID     string
	FormID       int64
	UserID       int64
	Question     string
	QuestionType string
	Answer       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FormResponseStatusCompleted labels a finished submission.
const FormResponseStatusCompleted = "concluido"

// FormResponse marks that a user completed a form. At most one exists per
// (UserID, FormID).
type FormResponse struct {
	ID         int64
	FormID     int64
	UserID     int64
	AnsweredAt time.Time
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
