package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventFormAnswered   EventType = "form_answered"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	PublicID string `json:"public_id"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
}

// FormAnsweredPayload payload.
type FormAnsweredPayload struct {
	FormID      int64  `json:"form_id"`
	ResponseID  int64  `json:"response_id"`
	AnswerCount int    `json:"answer_count"`
	Status      string `json:"status"`
}
