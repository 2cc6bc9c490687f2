package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from the schema, used to classify integrity violations.
const (
	constraintUserPhone          = "users_phone_key"
	constraintUserEmail          = "users_email_key"
	constraintFormResponseUser   = "form_responses_user_form_key"
	constraintFormResponseUserFK = "form_responses_user_id_fkey"
	constraintFormResponseFormFK = "form_responses_form_id_fkey"
	constraintAnswerUserFK       = "answers_user_id_fkey"
	constraintAnswerFormFK       = "answers_form_id_fkey"

	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var (
	ErrPhoneTaken       = errors.New("phone already registered")
	ErrEmailTaken       = errors.New("email already registered")
	ErrAlreadyResponded = errors.New("form already answered by user")
	ErrUserNotFound     = errors.New("user not found")
	ErrFormNotFound     = errors.New("form not found")
)

func uniqueConstraint(err error) (string, bool) {
	return violatedConstraint(err, uniqueViolation)
}

func foreignKeyConstraint(err error) (string, bool) {
	return violatedConstraint(err, foreignKeyViolation)
}

func violatedConstraint(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
