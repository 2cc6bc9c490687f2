package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pic-backend/internal/domain"
)

// FormResponseRepository persists completion markers and their answers.
type FormResponseRepository interface {
	Exists(ctx context.Context, userID, formID int64) (bool, error)
	// Submit writes the response and all answers in one transaction. It
	// returns ErrAlreadyResponded when (user, form) already has a response,
	// and ErrUserNotFound or ErrFormNotFound when a referenced row is gone.
	Submit(ctx context.Context, response *domain.FormResponse, answers []domain.Answer) error
	ListFormIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

type formResponseRepository struct {
	db DB
}

// NewFormResponseRepository builds repository.
func NewFormResponseRepository(db DB) FormResponseRepository {
	return &formResponseRepository{db: db}
}

func (r *formResponseRepository) Exists(ctx context.Context, userID, formID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM form_responses WHERE user_id=$1 AND form_id=$2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, formID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *formResponseRepository) Submit(ctx context.Context, response *domain.FormResponse, answers []domain.Answer) (err error) {
	const insertResponse = `
        INSERT INTO form_responses (form_id, user_id, answered_at, status)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT ON CONSTRAINT ` + constraintFormResponseUser + ` DO NOTHING
        RETURNING id, created_at, updated_at`
	const insertAnswer = `
        INSERT INTO answers (public_id, form_id, user_id, question, question_type, answer)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin submit: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	err = tx.QueryRow(ctx, insertResponse,
		response.FormID,
		response.UserID,
		response.AnsweredAt,
		response.Status,
	).Scan(&response.ID, &response.CreatedAt, &response.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAlreadyResponded
	}
	if err != nil {
		return submitError("insert form response", err)
	}

	for i := range answers {
		answer := &answers[i]
		if answer.PublicID == "" {
			answer.PublicID = uuid.NewString()
		}
		err = tx.QueryRow(ctx, insertAnswer,
			answer.PublicID,
			answer.FormID,
			answer.UserID,
			answer.Question,
			answer.QuestionType,
			answer.Answer,
		).Scan(&answer.ID, &answer.CreatedAt, &answer.UpdatedAt)
		if err != nil {
			return submitError("insert answer", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit submit: %w", err)
	}
	return nil
}

// submitError turns foreign key violations into the missing-parent sentinels.
func submitError(op string, err error) error {
	if constraint, ok := foreignKeyConstraint(err); ok {
		switch constraint {
		case constraintFormResponseUserFK, constraintAnswerUserFK:
			return ErrUserNotFound
		case constraintFormResponseFormFK, constraintAnswerFormFK:
			return ErrFormNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *formResponseRepository) ListFormIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	const query = `SELECT form_id FROM form_responses WHERE user_id=$1 ORDER BY answered_at ASC, id ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}
