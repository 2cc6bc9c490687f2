package repository

import (
	"context"


	"github.com/spec-kit/pic-backend/internal/domain"
)

// AnswerRepository lists stored answers. Answers are written only through
// FormResponseRepository.Submit.
type AnswerRepository interface {
	ListAll(ctx context.Context) ([]domain.Answer, error)
}

type answerRepository struct {
	db DB
}

// NewAnswerRepository builds repository.
func NewAnswerRepository(db DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) ListAll(ctx context.Context) ([]domain.Answer, error) {
	const query = `
        SELECT id, public_id, form_id, user_id, question, question_type, answer, created_at, updated_at
        FROM answers ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Answer{}
	for rows.Next() {
		var answer domain.Answer
		if err := rows.Scan(
			&answer.ID,
			&answer.PublicID,
			&answer.FormID,
			&answer.UserID,
			&answer.Question,
			&answer.QuestionType,
			&answer.Answer,
			&answer.CreatedAt,
			&answer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, answer)
	}
	return result, rows.Err()
}
