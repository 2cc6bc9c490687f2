package repository

import (
	"context"


	"github.com/spec-kit/pic-backend/internal/domain"
)

// FormRepository reads forms. Forms are provisioned outside the API.
type FormRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Form, error)
}

type formRepository struct {
	db DB
}

// NewFormRepository builds repository.
func NewFormRepository(db DB) FormRepository {
	return &formRepository{db: db}
}

func (r *formRepository) GetByID(ctx context.Context, id int64) (*domain.Form, error) {
	const query = `
        SELECT id, title, COALESCE(description, ''), opens_at, closes_at, created_at, updated_at
        FROM forms WHERE id=$1`

	var form domain.Form
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&form.ID,
		&form.Title,
		&form.Description,
		&form.OpensAt,
		&form.ClosesAt,
		&form.CreatedAt,
		&form.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &form, nil
}
