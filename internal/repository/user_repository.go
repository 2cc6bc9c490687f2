package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pic-backend/internal/domain"
)

// UserRepository defines persistence access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByCredentials(ctx context.Context, phone string, birthdate time.Time) (*domain.User, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, public_id, level, name, email, phone, birthdate, neighborhood, city, state,
               postal_code, street, created_at, updated_at`

// Create inserts the user. Unique violations come back as ErrPhoneTaken or
// ErrEmailTaken.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (public_id, level, name, email, phone, birthdate, neighborhood, city, state, postal_code, street)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`

	if user.PublicID == "" {
		user.PublicID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx, query,
		user.PublicID,
		user.Level,
		user.Name,
		user.Email,
		user.Phone,
		user.Birthdate,
		user.Neighborhood,
		user.City,
		user.State,
		user.PostalCode,
		user.Street,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case constraintUserPhone:
			return ErrPhoneTaken
		case constraintUserEmail:
			return ErrEmailTaken
		}
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone=$1`
	return scanUser(r.db.QueryRow(ctx, query, phone))
}

func (r *userRepository) GetByCredentials(ctx context.Context, phone string, birthdate time.Time) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone=$1 AND birthdate=$2`
	return scanUser(r.db.QueryRow(ctx, query, phone, birthdate))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.PublicID,
		&user.Level,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Birthdate,
		&user.Neighborhood,
		&user.City,
		&user.State,
		&user.PostalCode,
		&user.Street,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
