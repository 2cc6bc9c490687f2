// Package testutil provides in-memory repositories and token helpers for
// tests that exercise services and handlers without PostgreSQL.
package testutil

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pic-backend/internal/config"
	"github.com/spec-kit/pic-backend/internal/domain"
	"github.com/spec-kit/pic-backend/internal/repository"
)

// JWTSecret signs tokens in tests.
const JWTSecret = "test-secret-key"

// Config returns a configuration suitable for tests.
func Config() config.Config {
	return config.Config{
		App: config.AppConfig{Name: "pic-backend-test", Env: "test", Port: "0"},
		Auth: config.AuthConfig{
			JWTSecret:             JWTSecret,
			AccessTokenTTLMinutes: 12 * 60,
		},
		Forms: config.FormsConfig{SubmissionLockTTLSeconds: 30},
	}
}

// Store is an in-memory implementation of every repository. It enforces the
// same uniqueness rules as the SQL schema.
type Store struct {
	mu        sync.Mutex
	users     []domain.User
	forms     map[int64]domain.Form
	answers   []domain.Answer
	responses []domain.FormResponse
	nextID    int64
	now       func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		forms: map[int64]domain.Form{},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// SeedForm inserts a form and returns it.
func (s *Store) SeedForm(t *testing.T, title string) domain.Form {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	form := domain.Form{ID: s.id(), Title: title, OpensAt: now, CreatedAt: now, UpdatedAt: now}
	s.forms[form.ID] = form
	return form
}

// SeedUser inserts a user with the given phone and returns it.
func (s *Store) SeedUser(t *testing.T, phone string) domain.User {
	t.Helper()
	user := domain.User{
		Name:      "Usuário " + phone,
		Phone:     phone,
		Birthdate: time.Date(2000, 7, 4, 0, 0, 0, 0, time.UTC),
	}
	if err := (*userRepo)(s).Create(context.Background(), &user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// DeleteForm removes a form, simulating one deleted mid-submission.
func (s *Store) DeleteForm(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.forms, id)
}

// DeleteUser removes a user, simulating a token whose subject vanished.
func (s *Store) DeleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, user := range s.users {
		if user.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return
		}
	}
}

// AnswerCount returns the number of stored answers.
func (s *Store) AnswerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// ResponseCount returns the number of stored form responses.
func (s *Store) ResponseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.responses)
}

// Users returns the user repository view.
func (s *Store) Users() repository.UserRepository { return (*userRepo)(s) }

// Forms returns the form repository view.
func (s *Store) Forms() repository.FormRepository { return (*formRepo)(s) }

// Answers returns the answer repository view.
func (s *Store) Answers() repository.AnswerRepository { return (*answerRepo)(s) }

// FormResponses returns the form response repository view.
func (s *Store) FormResponses() repository.FormResponseRepository { return (*formResponseRepo)(s) }

type userRepo Store

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Phone == user.Phone {
			return repository.ErrPhoneTaken
		}
		if user.Email != nil && existing.Email != nil && *existing.Email == *user.Email {
			return repository.ErrEmailTaken
		}
	}
	if user.PublicID == "" {
		user.PublicID = uuid.NewString()
	}
	user.ID = s.id()
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	s.users = append(s.users, *user)
	return nil
}

func (r *userRepo) find(match func(domain.User) bool) (*domain.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if match(user) {
			found := user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *userRepo) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Phone == phone })
}

func (r *userRepo) GetByCredentials(_ context.Context, phone string, birthdate time.Time) (*domain.User, error) {
	return r.find(func(u domain.User) bool {
		return u.Phone == phone && domain.SameDay(u.Birthdate, birthdate)
	})
}

type formRepo Store

func (r *formRepo) GetByID(_ context.Context, id int64) (*domain.Form, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	form, ok := s.forms[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &form, nil
}

type answerRepo Store

func (r *answerRepo) ListAll(_ context.Context) ([]domain.Answer, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Answer, len(s.answers))
	copy(out, s.answers)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type formResponseRepo Store

func (r *formResponseRepo) Exists(_ context.Context, userID, formID int64) (bool, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasResponse(userID, formID), nil
}

func (s *Store) hasResponse(userID, formID int64) bool {
	for _, resp := range s.responses {
		if resp.UserID == userID && resp.FormID == formID {
			return true
		}
	}
	return false
}

func (s *Store) hasUser(id int64) bool {
	for _, user := range s.users {
		if user.ID == id {
			return true
		}
	}
	return false
}

// Submit is atomic under the store lock, mirroring the transactional insert
// and the schema's foreign keys.
func (r *formResponseRepo) Submit(_ context.Context, response *domain.FormResponse, answers []domain.Answer) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasResponse(response.UserID, response.FormID) {
		return repository.ErrAlreadyResponded
	}
	if !s.hasUser(response.UserID) {
		return repository.ErrUserNotFound
	}
	if _, ok := s.forms[response.FormID]; !ok {
		return repository.ErrFormNotFound
	}
	now := s.now()
	response.ID = s.id()
	response.CreatedAt = now
	response.UpdatedAt = now
	s.responses = append(s.responses, *response)
	for i := range answers {
		answers[i].ID = s.id()
		answers[i].CreatedAt = now
		answers[i].UpdatedAt = now
		s.answers = append(s.answers, answers[i])
	}
	return nil
}

func (r *formResponseRepo) ListFormIDsByUser(_ context.Context, userID int64) ([]int64, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for _, resp := range s.responses {
		if resp.UserID == userID {
			ids = append(ids, resp.FormID)
		}
	}
	return ids, nil
}
