package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/pic-backend/internal/auth"
	"github.com/spec-kit/pic-backend/internal/config"
	"github.com/spec-kit/pic-backend/internal/domain"
	"github.com/spec-kit/pic-backend/internal/events"
	"github.com/spec-kit/pic-backend/internal/repository"
	apperrors "github.com/spec-kit/pic-backend/pkg/util/errorutil"
)

// Client-facing messages shared by handlers and tests.
const (
	MsgInvalidBirthdate   = "Formato de data_nascimento inválido. Use DD/MM/AAAA"
	MsgInvalidPhone       = "Telefone deve conter ao menos um dígito"
	MsgInvalidCredentials = "Credenciais inválidas"
	MsgPhoneTaken         = "Telefone já cadastrado"
	MsgEmailTaken         = "E-mail já cadastrado"
	MsgMissingName        = "Campo obrigatório ausente: nome"
)

// RegisterInput is the raw registration payload.
type RegisterInput struct {
	Name         string
	Phone        string
	Birthdate    string
	Email        *string
	Neighborhood *string
	City         *string
	State        *string
	PostalCode   *string
	Street       *string
}

// AuthService coordinates registration, login and profile lookups.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// RegisterUser creates a new user. No token is issued; clients log in next.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*domain.User, error) {
	phone, birthdate, err := parseCredentials(input.Phone, input.Birthdate)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError(MsgMissingName, map[string]any{"campo": "nome"})
	}

	if _, err := s.users.GetByPhone(ctx, phone); err == nil {
		return nil, apperrors.NewConflict(apperrors.CodePhoneTaken, MsgPhoneTaken, nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	user := &domain.User{
		PublicID:     uuid.NewString(),
		Name:         name,
		Email:        trimmedOrNil(input.Email),
		Phone:        phone,
		Birthdate:    birthdate,
		Neighborhood: trimmedOrNil(input.Neighborhood),
		City:         trimmedOrNil(input.City),
		State:        trimmedOrNil(input.State),
		PostalCode:   trimmedOrNil(input.PostalCode),
		Street:       trimmedOrNil(input.Street),
	}
	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrPhoneTaken):
			return nil, apperrors.NewConflict(apperrors.CodePhoneTaken, MsgPhoneTaken, nil)
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, apperrors.NewConflict(apperrors.CodeEmailTaken, MsgEmailTaken, nil)
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Payload: events.UserRegisteredPayload{
			PublicID: user.PublicID,
			City:     derefString(user.City),
			State:    derefString(user.State),
		},
	})
	return user, nil
}

// LoginUser authenticates by phone and birthdate. Unknown phone and wrong
// birthdate produce the same error.
func (s *AuthService) LoginUser(ctx context.Context, rawPhone, rawBirthdate string) (*domain.User, *domain.Token, error) {
	phone, birthdate, err := parseCredentials(rawPhone, rawBirthdate)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByCredentials(ctx, phone, birthdate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, invalidCredentials()
		}
		return nil, nil, err
	}

	token, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, nil, err
	}
	s.publish(ctx, events.Event{Type: events.EventUserLoggedIn, UserID: user.ID})
	return user, token, nil
}

// Profile loads the user behind a token subject.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Usuário", map[string]any{"id": userID})
		}
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

// parseCredentials validates and normalizes the credential pair before any
// store access.
func parseCredentials(rawPhone, rawBirthdate string) (string, time.Time, error) {
	birthdate, err := domain.ParseBirthdate(rawBirthdate)
	if err != nil {
		return "", time.Time{}, apperrors.NewBadRequest(apperrors.CodeInvalidBirthdate, MsgInvalidBirthdate, nil)
	}
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return "", time.Time{}, apperrors.NewValidationError(MsgInvalidPhone, map[string]any{"campo": "telefone"})
	}
	return phone, birthdate, nil
}

func invalidCredentials() error {
	return apperrors.NewUnauthorized(apperrors.CodeInvalidCredentials, MsgInvalidCredentials)
}

func trimmedOrNil(val *string) *string {
	if val == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func derefString(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
