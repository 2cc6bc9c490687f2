package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pic-backend/internal/domain"
	"github.com/spec-kit/pic-backend/internal/events"
	"github.com/spec-kit/pic-backend/internal/repository"
	"github.com/spec-kit/pic-backend/internal/service"
	"github.com/spec-kit/pic-backend/internal/testutil"
	apperrors "github.com/spec-kit/pic-backend/pkg/util/errorutil"
)

func newAuthService(store *testutil.Store, dispatcher events.Dispatcher) *service.AuthService {
	return service.NewAuthService(testutil.Config(), service.AuthDependencies{
		UserRepo:   store.Users(),
		Dispatcher: dispatcher,
	})
}

func strPtr(s string) *string { return &s }

func TestRegisterNormalizesPhone(t *testing.T) {
	store := testutil.NewStore()
	svc := newAuthService(store, nil)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, service.RegisterInput{
		Name:      " Marcus Zanini ",
		Phone:     "(13) 99155-0539",
		Birthdate: "04/07/2000",
		City:      strPtr("São Vicente"),
		State:     strPtr("SP"),
		Street:    strPtr("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "13991550539", user.Phone)
	assert.Equal(t, "Marcus Zanini", user.Name)
	assert.Equal(t, "São Vicente", *user.City)
	assert.Nil(t, user.Street)
	assert.NotEmpty(t, user.PublicID)

	loggedIn, token, err := svc.LoginUser(ctx, "13991550539", "04/07/2000")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	subject, err := svc.TokenManager().ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestRegisterDuplicatePhoneConflicts(t *testing.T) {
	store := testutil.NewStore()
	svc := newAuthService(store, nil)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, service.RegisterInput{Name: "A", Phone: "13991550539", Birthdate: "04/07/2000"})
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, service.RegisterInput{Name: "B", Phone: "(13) 9 9155-0539", Birthdate: "01/01/1990"})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodePhoneTaken, de.Code)
	assert.Equal(t, 409, de.HTTPStatus)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	store := testutil.NewStore()
	svc := newAuthService(store, nil)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, service.RegisterInput{Name: "A", Phone: "111", Birthdate: "04/07/2000", Email: strPtr("a@example.com")})
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, service.RegisterInput{Name: "B", Phone: "222", Birthdate: "04/07/2000", Email: strPtr("a@example.com")})
	assert.Equal(t, apperrors.CodeEmailTaken, apperrors.CodeOf(err))
}

// countingUsers records every repository call.
type countingUsers struct {
	repository.UserRepository
	calls int
}

func (c *countingUsers) Create(ctx context.Context, user *domain.User) error {
	c.calls++
	return c.UserRepository.Create(ctx, user)
}

func (c *countingUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	c.calls++
	return c.UserRepository.GetByID(ctx, id)
}

func (c *countingUsers) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	c.calls++
	return c.UserRepository.GetByPhone(ctx, phone)
}

func (c *countingUsers) GetByCredentials(ctx context.Context, phone string, birthdate time.Time) (*domain.User, error) {
	c.calls++
	return c.UserRepository.GetByCredentials(ctx, phone, birthdate)
}

func newCountingAuthService(store *testutil.Store) (*service.AuthService, *countingUsers) {
	users := &countingUsers{UserRepository: store.Users()}
	return service.NewAuthService(testutil.Config(), service.AuthDependencies{UserRepo: users}), users
}

func TestRegisterRejectsMalformedBirthdate(t *testing.T) {
	svc, users := newCountingAuthService(testutil.NewStore())
	for _, raw := range []string{"04-07-2000", "2000/07/04", "quatro/julho/2000", "31/02/2000"} {
		_, err := svc.RegisterUser(context.Background(), service.RegisterInput{Name: "A", Phone: "111", Birthdate: raw})
		de := apperrors.ToDomainError(err)
		require.NotNil(t, de, raw)
		assert.Equal(t, apperrors.CodeInvalidBirthdate, de.Code, raw)
		assert.Equal(t, 400, de.HTTPStatus, raw)
	}
	assert.Zero(t, users.calls)
}

func TestRegisterRejectsBlankName(t *testing.T) {
	store := testutil.NewStore()
	svc, users := newCountingAuthService(store)
	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := svc.RegisterUser(context.Background(), service.RegisterInput{Name: name, Phone: "111", Birthdate: "04/07/2000"})
		de := apperrors.ToDomainError(err)
		require.NotNil(t, de, name)
		assert.Equal(t, apperrors.CodeValidation, de.Code)
		assert.Equal(t, service.MsgMissingName, de.Message)
	}
	assert.Zero(t, users.calls)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := testutil.NewStore()
	svc := newAuthService(store, nil)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, service.RegisterInput{Name: "A", Phone: "13991550539", Birthdate: "04/07/2000"})
	require.NoError(t, err)

	_, _, wrongBirthdate := svc.LoginUser(ctx, "13991550539", "05/07/2000")
	_, _, unknownPhone := svc.LoginUser(ctx, "11999999999", "04/07/2000")

	require.Error(t, wrongBirthdate)
	require.Error(t, unknownPhone)
	a, b := apperrors.ToDomainError(wrongBirthdate), apperrors.ToDomainError(unknownPhone)
	assert.Equal(t, apperrors.CodeInvalidCredentials, a.Code)
	assert.Equal(t, 401, a.HTTPStatus)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Details, b.Details)
}

func TestLoginRejectsMalformedBirthdate(t *testing.T) {
	svc, users := newCountingAuthService(testutil.NewStore())
	_, _, err := svc.LoginUser(context.Background(), "13991550539", "2000-07-04")
	assert.Equal(t, apperrors.CodeInvalidBirthdate, apperrors.CodeOf(err))
	assert.Zero(t, users.calls)
}

func TestProfileMissingUser(t *testing.T) {
	svc := newAuthService(testutil.NewStore(), nil)
	_, err := svc.Profile(context.Background(), 12345)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeNotFound, de.Code)
	assert.Equal(t, 404, de.HTTPStatus)
}

func TestRegisterPublishesEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var received []events.Event
	dispatcher.Subscribe(events.EventUserRegistered, func(_ context.Context, e events.Event) error {
		received = append(received, e)
		return nil
	})
	svc := newAuthService(testutil.NewStore(), dispatcher)

	user, err := svc.RegisterUser(context.Background(), service.RegisterInput{Name: "A", Phone: "111", Birthdate: "04/07/2000"})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, user.ID, received[0].UserID)
	assert.NotEmpty(t, received[0].ID)
}
