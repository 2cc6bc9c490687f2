package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	conflict := NewConflict(CodePhoneTaken, "Telefone já cadastrado", nil)
	wrapped := fmt.Errorf("register: %w", conflict)

	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain error passes through", wrapped, CodePhoneTaken, http.StatusConflict},
		{"fiber not found", fiber.ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"fiber bad request", fiber.NewError(http.StatusBadRequest, "bad"), CodeValidation, http.StatusBadRequest},
		{"no rows", fmt.Errorf("get user: %w", pgx.ErrNoRows), CodeNotFound, http.StatusNotFound},
		{"anything else", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			assert.Equal(t, tc.code, de.Code)
			assert.Equal(t, tc.status, de.HTTPStatus)
		})
	}

	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	de := ToDomainError(NewInternalError(cause))
	assert.Equal(t, "erro interno do servidor", de.Message)
	assert.ErrorIs(t, de, cause)
}

func TestNotFoundMessage(t *testing.T) {
	de := ToDomainError(NewNotFound("Usuário", nil))
	assert.Equal(t, "Usuário não encontrado", de.Message)
	assert.Equal(t, CodeNotFound, CodeOf(de))
}
