package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/pic-backend/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	UserID int64
}

// AuthMiddleware validates bearer tokens and stores the principal.
// It does not load the user; handlers decide how to treat a vanished user.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	userID, err := m.tokens.ParseToken(bearerToken(c.Get(fiber.HeaderAuthorization)))
	if err != nil {
		return TokenError(err)
	}

	c.Locals(principalKey, &Principal{UserID: userID})
	return c.Next()
}

// TokenError maps token failures onto their client-facing error.
func TokenError(err error) error {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return apperrors.NewUnauthorized(apperrors.CodeTokenMissing, "Token de acesso ausente")
	case errors.Is(err, ErrTokenExpired):
		return apperrors.NewUnauthorized(apperrors.CodeTokenExpired, "Token de acesso expirado")
	default:
		return apperrors.NewUnauthorized(apperrors.CodeTokenInvalid, "Token de acesso inválido")
	}
}

// bearerToken extracts the credential from an Authorization header. A
// header with another scheme counts as no token at all.
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
