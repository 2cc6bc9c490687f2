package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/pic-backend/internal/domain"
)

// DefaultTokenTTL is the bearer token validity window.
const DefaultTokenTTL = 12 * time.Hour

var (
	// ErrTokenMissing means no bearer token was presented.
	ErrTokenMissing = errors.New("token missing")
	// ErrTokenInvalid covers bad signatures, malformed tokens and bad subjects.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired means the token is past its validity window.
	ErrTokenExpired = errors.New("token expired")
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source, used for issuing and expiry checks.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// TTL returns the configured validity window.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// GenerateToken signs a token whose subject is the user id.
func (tm *TokenManager) GenerateToken(userID int64) (*domain.Token, error) {
	// exp travels in whole seconds; keep ExpiresAt equal to the claim.
	issuedAt := tm.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(tm.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return nil, err
	}
	return &domain.Token{
		Value:     signed,
		UserID:    userID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseToken validates the token and returns its subject. Errors are always
// one of ErrTokenMissing, ErrTokenInvalid or ErrTokenExpired.
func (tm *TokenManager) ParseToken(tokenStr string) (int64, error) {
	if tokenStr == "" {
		return 0, ErrTokenMissing
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrTokenInvalid
	}
	if claims.ExpiresAt == nil {
		return 0, ErrTokenInvalid
	}
	// exp itself is still inside the window.
	if tm.now().After(claims.ExpiresAt.Time) {
		return 0, ErrTokenExpired
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrTokenInvalid
	}
	return userID, nil
}
