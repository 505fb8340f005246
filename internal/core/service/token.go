package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wowlabz/accounts-api/internal/core/domain"
)

const (
	// AccessTokenTTL is the signature lifetime of an access token.
	AccessTokenTTL = 24 * time.Hour
	// RefreshTokenTTL is the signature lifetime of a refresh token.
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// TokenManager issues and verifies HS256 session tokens against one
// process-wide secret. Rotating the secret invalidates every outstanding
// token.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

type sessionTokenClaims struct {
	UserID    string           `json:"user_id"`
	UserType  domain.Role      `json:"user_type"`
	TokenType domain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Create signs a token for the given identity. The returned expiry is a
// millisecond Unix timestamp.
func (m *TokenManager) Create(userID string, userType domain.Role, tokenType domain.TokenType, ttl time.Duration) (string, int64, error) {
	now := time.Now().UTC()
	expiry := now.Add(ttl)

	claims := sessionTokenClaims{
		UserID:    userID,
		UserType:  userType,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiry.UnixMilli(), nil
}

// Verify checks signature and expiry and returns the decoded identity.
// Any cryptographic or expiry failure maps to ErrTokenInvalid.
func (m *TokenManager) Verify(token string) (*domain.SessionClaims, error) {
	claims := &sessionTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.SessionClaims{
		UserID:    claims.UserID,
		UserType:  claims.UserType,
		TokenType: claims.TokenType,
	}, nil
}
