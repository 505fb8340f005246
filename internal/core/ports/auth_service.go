package ports

import (
	"context"

	"github.com/wowlabz/accounts-api/internal/core/domain"
)

// CreateUserInput is the validated registration payload.
type CreateUserInput struct {
	FirstName   string
	LastName    string
	Email       string
	CountryCode string
	Phone       string
}

// AuthService covers registration, login, session maintenance and the
// per-route authorization check.
type AuthService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (string, error)
	Login(ctx context.Context, email, password string, meta domain.ClientMetadata) (*domain.TokenData, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.TokenData, error)
	SendDefaultPassword(ctx context.Context, userID, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	UsersPaginated(ctx context.Context, page, pageSize int64, searchQuery string) (*PagedResult, error)

	// Authorize validates a bearer token end to end: signature, token type,
	// persisted session row joined to a live user, account status, and role
	// allow-list. On success it stamps last_active in the background.
	Authorize(ctx context.Context, token string, allowedRoles []domain.Role, tokenType domain.TokenType) (*domain.SessionClaims, error)
}

// Notifier delivers credentials out of band (email/SMS vendors live behind
// this boundary). Implementations must never propagate vendor failures to
// the request path.
type Notifier interface {
	SendCredentials(ctx context.Context, email, password string) error
}

// Throttle rate-limits temp-password issuance per key.
type Throttle interface {
	Allow(ctx context.Context, key string) (bool, error)
}
