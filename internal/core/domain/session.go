package domain

// TokenType distinguishes access tokens from refresh tokens inside the
// signed claims.
type TokenType string

const (
	TokenBearer  TokenType = "bearer"
	TokenRefresh TokenType = "refresh"
)

// ClientMetadata is the fingerprint of the client that obtained a session,
// recorded so a token row can be traced back to its origin.
type ClientMetadata struct {
	OS      string `json:"os" bson:"os"`
	Device  string `json:"device" bson:"device"`
	Browser string `json:"browser" bson:"browser"`
}

// SessionToken is a persisted token pair. Rows are append-only: refresh
// produces a new row, nothing ever mutates an existing one. Liveness is
// signature expiry plus the existence of a matching row.
type SessionToken struct {
	ID           string         `json:"id" bson:"_id,omitempty"`
	UserID       string         `json:"user_id" bson:"user_id"`
	UserType     Role           `json:"user_type" bson:"user_type"`
	AccessToken  string         `json:"access_token" bson:"access_token"`
	RefreshToken string         `json:"refresh_token" bson:"refresh_token"`
	Metadata     ClientMetadata `json:"metadata" bson:"metadata"`
	CreatedAt    int64          `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt    int64          `json:"updated_at" bson:"updated_at,omitempty"`
}

// SessionClaims is the decoded identity carried by a verified token,
// injected into the request context by the auth guard.
type SessionClaims struct {
	UserID    string    `json:"user_id"`
	UserType  Role      `json:"user_type"`
	TokenType TokenType `json:"token_type"`
}

// TokenData is the result of issuing or refreshing a session.
type TokenData struct {
	AccessToken       string `json:"access_token"`
	AccessTokenExpiry int64  `json:"access_token_expiry"`
	RefreshToken      string `json:"refresh_token,omitempty"`
	UserID            string `json:"user_id,omitempty"`
	UserType          Role   `json:"user_type,omitempty"`
}
