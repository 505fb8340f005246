package domain

import "errors"

// Sentinel errors for the account/session domain. The API error handler
// resolves each to its HTTP status; services return them wrapped with
// context via fmt.Errorf("...: %w", err).
var (
	ErrEmptyFilter     = errors.New("filter params cannot be empty")
	ErrEmptyUpdate     = errors.New("update params cannot be empty")
	ErrWriteFailed     = errors.New("write produced no document")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrEmailInUse      = errors.New("email already in use")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailMissing    = errors.New("user has no registered email")
	ErrTokenInvalid    = errors.New("token is invalid or expired")
	ErrRefreshInvalid  = errors.New("refresh token is invalid")
	ErrPasswordInvalid = errors.New("password is invalid")
	ErrPasswordMissing = errors.New("no password has been provisioned for this account")
	ErrAccountInactive = errors.New("account is not active")
	ErrForbidden       = errors.New("access forbidden")
	ErrThrottled       = errors.New("too many password requests, retry later")
)
