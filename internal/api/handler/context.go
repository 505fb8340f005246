package handler

import "github.com/labstack/echo/v4"

// Context keys set by the auth guard after a token passes every check.
const (
	CtxUserID    = "user_id"
	CtxUserType  = "user_type"
	CtxTokenType = "token_type"
)

// CtxIdentity reads the authenticated identity injected by the auth guard.
// Empty values mean the guard did not run on this route.
func CtxIdentity(c echo.Context) (userID, userType string) {
	userID, _ = c.Get(CtxUserID).(string)
	userType, _ = c.Get(CtxUserType).(string)
	return userID, userType
}
