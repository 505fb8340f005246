package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"
)

// DocsAuth gates the swagger UI behind HTTP basic auth. The configured
// password is a bcrypt hash; the username compare is constant-time.
func DocsAuth(username, passwordHash string) echo.MiddlewareFunc {
	return echomiddleware.BasicAuth(func(user, pass string, _ echo.Context) (bool, error) {
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
		passOK := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) == nil
		return userOK && passOK, nil
	})
}
