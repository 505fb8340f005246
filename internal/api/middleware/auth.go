package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wowlabz/accounts-api/internal/api/handler"
	"github.com/wowlabz/accounts-api/internal/api/metrics"
	"github.com/wowlabz/accounts-api/internal/core/domain"
)

// Authorizer is the slice of the auth service the guard needs.
type Authorizer interface {
	Authorize(ctx context.Context, token string, allowedRoles []domain.Role, tokenType domain.TokenType) (*domain.SessionClaims, error)
}

// Auth guards a route with the full authorization check: bearer
// extraction, signature/type verification, session join against a live
// user, account status and the role allow-list. On success the identity is
// injected into the echo context.
func Auth(auth Authorizer, tokenType domain.TokenType, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_header").Inc()
				return err
			}

			claims, err := auth.Authorize(c.Request().Context(), token, allowedRoles, tokenType)
			if err != nil {
				return err
			}

			c.Set(handler.CtxUserID, claims.UserID)
			c.Set(handler.CtxUserType, string(claims.UserType))
			c.Set(handler.CtxTokenType, string(claims.TokenType))

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
