package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/wowlabz/accounts-api/internal/api/handler"
	"github.com/wowlabz/accounts-api/internal/core/domain"
)

type stubAuthorizer struct {
	claims *domain.SessionClaims
	err    error

	gotToken string
	gotRoles []domain.Role
	gotType  domain.TokenType
}

func (s *stubAuthorizer) Authorize(_ context.Context, token string, allowedRoles []domain.Role, tokenType domain.TokenType) (*domain.SessionClaims, error) {
	s.gotToken = token
	s.gotRoles = allowedRoles
	s.gotType = tokenType
	return s.claims, s.err
}

func invokeAuth(t *testing.T, auth *stubAuthorizer, header string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	mw := Auth(auth, domain.TokenBearer, domain.RoleSuperAdmin)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, err
}

func TestAuth_MissingHeader(t *testing.T) {
	auth := &stubAuthorizer{}
	_, err := invokeAuth(t, auth, "")

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if auth.gotToken != "" {
		t.Fatalf("authorizer consulted without a header")
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	for _, header := range []string{"tok-123", "Basic tok-123", "Bearer "} {
		auth := &stubAuthorizer{}
		_, err := invokeAuth(t, auth, header)

		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %v", header, err)
		}
	}
}

func TestAuth_RejectionPropagates(t *testing.T) {
	auth := &stubAuthorizer{err: domain.ErrForbidden}
	_, err := invokeAuth(t, auth, "Bearer tok-123")

	if err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden passthrough, got %v", err)
	}
	if auth.gotToken != "tok-123" {
		t.Fatalf("token not forwarded: %q", auth.gotToken)
	}
}

func TestAuth_InjectsIdentity(t *testing.T) {
	auth := &stubAuthorizer{claims: &domain.SessionClaims{
		UserID:    "u1",
		UserType:  domain.RoleSuperAdmin,
		TokenType: domain.TokenBearer,
	}}

	c, err := invokeAuth(t, auth, "bearer tok-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if auth.gotType != domain.TokenBearer {
		t.Fatalf("token type not forwarded: %s", auth.gotType)
	}
	if len(auth.gotRoles) != 1 || auth.gotRoles[0] != domain.RoleSuperAdmin {
		t.Fatalf("allow-list not forwarded: %v", auth.gotRoles)
	}
	userID, userType := handler.CtxIdentity(c)
	if userID != "u1" {
		t.Fatalf("user id not injected: %q", userID)
	}
	if userType != "SUPER_ADMIN" {
		t.Fatalf("user type not injected: %q", userType)
	}
	if c.Get(handler.CtxTokenType) != "bearer" {
		t.Fatalf("token type not injected: %v", c.Get(handler.CtxTokenType))
	}
}
