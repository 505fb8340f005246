package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/wowlabz/accounts-api/internal/core/domain"
	"github.com/wowlabz/accounts-api/internal/core/ports"
)

type stubAuthService struct {
	createUserFn func(in ports.CreateUserInput) (string, error)
	loginFn      func(email, password string, meta domain.ClientMetadata) (*domain.TokenData, error)
	refreshFn    func(refreshToken string) (*domain.TokenData, error)
	paginatedFn  func(page, pageSize int64, searchQuery string) (*ports.PagedResult, error)
}

func (s *stubAuthService) CreateUser(_ context.Context, in ports.CreateUserInput) (string, error) {
	return s.createUserFn(in)
}

func (s *stubAuthService) Login(_ context.Context, email, password string, meta domain.ClientMetadata) (*domain.TokenData, error) {
	return s.loginFn(email, password, meta)
}

func (s *stubAuthService) RefreshAccessToken(_ context.Context, refreshToken string) (*domain.TokenData, error) {
	return s.refreshFn(refreshToken)
}

func (s *stubAuthService) SendDefaultPassword(context.Context, string, string) (string, error) {
	return "Password successfully sent", nil
}

func (s *stubAuthService) ForgotPassword(context.Context, string) (string, error) {
	return "Password successfully sent", nil
}

func (s *stubAuthService) UsersPaginated(_ context.Context, page, pageSize int64, searchQuery string) (*ports.PagedResult, error) {
	return s.paginatedFn(page, pageSize, searchQuery)
}

func (s *stubAuthService) Authorize(context.Context, string, []domain.Role, domain.TokenType) (*domain.SessionClaims, error) {
	return nil, domain.ErrTokenInvalid
}

func postJSON(t *testing.T, h echo.HandlerFunc, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestLogin_ReturnsSuccessEnvelope(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(email, password string, _ domain.ClientMetadata) (*domain.TokenData, error) {
			if email != "asha@example.com" || password != "digest" {
				t.Fatalf("credentials not forwarded: %s / %s", email, password)
			}
			return &domain.TokenData{AccessToken: "tok", RefreshToken: "ref", UserID: "u1"}, nil
		},
	}
	h := NewAuthHandler(svc)

	rec, err := postJSON(t, h.Login, `{"email":"asha@example.com","password":"digest"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status string           `json:"status"`
		Data   domain.TokenData `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Status != "SUCCESS" {
		t.Fatalf("expected SUCCESS status, got %q", body.Status)
	}
	if body.Data.AccessToken != "tok" || body.Data.UserID != "u1" {
		t.Fatalf("token data missing: %+v", body.Data)
	}
}

func TestLogin_PassesClientMetadata(t *testing.T) {
	var got domain.ClientMetadata
	svc := &stubAuthService{
		loginFn: func(_, _ string, meta domain.ClientMetadata) (*domain.TokenData, error) {
			got = meta
			return &domain.TokenData{}, nil
		},
	}
	h := NewAuthHandler(svc)

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com","password":"digest"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) Chrome/120.0 Safari/537.36")
	rec := httptest.NewRecorder()
	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.OS != "Linux" || got.Browser != "Chrome" || got.Device != "desktop" {
		t.Fatalf("unexpected fingerprint: %+v", got)
	}
}

func TestCreateUser_ValidationFailure(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		createUserFn: func(ports.CreateUserInput) (string, error) {
			t.Fatalf("service called despite invalid payload")
			return "", nil
		},
	})

	_, err := postJSON(t, h.CreateUser, `{"first_name":"Asha","last_name":"Rao","email":"not-an-email"}`)

	ve, ok := err.(*RequestValidationError)
	if !ok {
		t.Fatalf("expected RequestValidationError, got %v", err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0].Field != "email" {
		t.Fatalf("unexpected field detail: %+v", ve.Fields)
	}
}

func TestCreateUser_ServiceErrorPropagates(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		createUserFn: func(ports.CreateUserInput) (string, error) {
			return "", domain.ErrEmailInUse
		},
	})

	_, err := postJSON(t, h.CreateUser, `{"first_name":"Asha","last_name":"Rao","email":"a@x.com"}`)
	if err != domain.ErrEmailInUse {
		t.Fatalf("expected ErrEmailInUse passthrough, got %v", err)
	}
}

func TestRefresh_RequiresToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		refreshFn: func(string) (*domain.TokenData, error) {
			t.Fatalf("service called despite missing token")
			return nil, nil
		},
	})

	_, err := postJSON(t, h.Refresh, `{}`)
	if _, ok := err.(*RequestValidationError); !ok {
		t.Fatalf("expected RequestValidationError, got %v", err)
	}
}

func TestUsersPaginated_QueryDefaults(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		paginatedFn: func(page, pageSize int64, searchQuery string) (*ports.PagedResult, error) {
			if page != 1 || pageSize != 10 || searchQuery != "" {
				t.Fatalf("defaults not applied: page=%d size=%d q=%q", page, pageSize, searchQuery)
			}
			return &ports.PagedResult{Data: []ports.Document{}}, nil
		},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/users/paginated", nil)
	rec := httptest.NewRecorder()
	if err := h.UsersPaginated(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUsersPaginated_QueryForwarding(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		paginatedFn: func(page, pageSize int64, searchQuery string) (*ports.PagedResult, error) {
			if page != 3 || pageSize != 25 || searchQuery != "asha" {
				t.Fatalf("query not forwarded: page=%d size=%d q=%q", page, pageSize, searchQuery)
			}
			return &ports.PagedResult{}, nil
		},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/users/paginated?page=3&page_size=25&search_query=asha", nil)
	rec := httptest.NewRecorder()
	if err := h.UsersPaginated(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
