package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wowlabz/accounts-api/internal/api/handler"
	"github.com/wowlabz/accounts-api/internal/core/domain"
)

func handleError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/users/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not the error envelope: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrEmptyFilter, http.StatusUnprocessableEntity},
		{domain.ErrWriteFailed, http.StatusUnprocessableEntity},
		{domain.ErrEmailInUse, http.StatusConflict},
		{domain.ErrDuplicateKey, http.StatusConflict},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrEmailMissing, http.StatusNotFound},
		{domain.ErrTokenInvalid, http.StatusUnauthorized},
		{domain.ErrRefreshInvalid, http.StatusUnauthorized},
		{domain.ErrPasswordInvalid, http.StatusUnauthorized},
		{domain.ErrAccountInactive, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrPasswordMissing, http.StatusTooEarly},
		{domain.ErrThrottled, http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			code, body := handleError(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if body.Status != "FAIL" {
				t.Fatalf("expected FAIL status, got %q", body.Status)
			}
			if body.ErrorData.ErrorCode != tc.code {
				t.Fatalf("envelope code %d does not match HTTP code %d", body.ErrorData.ErrorCode, tc.code)
			}
			if body.ErrorData.Message != tc.err.Error() {
				t.Fatalf("expected message %q, got %q", tc.err.Error(), body.ErrorData.Message)
			}
		})
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	code, _ := handleError(t, fmt.Errorf("users: %w", domain.ErrUserNotFound))
	if code != http.StatusNotFound {
		t.Fatalf("wrapped sentinel not unwrapped, got %d", code)
	}
}

func TestErrorHandler_ValidationDetail(t *testing.T) {
	code, body := handleError(t, &handler.RequestValidationError{
		Fields: []handler.FieldDetail{{Field: "email", Message: "email is required"}},
	})

	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	detail, ok := body.ErrorData.Detail.([]interface{})
	if !ok || len(detail) != 1 {
		t.Fatalf("expected one field detail, got %v", body.ErrorData.Detail)
	}
	field := detail[0].(map[string]interface{})
	if field["field"] != "email" {
		t.Fatalf("unexpected field detail: %v", field)
	}
}

func TestErrorHandler_EchoErrorPassthrough(t *testing.T) {
	code, body := handleError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body.ErrorData.Message != "invalid payload" {
		t.Fatalf("unexpected message: %q", body.ErrorData.Message)
	}
}

func TestErrorHandler_UnknownErrorHidesDetail(t *testing.T) {
	code, body := handleError(t, errors.New("connection reset by peer"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.ErrorData.Message != "internal server error" {
		t.Fatalf("internal cause leaked: %q", body.ErrorData.Message)
	}
}
