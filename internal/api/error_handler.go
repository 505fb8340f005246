package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wowlabz/accounts-api/internal/api/handler"
	"github.com/wowlabz/accounts-api/internal/core/domain"
)

type errorData struct {
	ErrorCode int         `json:"errorCode"`
	Message   string      `json:"message"`
	Detail    interface{} `json:"detail,omitempty"`
}

// errorResponse is the canonical error envelope for all API failures:
// {"status":"FAIL","errorData":{"errorCode":...,"message":...}}.
type errorResponse struct {
	Status    string    `json:"status"`
	ErrorData errorData `json:"errorData"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes in one place.
//   - Attaches per-field detail for request validation failures.
//   - Logs unexpected errors internally without leaking details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, detail := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{
			Status:    "FAIL",
			ErrorData: errorData{ErrorCode: code, Message: msg, Detail: detail},
		})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, interface{}) {
	// Validation failures carry structured per-field detail.
	var ve *handler.RequestValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, ve.Error(), ve.Fields
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrEmptyFilter),
		errors.Is(err, domain.ErrEmptyUpdate),
		errors.Is(err, domain.ErrWriteFailed):
		return http.StatusUnprocessableEntity, err.Error(), nil
	case errors.Is(err, domain.ErrDuplicateKey),
		errors.Is(err, domain.ErrEmailInUse):
		return http.StatusConflict, err.Error(), nil
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrEmailMissing):
		return http.StatusNotFound, err.Error(), nil
	case errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrRefreshInvalid),
		errors.Is(err, domain.ErrPasswordInvalid),
		errors.Is(err, domain.ErrAccountInactive):
		return http.StatusUnauthorized, err.Error(), nil
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error(), nil
	case errors.Is(err, domain.ErrPasswordMissing):
		return http.StatusTooEarly, err.Error(), nil
	case errors.Is(err, domain.ErrThrottled):
		return http.StatusTooManyRequests, err.Error(), nil
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error", nil
}
