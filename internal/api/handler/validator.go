package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldDetail is one field's validation failure, surfaced in the error
// envelope's detail block.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestValidationError aggregates validation failures for one request.
// The central error handler maps it to 422 with the field list attached.
type RequestValidationError struct {
	Fields []FieldDetail
}

func (e *RequestValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "request validation error"
	}
	first := e.Fields[0]
	return fmt.Sprintf("request validation error at (%s): %s", first.Field, first.Message)
}

// echoValidator wraps go-playground/validator so Echo can call
// c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to
// echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]FieldDetail, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, FieldDetail{
					Field:   strings.ToLower(fe.Field()),
					Message: fieldError(fe),
				})
			}
			return &RequestValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable
// message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
