package handler

import (
	"github.com/labstack/echo/v4"
)

type createUserRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=1,max=150"`
	LastName    string `json:"last_name" validate:"required,min=1,max=150"`
	Email       string `json:"email" validate:"required,email"`
	CountryCode string `json:"country_code" validate:"omitempty,max=5"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4,max=100"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type sendPasswordRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type messageData struct {
	Message string `json:"message"`
}

// successResponse is the uniform success envelope: {data, status:"SUCCESS"}.
type successResponse struct {
	Data   interface{} `json:"data"`
	Status string      `json:"status"`
}

func success(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, successResponse{Data: data, Status: "SUCCESS"})
}
