package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wowlabz/accounts-api/internal/core/ports"
)

// AuthHandler exposes registration, login and session maintenance.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CreateUser registers a new user and provisions a temporary password.
//
// @Summary      Create a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      200   {object}  successResponse
// @Failure      409   {object}  map[string]interface{}
// @Failure      422   {object}  map[string]interface{}
// @Router       /users/create [post]
func (h *AuthHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message, err := h.authService.CreateUser(c.Request().Context(), ports.CreateUserInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		CountryCode: req.CountryCode,
		Phone:       req.Phone,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, messageData{Message: message})
}

// Login authenticates by email and password and returns a token pair.
//
// @Summary      Email based login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  successResponse
// @Failure      401   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Failure      425   {object}  map[string]interface{}
// @Router       /auth/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	data, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, clientMetadata(c))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, data)
}

// Refresh exchanges a refresh token for a new access token.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  successResponse
// @Failure      401   {object}  map[string]interface{}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	data, err := h.authService.RefreshAccessToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, data)
}

// SendDefaultPassword provisions and delivers a fresh temporary password.
// Guarded: SUPER_ADMIN only.
//
// @Summary      Send a new default password to a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      sendPasswordRequest  true  "Target user"
// @Success      200   {object}  successResponse
// @Failure      404   {object}  map[string]interface{}
// @Failure      429   {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /auth/users/password/send [post]
func (h *AuthHandler) SendDefaultPassword(c echo.Context) error {
	var req sendPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message, err := h.authService.SendDefaultPassword(c.Request().Context(), req.UserID, req.Email)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, messageData{Message: message})
}

// ForgotPassword is the self-service reset path.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  successResponse
// @Failure      404   {object}  map[string]interface{}
// @Failure      429   {object}  map[string]interface{}
// @Router       /auth/users/password/forgot [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message, err := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, messageData{Message: message})
}

// UsersPaginated lists users one metadata-wrapped page at a time.
//
// @Summary      Get all users in paginated form
// @Tags         auth
// @Produce      json
// @Param        page          query     int     false  "Page number"     default(1)
// @Param        page_size     query     int     false  "Page size"       default(10)
// @Param        search_query  query     string  false  "Name search"
// @Success      200  {object}  successResponse
// @Router       /auth/users/paginated [get]
func (h *AuthHandler) UsersPaginated(c echo.Context) error {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 10)

	data, err := h.authService.UsersPaginated(c.Request().Context(), page, pageSize, c.QueryParam("search_query"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, data)
}

func queryInt(c echo.Context, name string, fallback int64) int64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
