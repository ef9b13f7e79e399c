package handler

import (
	"net/http"

	"github.com/gastosapp/gastos-backend/internal/middleware"
	"github.com/gastosapp/gastos-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Callback godoc
// @Summary Post-login bootstrap
// @Description Upserts the local user row for the token subject; first logins get default categories
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Failure 401 {object} ProblemDetails
// @Router /auth/callback [post]
func (h *AuthHandler) Callback(c echo.Context) error {
	subject := middleware.GetSubject(c)
	if subject == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	email := ""
	var name *string
	if custom := middleware.GetCustomClaims(c); custom != nil {
		email = custom.Email
		if custom.Name != "" {
			name = &custom.Name
		}
	}

	user, err := h.authService.EnsureUser(subject, email, name)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Failure 401 {object} ProblemDetails
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	subject := middleware.GetSubject(c)
	if subject == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.authService.GetUserBySubject(subject)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
