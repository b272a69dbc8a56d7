package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/middleware"
	"github.com/dafibh/fortuna/budget-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the session cookie HTTPS-only.
func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Password string `json:"password"`
}

// SessionResponse describes the current session
type SessionResponse struct {
	Subject   string  `json:"subject"`
	ExpiresAt *string `json:"expiresAt,omitempty"`
}

// LogoutResponse represents the response from logout
type LogoutResponse struct {
	Message string `json:"message"`
}

// Login godoc
// @Summary Sign in
// @Description Verify the admin password and set the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 429 {object} ProblemDetails
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Password == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "password", Message: "Password is required"},
		})
	}

	session, err := h.authService.Login(c.Request().Context(), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPassword) {
			log.Warn().Str("ip", c.RealIP()).Msg("Failed login attempt")
			return NewUnauthorizedError(c, "Invalid password")
		}
		return problemForError(c, err, "sign in")
	}

	c.SetCookie(h.sessionCookie(session.Token, session.ExpiresAt))
	log.Info().Str("ip", c.RealIP()).Msg("Admin signed in")

	expiresAt := session.ExpiresAt.UTC().Format(time.RFC3339)
	return c.JSON(http.StatusOK, SessionResponse{
		Subject:   domain.AdminUsername,
		ExpiresAt: &expiresAt,
	})
}

// Me godoc
// @Summary Current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ProblemDetails
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	subject := middleware.GetSubject(c)
	if subject == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}
	return c.JSON(http.StatusOK, SessionResponse{Subject: subject})
}

// Logout godoc
// @Summary Sign out
// @Description Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} LogoutResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie := h.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, LogoutResponse{
		Message: "Logged out successfully",
	})
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
