package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SessionCookieName is the cookie the session token is read from
const SessionCookieName = "et_session"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// SubjectKey is the context key for the authenticated session subject
	SubjectKey contextKey = "subject"
)

// SessionValidator validates a session token and returns its subject
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (string, error)
}

// AuthMiddleware requires a valid session on every request it wraps
type AuthMiddleware struct {
	validator SessionValidator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator SessionValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Authenticate returns an Echo middleware that accepts the session cookie or a Bearer token.
// The cookie wins when both are present.
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := SessionToken(c)
			if token == "" {
				return unauthorizedError(c, "Missing session")
			}

			subject, err := m.validator.ValidateSession(c.Request().Context(), token)
			if err != nil {
				log.Debug().Err(err).Msg("Session rejected")
				return unauthorizedError(c, "Invalid or expired session")
			}

			ctx := context.WithValue(c.Request().Context(), SubjectKey, subject)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// SessionToken extracts the session token from the cookie or the Authorization header
func SessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetSubject extracts the session subject from the context
func GetSubject(c echo.Context) string {
	if subject, ok := c.Request().Context().Value(SubjectKey).(string); ok {
		return subject
	}
	return ""
}
