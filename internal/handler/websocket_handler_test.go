package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/fortuna/budget-backend/internal/middleware"
	"github.com/dafibh/fortuna/budget-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// stubSessionValidator accepts only one token
type stubSessionValidator struct {
	validToken string
	subject    string
	seen       []string
}

func (s *stubSessionValidator) ValidateSession(ctx context.Context, token string) (string, error) {
	s.seen = append(s.seen, token)
	if token != s.validToken {
		return "", errors.New("invalid token")
	}
	return s.subject, nil
}

var testAllowedOrigins = []string{"http://localhost:3000", "https://budget.example.com"}

func TestWebSocketHandler_HandleWS_MissingToken(t *testing.T) {
	e := echo.New()
	h := NewWebSocketHandler(websocket.NewHub(), &stubSessionValidator{validToken: "good", subject: "admin"}, testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	assert.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestWebSocketHandler_HandleWS_InvalidToken(t *testing.T) {
	e := echo.New()
	h := NewWebSocketHandler(websocket.NewHub(), &stubSessionValidator{validToken: "good", subject: "admin"}, testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws?token=bad", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	assert.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestWebSocketHandler_HandleWS_ValidToken_NoUpgrade(t *testing.T) {
	e := echo.New()
	h := NewWebSocketHandler(websocket.NewHub(), &stubSessionValidator{validToken: "good", subject: "admin"}, testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws?token=good", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	// auth passes, then the upgrade fails because the request has no upgrade headers
	assert.Error(t, err)
	if httpErr, ok := err.(*echo.HTTPError); ok {
		assert.NotEqual(t, http.StatusUnauthorized, httpErr.Code)
	}
}

func TestWebSocketHandler_HandleWS_CookieFallback(t *testing.T) {
	e := echo.New()
	validator := &stubSessionValidator{validToken: "cookie-token", subject: "admin"}
	h := NewWebSocketHandler(websocket.NewHub(), validator, testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "cookie-token"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.HandleWS(c)

	assert.Equal(t, []string{"cookie-token"}, validator.seen)
}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubSessionValidator{}, testAllowedOrigins)

	tests := []struct {
		name     string
		origin   string
		expected bool
	}{
		{"allowed origin", "http://localhost:3000", true},
		{"allowed origin https", "https://budget.example.com", true},
		{"disallowed origin", "https://evil.com", false},
		{"empty origin (same-origin)", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, h.checkOrigin(req))
		})
	}
}
