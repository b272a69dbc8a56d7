package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	valid map[string]string
	seen  []string
}

func (s *stubValidator) ValidateSession(ctx context.Context, token string) (string, error) {
	s.seen = append(s.seen, token)
	if subject, ok := s.valid[token]; ok {
		return subject, nil
	}
	return "", errors.New("invalid")
}

func runAuth(t *testing.T, v SessionValidator, req *http.Request) (*httptest.ResponseRecorder, string, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	subject := ""
	handler := func(c echo.Context) error {
		called = true
		subject = GetSubject(c)
		return c.NoContent(http.StatusNoContent)
	}

	require.NoError(t, NewAuthMiddleware(v).Authenticate()(handler)(c))
	return rec, subject, called
}

func TestAuthenticate_Cookie(t *testing.T) {
	v := &stubValidator{valid: map[string]string{"good": "admin"}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})

	rec, subject, called := runAuth(t, v, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "admin", subject)
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	v := &stubValidator{valid: map[string]string{"good": "admin"}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	req.Header.Set("Authorization", "Bearer good")

	_, subject, called := runAuth(t, v, req)

	assert.True(t, called)
	assert.Equal(t, "admin", subject)
}

func TestAuthenticate_CookieWinsOverHeader(t *testing.T) {
	v := &stubValidator{valid: map[string]string{"cookie-token": "admin"}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	_, _, called := runAuth(t, v, req)

	assert.True(t, called)
	assert.Equal(t, []string{"cookie-token"}, v.seen)
}

func TestAuthenticate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
	}{
		{"missing session", "", ""},
		{"wrong scheme", "Basic abc", ""},
		{"invalid token", "Bearer nope", ""},
		{"invalid cookie", "", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &stubValidator{valid: map[string]string{"good": "admin"}}
			req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}

			rec, _, called := runAuth(t, v, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "https://fortuna.app/errors/unauthorized")
		})
	}
}

func TestGetSubject_Empty(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "", GetSubject(c))
}
