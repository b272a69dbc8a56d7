package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// problemDetails mirrors handler.ProblemDetails for rejections raised before a handler runs
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

const (
	errorTypeUnauthorized = "https://fortuna.app/errors/unauthorized"
	errorTypeRateLimit    = "https://fortuna.app/errors/rate-limit"
)

func writeProblem(c echo.Context, status int, typ, title, detail string) error {
	return c.JSON(status, problemDetails{
		Type:     typ,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

func unauthorizedError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusUnauthorized, errorTypeUnauthorized, "Unauthorized", detail)
}

// rateLimitedError rejects a throttled client; retryAfter is in seconds
func rateLimitedError(c echo.Context, retryAfter int) error {
	return writeProblem(c, http.StatusTooManyRequests, errorTypeRateLimit, "Rate Limit Exceeded",
		fmt.Sprintf("Too many attempts. Retry after %d seconds.", retryAfter))
}
