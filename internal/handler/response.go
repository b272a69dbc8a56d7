package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://fortuna.app/errors/validation"
	ErrorTypeNotFound     = "https://fortuna.app/errors/not-found"
	ErrorTypeUnauthorized = "https://fortuna.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://fortuna.app/errors/forbidden"
	ErrorTypeConflict     = "https://fortuna.app/errors/conflict"
	ErrorTypeInternal     = "https://fortuna.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// problemForError maps a service error onto a problem response.
// Anything unrecognised is logged and reported as an internal error.
func problemForError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrExpenseNotFound):
		return NewNotFoundError(c, "Expense not found")
	case errors.Is(err, domain.ErrConsumptionNotFound):
		return NewNotFoundError(c, "Consumption not found")
	case errors.Is(err, domain.ErrPeriodNotFound):
		return NewNotFoundError(c, "Period not found")
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return NewNotFoundError(c, "Snapshot not found")
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, "Resource not found")
	case errors.Is(err, domain.ErrSnapshotExists), errors.Is(err, domain.ErrAlreadyExists):
		return NewConflictError(c, err.Error())
	case errors.Is(err, domain.ErrInvalidPassword), errors.Is(err, domain.ErrUnauthorized):
		return NewUnauthorizedError(c, "Invalid credentials")
	case errors.Is(err, domain.ErrNameRequired), errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "name", Message: err.Error()}})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "amount", Message: err.Error()}})
	case errors.Is(err, domain.ErrInvalidBudget):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "monthlyBudget", Message: err.Error()}})
	case errors.Is(err, domain.ErrInvalidSalary):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "salary", Message: err.Error()}})
	case errors.Is(err, domain.ErrInvalidStartDay):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "monthStartDay", Message: err.Error()}})
	case errors.Is(err, domain.ErrInvalidDate):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "date", Message: "Must be in YYYY-MM-DD format"}})
	case errors.Is(err, domain.ErrNoteTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "note", Message: err.Error()}})
	case errors.Is(err, domain.ErrExpenseInactive):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "expenseId", Message: err.Error()}})
	case errors.Is(err, domain.ErrNothingToUpdate), errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)
	default:
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Failed to " + action)
		return NewInternalError(c, "Failed to "+action)
	}
}

// logRecomputeWarning records a committed write whose projection refresh failed
func logRecomputeWarning(c echo.Context, err error) {
	if err == nil {
		return
	}
	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Write committed but recompute failed")
}

// parseDateParam parses an optional YYYY-MM-DD value, returning nil for ""
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := util.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parsePeriodParams reads the :start and :end path params as a billing period
func parsePeriodParams(c echo.Context) (domain.BillingPeriod, error) {
	start, err := util.ParseDate(c.Param("start"))
	if err != nil {
		return domain.BillingPeriod{}, err
	}
	end, err := util.ParseDate(c.Param("end"))
	if err != nil {
		return domain.BillingPeriod{}, err
	}
	if !end.After(start) {
		return domain.BillingPeriod{}, domain.ErrInvalidDate
	}
	return domain.BillingPeriod{Start: start, End: end}, nil
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// PeriodResponse is a billing period on the wire
type PeriodResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func toPeriodResponse(p domain.BillingPeriod) PeriodResponse {
	return PeriodResponse{Start: p.StartString(), End: p.EndString()}
}

// parseStrictAmount accepts a JSON number or numeric string and rejects anything else
func parseStrictAmount(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(n)
	default:
		return decimal.Zero, domain.ErrInvalidInput
	}
}
