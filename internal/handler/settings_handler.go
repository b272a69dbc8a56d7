package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// SettingsHandler handles household settings requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the settings patch body
type UpdateSettingsRequest struct {
	Salary        interface{} `json:"salary,omitempty" swaggertype:"string"`
	MonthStartDay *int        `json:"monthStartDay,omitempty"`
}

// SettingsResponse represents the settings in API responses
type SettingsResponse struct {
	Salary        string `json:"salary"`
	MonthStartDay int    `json:"monthStartDay"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
	Warning       string `json:"warning,omitempty"`
}

// GetSettings godoc
// @Summary Get settings
// @Description Get the salary and month start day
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SettingsResponse
// @Failure 401 {object} ProblemDetails
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.settingsService.GetSettings(c.Request().Context())
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			return NewNotFoundError(c, "Settings not configured")
		}
		return problemForError(c, err, "get settings")
	}
	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// UpdateSettings godoc
// @Summary Update settings
// @Description Change the salary or month start day and refresh the current period
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "Settings patch"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /settings [patch]
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateSettingsInput{MonthStartDay: req.MonthStartDay}
	if req.Salary != nil {
		salary, err := parseStrictAmount(req.Salary)
		if err != nil {
			return NewValidationError(c, "Invalid salary", []ValidationError{
				{Field: "salary", Message: "Must be a valid decimal number"},
			})
		}
		input.Salary = &salary
	}

	result, err := h.settingsService.UpdateSettings(c.Request().Context(), input)
	if err != nil {
		return problemForError(c, err, "update settings")
	}
	logRecomputeWarning(c, result.RecomputeErr)

	resp := toSettingsResponse(result.Result)
	resp.Warning = result.Warning()
	return c.JSON(http.StatusOK, resp)
}

func toSettingsResponse(s *domain.Settings) SettingsResponse {
	resp := SettingsResponse{
		Salary:        formatMoney(s.Salary),
		MonthStartDay: s.MonthStartDay,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
