package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/service"
	"github.com/dafibh/fortuna/budget-backend/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ConsumptionHandler handles consumption entry requests
type ConsumptionHandler struct {
	consumptionService *service.ConsumptionService
}

// NewConsumptionHandler creates a new ConsumptionHandler
func NewConsumptionHandler(consumptionService *service.ConsumptionService) *ConsumptionHandler {
	return &ConsumptionHandler{consumptionService: consumptionService}
}

// CreateConsumptionRequest represents the log consumption request body.
// Amount may be a JSON number or a numeric string; anything else counts as zero.
type CreateConsumptionRequest struct {
	ExpenseID string      `json:"expenseId"`
	Amount    interface{} `json:"amount" swaggertype:"string"`
	Date      *string     `json:"date,omitempty"`
	Note      *string     `json:"note,omitempty"`
}

// UpdateConsumptionRequest represents the amendment body
type UpdateConsumptionRequest struct {
	Amount interface{} `json:"amount,omitempty" swaggertype:"string"`
	Date   *string     `json:"date,omitempty"`
	Note   *string     `json:"note,omitempty"`
}

// ConsumptionResponse represents a consumption entry in API responses
type ConsumptionResponse struct {
	ID        string  `json:"id"`
	ExpenseID string  `json:"expenseId"`
	Amount    string  `json:"amount"`
	Date      string  `json:"date"`
	Note      *string `json:"note,omitempty"`
	CreatedAt string  `json:"createdAt"`
	Warning   string  `json:"warning,omitempty"`
}

// ConsumptionListResponse lists the entries of one period
type ConsumptionListResponse struct {
	Period       PeriodResponse        `json:"period"`
	Consumptions []ConsumptionResponse `json:"consumptions"`
}

// ListConsumptions godoc
// @Summary List consumptions
// @Description List the entries of the period containing date (default today)
// @Tags consumptions
// @Produce json
// @Security BearerAuth
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Param expenseId query string false "Filter by expense ID"
// @Success 200 {object} ConsumptionListResponse
// @Failure 400 {object} ProblemDetails
// @Router /consumptions [get]
func (h *ConsumptionHandler) ListConsumptions(c echo.Context) error {
	ref, err := parseDateParam(c.QueryParam("date"))
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	var date time.Time
	if ref != nil {
		date = *ref
	}

	var expenseID *uuid.UUID
	if raw := c.QueryParam("expenseId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return NewValidationError(c, "Invalid expense ID", []ValidationError{
				{Field: "expenseId", Message: "Must be a valid UUID"},
			})
		}
		expenseID = &id
	}

	entries, period, err := h.consumptionService.ListConsumptions(c.Request().Context(), date, expenseID)
	if err != nil {
		return problemForError(c, err, "list consumptions")
	}

	resp := ConsumptionListResponse{
		Period:       toPeriodResponse(period),
		Consumptions: make([]ConsumptionResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Consumptions = append(resp.Consumptions, toConsumptionResponse(e))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetConsumption godoc
// @Summary Get a consumption
// @Tags consumptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Consumption ID"
// @Success 200 {object} ConsumptionResponse
// @Failure 404 {object} ProblemDetails
// @Router /consumptions/{id} [get]
func (h *ConsumptionHandler) GetConsumption(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid consumption ID", nil)
	}

	entry, err := h.consumptionService.GetConsumption(c.Request().Context(), id)
	if err != nil {
		return problemForError(c, err, "get consumption")
	}
	return c.JSON(http.StatusOK, toConsumptionResponse(entry))
}

// CreateConsumption godoc
// @Summary Log a consumption
// @Description Record a spend against an active expense and refresh its period
// @Tags consumptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateConsumptionRequest true "Consumption request"
// @Success 201 {object} ConsumptionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /consumptions [post]
func (h *ConsumptionHandler) CreateConsumption(c echo.Context) error {
	var req CreateConsumptionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	expenseID, err := uuid.Parse(req.ExpenseID)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "expenseId", Message: "Expense ID is required"},
		})
	}

	var date *time.Time
	if req.Date != nil {
		date, err = parseDateParam(*req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
	}

	result, err := h.consumptionService.CreateConsumption(c.Request().Context(), service.CreateConsumptionInput{
		ExpenseID: expenseID,
		Amount:    util.ParseAmount(req.Amount),
		Date:      date,
		Note:      req.Note,
	})
	if err != nil {
		return problemForError(c, err, "create consumption")
	}
	logRecomputeWarning(c, result.RecomputeErr)

	resp := toConsumptionResponse(result.Result)
	resp.Warning = result.Warning()
	return c.JSON(http.StatusCreated, resp)
}

// UpdateConsumption godoc
// @Summary Amend a consumption
// @Description Change amount, date or note. Moving the date across periods refreshes both periods.
// @Tags consumptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Consumption ID"
// @Param request body UpdateConsumptionRequest true "Amendment"
// @Success 200 {object} ConsumptionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /consumptions/{id} [patch]
func (h *ConsumptionHandler) UpdateConsumption(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid consumption ID", nil)
	}

	var req UpdateConsumptionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateConsumptionInput{Note: req.Note}
	if req.Amount != nil {
		amount := util.ParseAmount(req.Amount)
		input.Amount = &amount
	}
	if req.Date != nil {
		date, err := util.ParseDate(*req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		input.Date = &date
	}

	result, err := h.consumptionService.UpdateConsumption(c.Request().Context(), id, input)
	if err != nil {
		return problemForError(c, err, "update consumption")
	}
	logRecomputeWarning(c, result.RecomputeErr)

	resp := toConsumptionResponse(result.Result)
	resp.Warning = result.Warning()
	return c.JSON(http.StatusOK, resp)
}

// DeleteConsumption godoc
// @Summary Delete a consumption
// @Description Remove an entry and refresh the period it belonged to
// @Tags consumptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Consumption ID"
// @Success 200 {object} DeleteResponse
// @Failure 404 {object} ProblemDetails
// @Router /consumptions/{id} [delete]
func (h *ConsumptionHandler) DeleteConsumption(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid consumption ID", nil)
	}

	result, err := h.consumptionService.DeleteConsumption(c.Request().Context(), id)
	if err != nil {
		return problemForError(c, err, "delete consumption")
	}
	logRecomputeWarning(c, result.RecomputeErr)

	return c.JSON(http.StatusOK, DeleteResponse{
		ID:      id.String(),
		Warning: result.Warning(),
	})
}

func toConsumptionResponse(e *domain.ConsumptionEntry) ConsumptionResponse {
	return ConsumptionResponse{
		ID:        e.ID.String(),
		ExpenseID: e.ExpenseID.String(),
		Amount:    formatMoney(e.Amount),
		Date:      util.FormatDate(e.Date),
		Note:      e.Note,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
