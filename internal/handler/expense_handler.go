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

// ExpenseHandler handles expense category requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the create expense request body.
// MonthlyBudget may be a JSON number or a numeric string.
type CreateExpenseRequest struct {
	Name          string      `json:"name"`
	MonthlyBudget interface{} `json:"monthlyBudget" swaggertype:"string"`
}

// UpdateExpenseRequest represents the expense patch body
type UpdateExpenseRequest struct {
	Name          *string     `json:"name,omitempty"`
	MonthlyBudget interface{} `json:"monthlyBudget,omitempty" swaggertype:"string"`
	Active        *bool       `json:"active,omitempty"`
}

// ExpenseResponse represents an expense category in API responses
type ExpenseResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MonthlyBudget string `json:"monthlyBudget"`
	Active        bool   `json:"active"`
	Consumed      string `json:"consumed,omitempty"`
	Remaining     string `json:"remaining,omitempty"`
	PctUsed       string `json:"pctUsed,omitempty"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
	Warning       string `json:"warning,omitempty"`
}

// ExpenseListResponse lists active categories for the current period
type ExpenseListResponse struct {
	Period   PeriodResponse    `json:"period"`
	Expenses []ExpenseResponse `json:"expenses"`
}

// DeleteResponse acknowledges a delete
type DeleteResponse struct {
	ID      string `json:"id"`
	Warning string `json:"warning,omitempty"`
}

// ListExpenses godoc
// @Summary List expenses
// @Description List active expense categories with consumed, remaining and percent used for the current period
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ExpenseListResponse
// @Failure 401 {object} ProblemDetails
// @Router /expenses [get]
func (h *ExpenseHandler) ListExpenses(c echo.Context) error {
	expenses, period, err := h.expenseService.ListExpenses(c.Request().Context())
	if err != nil {
		return problemForError(c, err, "list expenses")
	}

	resp := ExpenseListResponse{
		Period:   toPeriodResponse(period),
		Expenses: make([]ExpenseResponse, 0, len(expenses)),
	}
	for _, e := range expenses {
		item := toExpenseResponse(&e.ExpenseCategory)
		item.Consumed = formatMoney(e.Consumed)
		item.Remaining = formatMoney(e.Remaining)
		item.PctUsed = formatMoney(e.PctUsed)
		resp.Expenses = append(resp.Expenses, item)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetExpense godoc
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} ExpenseResponse
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetExpense(c.Request().Context(), id)
	if err != nil {
		return problemForError(c, err, "get expense")
	}
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// CreateExpense godoc
// @Summary Create an expense
// @Description Create an active expense category and refresh the current period
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "Expense creation request"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result, err := h.expenseService.CreateExpense(c.Request().Context(), service.CreateExpenseInput{
		Name:          req.Name,
		MonthlyBudget: util.ParseAmount(req.MonthlyBudget),
	})
	if err != nil {
		return problemForError(c, err, "create expense")
	}
	logRecomputeWarning(c, result.RecomputeErr)

	resp := toExpenseResponse(result.Result)
	resp.Warning = result.Warning()
	return c.JSON(http.StatusCreated, resp)
}

// UpdateExpense godoc
// @Summary Update an expense
// @Description Rename, rebudget or (de)activate an expense category
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Param request body UpdateExpenseRequest true "Expense patch"
// @Success 200 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [patch]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateExpenseInput{Name: req.Name, Active: req.Active}
	if req.MonthlyBudget != nil {
		budget := util.ParseAmount(req.MonthlyBudget)
		input.MonthlyBudget = &budget
	}

	result, err := h.expenseService.UpdateExpense(c.Request().Context(), id, input)
	if err != nil {
		return problemForError(c, err, "update expense")
	}
	logRecomputeWarning(c, result.RecomputeErr)

	resp := toExpenseResponse(result.Result)
	resp.Warning = result.Warning()
	return c.JSON(http.StatusOK, resp)
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Description Soft delete an expense category. Its consumptions are kept.
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} DeleteResponse
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	result, err := h.expenseService.DeleteExpense(c.Request().Context(), id)
	if err != nil {
		return problemForError(c, err, "delete expense")
	}
	logRecomputeWarning(c, result.RecomputeErr)

	return c.JSON(http.StatusOK, DeleteResponse{
		ID:      id.String(),
		Warning: result.Warning(),
	})
}

func toExpenseResponse(e *domain.ExpenseCategory) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID.String(),
		Name:          e.Name,
		MonthlyBudget: formatMoney(e.MonthlyBudget),
		Active:        e.Active,
		CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
