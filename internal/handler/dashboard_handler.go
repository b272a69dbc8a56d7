package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the live summary and historical aggregates
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// PieSliceResponse is one category's share of spending
type PieSliceResponse struct {
	ExpenseID string `json:"expenseId"`
	Name      string `json:"name"`
	Consumed  string `json:"consumed"`
}

// SummaryResponse represents the dashboard summary
type SummaryResponse struct {
	Period        PeriodResponse     `json:"period"`
	MonthStartDay int                `json:"monthStartDay"`
	Salary        string             `json:"salary"`
	TotalConsumed string             `json:"totalConsumed"`
	Savings       string             `json:"savings"`
	Pie           []PieSliceResponse `json:"pie"`
}

// ExpenseAggregateResponse is one category's totals within a period
type ExpenseAggregateResponse struct {
	ExpenseID     string `json:"expenseId"`
	Name          string `json:"name"`
	MonthlyBudget string `json:"monthlyBudget"`
	Consumed      string `json:"consumed"`
	Remaining     string `json:"remaining"`
	PctUsed       string `json:"pctUsed"`
}

// AggregateResponse represents a live aggregate of one period
type AggregateResponse struct {
	Period          PeriodResponse             `json:"period"`
	MonthStartDay   int                        `json:"monthStartDay"`
	Salary          string                     `json:"salary"`
	TotalSpent      string                     `json:"totalSpent"`
	RemainingSalary string                     `json:"remainingSalary"`
	Expenses        []ExpenseAggregateResponse `json:"expenses"`
}

// GetSummary godoc
// @Summary Get dashboard summary
// @Description Salary, total consumed, savings and per-category spending for the current period
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SummaryResponse
// @Failure 401 {object} ProblemDetails
// @Router /summary [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	summary, err := h.dashboardService.GetSummary(c.Request().Context())
	if err != nil {
		return problemForError(c, err, "get summary")
	}

	resp := SummaryResponse{
		Period:        toPeriodResponse(summary.Period),
		MonthStartDay: summary.MonthStartDay,
		Salary:        formatMoney(summary.Salary),
		TotalConsumed: formatMoney(summary.TotalConsumed),
		Savings:       formatMoney(summary.Savings),
		Pie:           make([]PieSliceResponse, 0, len(summary.Pie)),
	}
	for _, s := range summary.Pie {
		resp.Pie = append(resp.Pie, PieSliceResponse{
			ExpenseID: s.ExpenseID,
			Name:      s.Name,
			Consumed:  formatMoney(s.Consumed),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// GetHistory godoc
// @Summary Get a past period
// @Description Live aggregate of the period containing day 15 of the given month
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param month query string true "Month (YYYY-MM)"
// @Success 200 {object} AggregateResponse
// @Failure 400 {object} ProblemDetails
// @Router /history [get]
func (h *DashboardHandler) GetHistory(c echo.Context) error {
	month := c.QueryParam("month")
	if month == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "month", Message: "Month is required"},
		})
	}

	agg, err := h.dashboardService.GetHistory(c.Request().Context(), month)
	if err != nil {
		if err == domain.ErrInvalidDate {
			return NewValidationError(c, "Invalid month", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		return problemForError(c, err, "get history")
	}
	return c.JSON(http.StatusOK, toAggregateResponse(agg))
}

func toAggregateResponse(agg *domain.PeriodAggregate) AggregateResponse {
	resp := AggregateResponse{
		Period:          toPeriodResponse(agg.Period),
		MonthStartDay:   agg.MonthStartDay,
		Salary:          formatMoney(agg.Salary),
		TotalSpent:      formatMoney(agg.TotalSpent),
		RemainingSalary: formatMoney(agg.RemainingSalary),
		Expenses:        make([]ExpenseAggregateResponse, 0, len(agg.PerExpense)),
	}
	for _, e := range agg.PerExpense {
		resp.Expenses = append(resp.Expenses, ExpenseAggregateResponse{
			ExpenseID:     e.ExpenseID.String(),
			Name:          e.Name,
			MonthlyBudget: formatMoney(e.MonthlyBudget),
			Consumed:      formatMoney(e.Consumed),
			Remaining:     formatMoney(e.Remaining),
			PctUsed:       formatMoney(e.PctUsed),
		})
	}
	return resp
}
