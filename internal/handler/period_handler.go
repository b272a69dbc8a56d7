package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/service"
	"github.com/dafibh/fortuna/budget-backend/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PeriodHandler exposes period resolution, manual recompute and materialized period reads
type PeriodHandler struct {
	recomputeService *service.RecomputeService
	dashboardService *service.DashboardService
}

// NewPeriodHandler creates a new PeriodHandler
func NewPeriodHandler(recomputeService *service.RecomputeService, dashboardService *service.DashboardService) *PeriodHandler {
	return &PeriodHandler{
		recomputeService: recomputeService,
		dashboardService: dashboardService,
	}
}

// ResolvedPeriodResponse is a resolved period with the start day used
type ResolvedPeriodResponse struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	MonthStartDay int    `json:"monthStartDay"`
}

// RecomputeRequest represents the manual recompute body
type RecomputeRequest struct {
	Date *string `json:"date,omitempty"`
}

// RecomputeResponse reports the refreshed period
type RecomputeResponse struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	MonthStartDay   int    `json:"monthStartDay"`
	TotalSpent      string `json:"totalSpent"`
	RemainingSalary string `json:"remainingSalary"`
}

// PeriodSummaryResponse represents a materialized period summary
type PeriodSummaryResponse struct {
	PeriodStart     string `json:"periodStart"`
	PeriodEnd       string `json:"periodEnd"`
	Salary          string `json:"salary"`
	TotalSpent      string `json:"totalSpent"`
	RemainingSalary string `json:"remainingSalary"`
	UpdatedAt       string `json:"updatedAt"`
}

// ExpensePeriodTotalResponse represents a materialized per-expense total
type ExpensePeriodTotalResponse struct {
	ExpenseID string `json:"expenseId"`
	Consumed  string `json:"consumed"`
	Remaining string `json:"remaining"`
	PctUsed   string `json:"pctUsed"`
	UpdatedAt string `json:"updatedAt"`
}

// PeriodDetailResponse is a period summary with its per-expense totals
type PeriodDetailResponse struct {
	Summary PeriodSummaryResponse        `json:"summary"`
	Totals  []ExpensePeriodTotalResponse `json:"totals"`
	Closed  bool                         `json:"closed"`
}

// ResolvePeriod godoc
// @Summary Resolve a billing period
// @Description Map a date to its [start, end) window. startDay overrides the configured month start day.
// @Tags periods
// @Produce json
// @Security BearerAuth
// @Param date query string false "Reference date (YYYY-MM-DD), default today"
// @Param startDay query int false "Month start day override"
// @Success 200 {object} ResolvedPeriodResponse
// @Failure 400 {object} ProblemDetails
// @Router /periods/resolve [get]
func (h *PeriodHandler) ResolvePeriod(c echo.Context) error {
	ref, err := parseDateParam(c.QueryParam("date"))
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	date := h.recomputeService.Today()
	if ref != nil {
		date = *ref
	}

	if raw := c.QueryParam("startDay"); raw != "" {
		startDay, err := strconv.Atoi(raw)
		if err != nil {
			return NewValidationError(c, "Invalid start day", []ValidationError{
				{Field: "startDay", Message: "Must be an integer"},
			})
		}
		p := util.ResolvePeriod(date, startDay)
		return c.JSON(http.StatusOK, ResolvedPeriodResponse{
			Start:         p.StartString(),
			End:           p.EndString(),
			MonthStartDay: startDay,
		})
	}

	p, startDay, err := h.recomputeService.ResolveForDate(c.Request().Context(), date)
	if err != nil {
		return problemForError(c, err, "resolve period")
	}
	return c.JSON(http.StatusOK, ResolvedPeriodResponse{
		Start:         p.StartString(),
		End:           p.EndString(),
		MonthStartDay: startDay,
	})
}

// Recompute godoc
// @Summary Recompute a period
// @Description Re-aggregate and re-materialize the period containing date (default today)
// @Tags periods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecomputeRequest false "Recompute request"
// @Success 200 {object} RecomputeResponse
// @Failure 400 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /periods/recompute [post]
func (h *PeriodHandler) Recompute(c echo.Context) error {
	var req RecomputeRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return NewValidationError(c, "Invalid request body", nil)
		}
	}

	date := h.recomputeService.Today()
	if req.Date != nil {
		parsed, err := parseDateParam(*req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		if parsed != nil {
			date = *parsed
		}
	}

	result, err := h.recomputeService.Recompute(c.Request().Context(), date)
	if err != nil {
		return problemForError(c, err, "recompute period")
	}

	p := result.Period()
	return c.JSON(http.StatusOK, RecomputeResponse{
		Start:           p.StartString(),
		End:             p.EndString(),
		MonthStartDay:   result.MonthStartDay,
		TotalSpent:      formatMoney(result.Aggregate.TotalSpent),
		RemainingSalary: formatMoney(result.Aggregate.RemainingSalary),
	})
}

// ListPeriods godoc
// @Summary List materialized periods
// @Description Period summaries, newest first
// @Tags periods
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of periods"
// @Success 200 {array} PeriodSummaryResponse
// @Failure 400 {object} ProblemDetails
// @Router /periods [get]
func (h *PeriodHandler) ListPeriods(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return NewValidationError(c, "Invalid limit", []ValidationError{
				{Field: "limit", Message: "Must be a non-negative integer"},
			})
		}
		limit = n
	}

	summaries, err := h.dashboardService.ListPeriods(c.Request().Context(), limit)
	if err != nil {
		return problemForError(c, err, "list periods")
	}

	resp := make([]PeriodSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, toPeriodSummaryResponse(s))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetPeriod godoc
// @Summary Get a materialized period
// @Description Summary and per-expense totals of the period [start, end)
// @Tags periods
// @Produce json
// @Security BearerAuth
// @Param start path string true "Period start (YYYY-MM-DD)"
// @Param end path string true "Period end, exclusive (YYYY-MM-DD)"
// @Success 200 {object} PeriodDetailResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /periods/{start}/{end} [get]
func (h *PeriodHandler) GetPeriod(c echo.Context) error {
	period, err := parsePeriodParams(c)
	if err != nil {
		return NewValidationError(c, "Invalid period", []ValidationError{
			{Field: "period", Message: "start and end must be YYYY-MM-DD with end after start"},
		})
	}

	detail, err := h.dashboardService.GetPeriod(c.Request().Context(), period)
	if err != nil {
		return problemForError(c, err, "get period")
	}

	resp := PeriodDetailResponse{
		Summary: toPeriodSummaryResponse(detail.Summary),
		Totals:  make([]ExpensePeriodTotalResponse, 0, len(detail.Totals)),
		Closed:  detail.Closed,
	}
	for _, t := range detail.Totals {
		resp.Totals = append(resp.Totals, toExpensePeriodTotalResponse(t))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetPeriodExpense godoc
// @Summary Get one expense's materialized total
// @Tags periods
// @Produce json
// @Security BearerAuth
// @Param start path string true "Period start (YYYY-MM-DD)"
// @Param end path string true "Period end, exclusive (YYYY-MM-DD)"
// @Param expenseId path string true "Expense ID"
// @Success 200 {object} ExpensePeriodTotalResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /periods/{start}/{end}/expenses/{expenseId} [get]
func (h *PeriodHandler) GetPeriodExpense(c echo.Context) error {
	period, err := parsePeriodParams(c)
	if err != nil {
		return NewValidationError(c, "Invalid period", []ValidationError{
			{Field: "period", Message: "start and end must be YYYY-MM-DD with end after start"},
		})
	}
	expenseID, err := uuid.Parse(c.Param("expenseId"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", []ValidationError{
			{Field: "expenseId", Message: "Must be a valid UUID"},
		})
	}

	total, err := h.dashboardService.GetExpenseTotal(c.Request().Context(), expenseID, period)
	if err != nil {
		return problemForError(c, err, "get period expense")
	}
	return c.JSON(http.StatusOK, toExpensePeriodTotalResponse(total))
}

func toExpensePeriodTotalResponse(t *domain.ExpensePeriodTotal) ExpensePeriodTotalResponse {
	return ExpensePeriodTotalResponse{
		ExpenseID: t.ExpenseID.String(),
		Consumed:  formatMoney(t.Consumed),
		Remaining: formatMoney(t.Remaining),
		PctUsed:   formatMoney(t.PctUsed),
		UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toPeriodSummaryResponse(s *domain.PeriodSummary) PeriodSummaryResponse {
	return PeriodSummaryResponse{
		PeriodStart:     util.FormatDate(s.PeriodStart),
		PeriodEnd:       util.FormatDate(s.PeriodEnd),
		Salary:          formatMoney(s.Salary),
		TotalSpent:      formatMoney(s.TotalSpent),
		RemainingSalary: formatMoney(s.RemainingSalary),
		UpdatedAt:       s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
