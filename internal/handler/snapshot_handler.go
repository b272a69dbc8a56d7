package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/service"
	"github.com/dafibh/fortuna/budget-backend/internal/util"
	"github.com/labstack/echo/v4"
)

// SnapshotHandler handles monthly snapshot requests
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(snapshotService *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

// SnapshotResponse represents a frozen period in API responses
type SnapshotResponse struct {
	ID            int32   `json:"id"`
	PeriodStart   string  `json:"periodStart"`
	PeriodEnd     string  `json:"periodEnd"`
	Salary        string  `json:"salary"`
	TotalConsumed string  `json:"totalConsumed"`
	TotalSaved    string  `json:"totalSaved"`
	ArchiveKey    *string `json:"archiveKey,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// SnapshotReportResponse is an archived snapshot report
type SnapshotReportResponse struct {
	Title       string                     `json:"title"`
	GeneratedAt string                     `json:"generatedAt"`
	Snapshot    SnapshotResponse           `json:"snapshot"`
	Expenses    []ExpenseAggregateResponse `json:"expenses"`
}

// CreateSnapshot godoc
// @Summary Freeze the current period
// @Description Record salary, total consumed and total saved for the current period
// @Tags snapshots
// @Produce json
// @Security BearerAuth
// @Success 201 {object} SnapshotResponse
// @Failure 409 {object} ProblemDetails
// @Router /snapshots [post]
func (h *SnapshotHandler) CreateSnapshot(c echo.Context) error {
	snapshot, err := h.snapshotService.CreateSnapshot(c.Request().Context())
	if err != nil {
		return problemForError(c, err, "create snapshot")
	}
	return c.JSON(http.StatusCreated, toSnapshotResponse(snapshot))
}

// ListSnapshots godoc
// @Summary List snapshots
// @Tags snapshots
// @Produce json
// @Security BearerAuth
// @Success 200 {array} SnapshotResponse
// @Router /snapshots [get]
func (h *SnapshotHandler) ListSnapshots(c echo.Context) error {
	snapshots, err := h.snapshotService.ListSnapshots(c.Request().Context())
	if err != nil {
		return problemForError(c, err, "list snapshots")
	}

	resp := make([]SnapshotResponse, 0, len(snapshots))
	for _, s := range snapshots {
		resp = append(resp, toSnapshotResponse(s))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetLatestSnapshot godoc
// @Summary Get the latest snapshot
// @Tags snapshots
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SnapshotResponse
// @Failure 404 {object} ProblemDetails
// @Router /snapshots/latest [get]
func (h *SnapshotHandler) GetLatestSnapshot(c echo.Context) error {
	snapshot, err := h.snapshotService.GetLatestSnapshot(c.Request().Context())
	if err != nil {
		return problemForError(c, err, "get latest snapshot")
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(snapshot))
}

// GetReport godoc
// @Summary Get an archived snapshot report
// @Tags snapshots
// @Produce json
// @Security BearerAuth
// @Param start path string true "Period start (YYYY-MM-DD)"
// @Param end path string true "Period end, exclusive (YYYY-MM-DD)"
// @Success 200 {object} SnapshotReportResponse
// @Failure 404 {object} ProblemDetails
// @Router /snapshots/{start}/{end}/report [get]
func (h *SnapshotHandler) GetReport(c echo.Context) error {
	period, err := parsePeriodParams(c)
	if err != nil {
		return NewValidationError(c, "Invalid period", []ValidationError{
			{Field: "period", Message: "start and end must be YYYY-MM-DD with end after start"},
		})
	}

	report, err := h.snapshotService.GetReport(c.Request().Context(), period)
	if err != nil {
		return problemForError(c, err, "get snapshot report")
	}

	resp := SnapshotReportResponse{
		Title:       report.Title,
		GeneratedAt: report.GeneratedAt.UTC().Format(time.RFC3339),
		Expenses:    make([]ExpenseAggregateResponse, 0, len(report.Expenses)),
	}
	if report.Snapshot != nil {
		resp.Snapshot = toSnapshotResponse(report.Snapshot)
	}
	for _, e := range report.Expenses {
		resp.Expenses = append(resp.Expenses, ExpenseAggregateResponse{
			ExpenseID:     e.ExpenseID.String(),
			Name:          e.Name,
			MonthlyBudget: formatMoney(e.MonthlyBudget),
			Consumed:      formatMoney(e.Consumed),
			Remaining:     formatMoney(e.Remaining),
			PctUsed:       formatMoney(e.PctUsed),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func toSnapshotResponse(s *domain.MonthlySnapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:            s.ID,
		PeriodStart:   util.FormatDate(s.PeriodStart),
		PeriodEnd:     util.FormatDate(s.PeriodEnd),
		Salary:        formatMoney(s.Salary),
		TotalConsumed: formatMoney(s.TotalConsumed),
		TotalSaved:    formatMoney(s.TotalSaved),
		ArchiveKey:    s.ArchiveKey,
		CreatedAt:     s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
