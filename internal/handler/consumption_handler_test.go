package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	marchPeriod = domain.BillingPeriod{Start: mustDate("2026-02-28"), End: mustDate("2026-03-28")}
	aprilPeriod = domain.BillingPeriod{Start: mustDate("2026-03-28"), End: mustDate("2026-04-28")}
)

func TestCreateConsumption_Success(t *testing.T) {
	f := newHandlerFixture(t)
	h := NewConsumptionHandler(f.consumption)
	groceries := f.addExpense("Groceries", 1000)

	c, rec := f.request(http.MethodPost, "/api/v1/consumptions",
		`{"expenseId":"`+groceries.ID.String()+`","amount":125.5,"date":"2026-03-01","note":"  weekly shop  "}`)

	require.NoError(t, h.CreateConsumption(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeJSON[ConsumptionResponse](t, rec)
	assert.Equal(t, "125.50", resp.Amount)
	assert.Equal(t, "2026-03-01", resp.Date)
	require.NotNil(t, resp.Note)
	assert.Equal(t, "weekly shop", *resp.Note)
	assert.Empty(t, resp.Warning)

	summary, err := f.projectionRepo.GetPeriodSummary(context.Background(), marchPeriod)
	require.NoError(t, err)
	assert.Equal(t, "125.50", summary.TotalSpent.StringFixed(2))
	assert.Equal(t, "4874.50", summary.RemainingSalary.StringFixed(2))
	assert.Contains(t, f.publisher.Types(), "consumption.created")
	assert.Contains(t, f.publisher.Types(), "period.recomputed")
}

func TestCreateConsumption_DefaultsToToday(t *testing.T) {
	f := newHandlerFixture(t)
	h := NewConsumptionHandler(f.consumption)
	groceries := f.addExpense("Groceries", 1000)

	c, rec := f.request(http.MethodPost, "/api/v1/consumptions",
		`{"expenseId":"`+groceries.ID.String()+`","amount":"12.30"}`)

	require.NoError(t, h.CreateConsumption(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "2026-03-10", decodeJSON[ConsumptionResponse](t, rec).Date)
}

func TestCreateConsumption_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   func(expenseID string) string
		status int
		field  string
	}{
		{
			name:   "zero amount",
			body:   func(id string) string { return `{"expenseId":"` + id + `","amount":0}` },
			status: http.StatusBadRequest,
			field:  "amount",
		},
		{
			name:   "non numeric amount",
			body:   func(id string) string { return `{"expenseId":"` + id + `","amount":"lots"}` },
			status: http.StatusBadRequest,
			field:  "amount",
		},
		{
			name:   "missing expense id",
			body:   func(string) string { return `{"amount":10}` },
			status: http.StatusBadRequest,
			field:  "expenseId",
		},
		{
			name:   "bad date",
			body:   func(id string) string { return `{"expenseId":"` + id + `","amount":10,"date":"01/03/2026"}` },
			status: http.StatusBadRequest,
			field:  "date",
		},
		{
			name:   "unknown expense",
			body:   func(string) string { return `{"expenseId":"` + uuid.NewString() + `","amount":10}` },
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			h := NewConsumptionHandler(f.consumption)
			groceries := f.addExpense("Groceries", 1000)

			c, rec := f.request(http.MethodPost, "/api/v1/consumptions", tt.body(groceries.ID.String()))

			require.NoError(t, h.CreateConsumption(c))
			assert.Equal(t, tt.status, rec.Code)
			if tt.field != "" {
				problem := decodeJSON[ProblemDetails](t, rec)
				require.NotEmpty(t, problem.Errors)
				assert.Equal(t, tt.field, problem.Errors[0].Field)
			}
			assert.Empty(t, f.consumptionRepo.Consumptions)
		})
	}
}

func TestCreateConsumption_InactiveExpense(t *testing.T) {
	f := newHandlerFixture(t)
	h := NewConsumptionHandler(f.consumption)
	old := f.addExpense("Gym", 50)
	old.Active = false

	c, rec := f.request(http.MethodPost, "/api/v1/consumptions", `{"expenseId":"`+old.ID.String()+`","amount":10}`)

	require.NoError(t, h.CreateConsumption(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "expenseId", decodeJSON[ProblemDetails](t, rec).Errors[0].Field)
}

func TestCreateConsumption_RecomputeFailureKeepsWrite(t *testing.T) {
	f := newHandlerFixture(t)
	h := NewConsumptionHandler(f.consumption)
	groceries := f.addExpense("Groceries", 1000)
	f.failProjections()

	c, rec := f.request(http.MethodPost, "/api/v1/consumptions", `{"expenseId":"`+groceries.ID.String()+`","amount":40}`)

	require.NoError(t, h.CreateConsumption(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, decodeJSON[ConsumptionResponse](t, rec).Warning)
	assert.Len(t, f.consumptionRepo.Consumptions, 1)
}

func TestUpdateConsumption_MoveAcrossPeriods(t *testing.T) {
	f := newHandlerFixture(t)
	h := NewConsumptionHandler(f.consumption)
	groceries := f.addExpense("Groceries", 1000)
	entry := f.addConsumption(groceries, "80", "2026-03-01")

	c, rec := f.request(http.MethodPatch, "/api/v1/consumptions/"+entry.ID.String(), `{"date":"2026-03-29"}`,
		"id", entry.ID.String())

	require.NoError(t, h.UpdateConsumption(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-03-29", decodeJSON[ConsumptionResponse](t, rec).Date)

	ctx := context.Background()
	oldSummary, err := f.projectionRepo.GetPeriodSummary(ctx, marchPeriod)
	require.NoError(t, err)
	assert.True(t, oldSummary.TotalSpent.IsZero())

	newSummary, err := f.projectionRepo.GetPeriodSummary(ctx, aprilPeriod)
	require.NoError(t, err)
	assert.Equal(t, "80.00", newSummary.TotalSpent.StringFixed(2))
}

func TestUpdateConsumption_Errors(t *testing.T) {
	f := newHandlerFixture(t)
	h := NewConsumptionHandler(f.consumption)
	groceries := f.addExpense("Groceries", 1000)
	entry := f.addConsumption(groceries, "80", "2026-03-01")

	tests := []struct {
		name   string
		id     string
		body   string
		status int
	}{
		{"empty patch", entry.ID.String(), `{}`, http.StatusBadRequest},
		{"negative amount", entry.ID.String(), `{"amount":-5}`, http.StatusBadRequest},
		{"bad date", entry.ID.String(), `{"date":"2026-13-01"}`, http.StatusBadRequest},
		{"malformed id", "not-a-uuid", `{"amount":5}`, http.StatusBadRequest},
		{"unknown id", uuid.NewString(), `{"amount":5}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := f.request(http.MethodPatch, "/api/v1/consumptions/"+tt.id, tt.body, "id", tt.id)
			require.NoError(t, h.UpdateConsumption(c))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestDeleteConsumption(t *testing.T) {
	f := newHandlerFixture(t)
	h := NewConsumptionHandler(f.consumption)
	groceries := f.addExpense("Groceries", 1000)
	entry := f.addConsumption(groceries, "80", "2026-03-01")

	c, rec := f.request(http.MethodDelete, "/api/v1/consumptions/"+entry.ID.String(), "", "id", entry.ID.String())
	require.NoError(t, h.DeleteConsumption(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entry.ID.String(), decodeJSON[DeleteResponse](t, rec).ID)
	assert.Empty(t, f.consumptionRepo.Consumptions)

	summary, err := f.projectionRepo.GetPeriodSummary(context.Background(), marchPeriod)
	require.NoError(t, err)
	assert.True(t, summary.TotalSpent.IsZero())

	c, rec = f.request(http.MethodDelete, "/api/v1/consumptions/"+entry.ID.String(), "", "id", entry.ID.String())
	require.NoError(t, h.DeleteConsumption(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListConsumptions(t *testing.T) {
	f := newHandlerFixture(t)
	h := NewConsumptionHandler(f.consumption)
	groceries := f.addExpense("Groceries", 1000)
	fuel := f.addExpense("Fuel", 300)
	f.addConsumption(groceries, "10", "2026-02-27") // previous period
	f.addConsumption(groceries, "20", "2026-02-28")
	f.addConsumption(fuel, "30", "2026-03-27")
	f.addConsumption(groceries, "40", "2026-03-28") // next period

	c, rec := f.request(http.MethodGet, "/api/v1/consumptions?date=2026-03-15", "")
	require.NoError(t, h.ListConsumptions(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[ConsumptionListResponse](t, rec)
	assert.Equal(t, PeriodResponse{Start: "2026-02-28", End: "2026-03-28"}, resp.Period)
	require.Len(t, resp.Consumptions, 2)
	assert.Equal(t, "20.00", resp.Consumptions[0].Amount)
	assert.Equal(t, "30.00", resp.Consumptions[1].Amount)

	c, rec = f.request(http.MethodGet, "/api/v1/consumptions?expenseId="+fuel.ID.String(), "")
	require.NoError(t, h.ListConsumptions(c))
	resp = decodeJSON[ConsumptionListResponse](t, rec)
	require.Len(t, resp.Consumptions, 1)
	assert.Equal(t, fuel.ID.String(), resp.Consumptions[0].ExpenseID)
}

func TestListConsumptions_BadParams(t *testing.T) {
	f := newHandlerFixture(t)
	h := NewConsumptionHandler(f.consumption)

	for _, target := range []string{"/api/v1/consumptions?date=yesterday", "/api/v1/consumptions?expenseId=42"} {
		c, rec := f.request(http.MethodGet, target, "")
		require.NoError(t, h.ListConsumptions(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}
