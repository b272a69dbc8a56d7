package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/service"
	"github.com/dafibh/fortuna/budget-backend/internal/testutil"
	"github.com/dafibh/fortuna/budget-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixtureToday falls in the period [2026-02-28, 2026-03-28) with the default start day
var fixtureToday = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

// handlerFixture wires every service over in-memory repositories with a fixed clock
type handlerFixture struct {
	e               *echo.Echo
	settingsRepo    *testutil.MockSettingsRepository
	expenseRepo     *testutil.MockExpenseRepository
	consumptionRepo *testutil.MockConsumptionRepository
	projectionRepo  *testutil.MockProjectionRepository
	snapshotRepo    *testutil.MockSnapshotRepository
	reportStore     *testutil.MockReportStore
	publisher       *websocket.RecordingPublisher

	recompute   *service.RecomputeService
	settings    *service.SettingsService
	expenses    *service.ExpenseService
	consumption *service.ConsumptionService
	dashboard   *service.DashboardService
	snapshots   *service.SnapshotService
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	f := &handlerFixture{
		e:               echo.New(),
		settingsRepo:    testutil.NewMockSettingsRepository(decimal.NewFromInt(5000), 28),
		expenseRepo:     testutil.NewMockExpenseRepository(),
		consumptionRepo: testutil.NewMockConsumptionRepository(),
		projectionRepo:  testutil.NewMockProjectionRepository(),
		snapshotRepo:    testutil.NewMockSnapshotRepository(),
		reportStore:     testutil.NewMockReportStore(),
		publisher:       &websocket.RecordingPublisher{},
	}

	aggregator := service.NewAggregationService(f.expenseRepo, f.consumptionRepo)
	f.recompute = service.NewRecomputeService(
		f.settingsRepo,
		aggregator,
		service.NewMaterializeService(f.projectionRepo),
		domain.DefaultMonthStartDay,
		zerolog.Nop(),
	)
	f.recompute.SetClock(func() time.Time { return fixtureToday })
	f.recompute.SetEventPublisher(f.publisher)

	f.settings = service.NewSettingsService(f.settingsRepo, f.recompute)
	f.expenses = service.NewExpenseService(f.expenseRepo, aggregator, f.recompute)
	f.consumption = service.NewConsumptionService(f.consumptionRepo, f.expenseRepo, f.recompute)
	f.dashboard = service.NewDashboardService(f.projectionRepo, aggregator, f.recompute)
	f.snapshots = service.NewSnapshotService(f.snapshotRepo, f.consumptionRepo, aggregator, f.recompute)
	f.snapshots.SetReportStore(f.reportStore)

	for _, s := range []interface {
		SetEventPublisher(websocket.EventPublisher)
	}{f.settings, f.expenses, f.consumption, f.snapshots} {
		s.SetEventPublisher(f.publisher)
	}
	return f
}

func (f *handlerFixture) addExpense(name string, budget int64) *domain.ExpenseCategory {
	return f.expenseRepo.AddExpense(&domain.ExpenseCategory{
		Name:          name,
		MonthlyBudget: decimal.NewFromInt(budget),
		Active:        true,
		CreatedAt:     time.Date(2026, 1, 1, 0, 0, len(f.expenseRepo.Expenses), 0, time.UTC),
		UpdatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

func (f *handlerFixture) addConsumption(expense *domain.ExpenseCategory, amount string, day string) *domain.ConsumptionEntry {
	d, _ := time.Parse(domain.DateLayout, day)
	return f.consumptionRepo.AddConsumption(&domain.ConsumptionEntry{
		ExpenseID: expense.ID,
		Amount:    decimal.RequireFromString(amount),
		Date:      d,
		CreatedAt: fixtureToday,
	})
}

// failProjections makes every materialization fail
func (f *handlerFixture) failProjections() {
	f.projectionRepo.UpsertPeriodSummaryFn = func(ctx context.Context, summary *domain.PeriodSummary) error {
		return errors.New("projection store unavailable")
	}
}

// request builds a context for method/target with an optional JSON body.
// names and values fill path params in order.
func (f *handlerFixture) request(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)

	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func mustDate(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func periodOf(start, end string) domain.BillingPeriod {
	return domain.BillingPeriod{Start: mustDate(start), End: mustDate(end)}
}
