package service

import (
	"testing"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/testutil"
	"github.com/dafibh/fortuna/budget-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// engineFixture wires the recompute cycle over in-memory repositories
type engineFixture struct {
	settingsRepo    *testutil.MockSettingsRepository
	expenseRepo     *testutil.MockExpenseRepository
	consumptionRepo *testutil.MockConsumptionRepository
	projectionRepo  *testutil.MockProjectionRepository
	publisher       *websocket.RecordingPublisher
	aggregator      *AggregationService
	recompute       *RecomputeService
}

func newEngineFixture(t *testing.T, salary string, startDay int, today string) *engineFixture {
	t.Helper()

	f := &engineFixture{
		settingsRepo:    testutil.NewMockSettingsRepository(dec(t, salary), startDay),
		expenseRepo:     testutil.NewMockExpenseRepository(),
		consumptionRepo: testutil.NewMockConsumptionRepository(),
		projectionRepo:  testutil.NewMockProjectionRepository(),
		publisher:       &websocket.RecordingPublisher{},
	}
	f.aggregator = NewAggregationService(f.expenseRepo, f.consumptionRepo)
	f.recompute = NewRecomputeService(
		f.settingsRepo,
		f.aggregator,
		NewMaterializeService(f.projectionRepo),
		domain.DefaultMonthStartDay,
		zerolog.Nop(),
	)
	f.recompute.SetEventPublisher(f.publisher)

	now := date(t, today).Add(10 * time.Hour)
	f.recompute.SetClock(func() time.Time { return now })
	return f
}

func (f *engineFixture) addExpense(t *testing.T, name, budget string) *domain.ExpenseCategory {
	t.Helper()
	return f.expenseRepo.AddExpense(&domain.ExpenseCategory{
		Name:          name,
		MonthlyBudget: dec(t, budget),
		Active:        true,
		CreatedAt:     time.Date(2024, 1, 1, 0, 0, len(f.expenseRepo.Expenses), 0, time.UTC),
	})
}

func (f *engineFixture) addConsumption(t *testing.T, expense *domain.ExpenseCategory, amount, day string) *domain.ConsumptionEntry {
	t.Helper()
	return f.consumptionRepo.AddConsumption(&domain.ConsumptionEntry{
		ExpenseID: expense.ID,
		Amount:    dec(t, amount),
		Date:      date(t, day),
		CreatedAt: time.Now(),
	})
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, s)
	require.NoError(t, err)
	return d
}

func period(t *testing.T, start, end string) domain.BillingPeriod {
	t.Helper()
	return domain.BillingPeriod{Start: date(t, start), End: date(t, end)}
}
