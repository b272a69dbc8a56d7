package service

import (
	"context"
	"testing"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardFixture(t *testing.T) (*engineFixture, *DashboardService) {
	t.Helper()
	f := newEngineFixture(t, "3000", 28, "2024-03-10")
	return f, NewDashboardService(f.projectionRepo, f.aggregator, f.recompute)
}

func TestGetSummary_CurrentPeriod(t *testing.T) {
	f, svc := newDashboardFixture(t)
	food := f.addExpense(t, "Food", "600")
	rent := f.addExpense(t, "Rent", "1200")
	f.addConsumption(t, food, "99.99", "2024-03-01")
	f.addConsumption(t, rent, "1200", "2024-02-28")

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-02-28", summary.Period.StartString())
	assert.Equal(t, "2024-03-28", summary.Period.EndString())
	assert.Equal(t, 28, summary.MonthStartDay)
	assert.Equal(t, "1299.99", summary.TotalConsumed.StringFixed(2))
	assert.Equal(t, "1700.01", summary.Savings.StringFixed(2))
	require.Len(t, summary.Pie, 2)
	assert.Equal(t, "Food", summary.Pie[0].Name)
	assert.Equal(t, food.ID.String(), summary.Pie[0].ExpenseID)
}

func TestGetHistory_UsesDayFifteen(t *testing.T) {
	f, svc := newDashboardFixture(t)
	food := f.addExpense(t, "Food", "600")
	f.addConsumption(t, food, "10", "2024-01-20")
	f.addConsumption(t, food, "20", "2023-12-28")
	f.addConsumption(t, food, "40", "2024-01-28")

	agg, err := svc.GetHistory(context.Background(), "2024-01")
	require.NoError(t, err)

	// Jan 15 falls in [Dec 28, Jan 28)
	assert.Equal(t, "2023-12-28", agg.Period.StartString())
	assert.Equal(t, "2024-01-28", agg.Period.EndString())
	assert.Equal(t, "30.00", agg.TotalSpent.StringFixed(2))
}

func TestGetHistory_InvalidMonth(t *testing.T) {
	_, svc := newDashboardFixture(t)

	for _, month := range []string{"", "2024", "2024-13", "Jan 2024"} {
		_, err := svc.GetHistory(context.Background(), month)
		assert.ErrorIs(t, err, domain.ErrInvalidDate, "month %q", month)
	}
}

func TestListPeriods_NewestFirst(t *testing.T) {
	f, svc := newDashboardFixture(t)
	f.addExpense(t, "Food", "600")

	for _, d := range []string{"2024-01-05", "2024-03-05", "2024-02-05"} {
		_, err := f.recompute.Recompute(context.Background(), date(t, d))
		require.NoError(t, err)
	}

	summaries, err := svc.ListPeriods(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "2024-02-28", summaries[0].PeriodStart.Format(domain.DateLayout))
	assert.Equal(t, "2023-12-28", summaries[2].PeriodStart.Format(domain.DateLayout))

	limited, err := svc.ListPeriods(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGetPeriod_ByNaturalKey(t *testing.T) {
	f, svc := newDashboardFixture(t)
	food := f.addExpense(t, "Food", "600")
	f.addConsumption(t, food, "60", "2024-03-01")
	_, err := f.recompute.Recompute(context.Background(), date(t, "2024-03-01"))
	require.NoError(t, err)

	detail, err := svc.GetPeriod(context.Background(), period(t, "2024-02-28", "2024-03-28"))
	require.NoError(t, err)
	assert.Equal(t, "60.00", detail.Summary.TotalSpent.StringFixed(2))
	require.Len(t, detail.Totals, 1)
	assert.Equal(t, "10.00", detail.Totals[0].PctUsed.StringFixed(2))

	_, err = svc.GetPeriod(context.Background(), period(t, "2020-01-28", "2020-02-28"))
	assert.ErrorIs(t, err, domain.ErrPeriodNotFound)
}

func TestGetPeriod_DeactivatedExpenseLeavesDetail(t *testing.T) {
	f, svc := newDashboardFixture(t)
	expenses := NewExpenseService(f.expenseRepo, f.aggregator, f.recompute)
	food := f.addExpense(t, "Food", "1000")
	fun := f.addExpense(t, "Fun", "500")
	f.addConsumption(t, food, "300", "2024-03-01")
	f.addConsumption(t, fun, "600", "2024-03-02")

	result, err := f.recompute.Recompute(context.Background(), date(t, "2024-03-10"))
	require.NoError(t, err)

	m, err := expenses.DeleteExpense(context.Background(), fun.ID)
	require.NoError(t, err)
	require.NoError(t, m.RecomputeErr)

	detail, err := svc.GetPeriod(context.Background(), result.Period())
	require.NoError(t, err)
	assert.Equal(t, "300.00", detail.Summary.TotalSpent.StringFixed(2))
	require.Len(t, detail.Totals, 1)
	assert.Equal(t, food.ID, detail.Totals[0].ExpenseID)

	sum := decimal.Zero
	for _, total := range detail.Totals {
		sum = sum.Add(total.Consumed)
	}
	assert.True(t, sum.Equal(detail.Summary.TotalSpent))
}

func TestGetPeriod_ClosedOnceTodayReachesEnd(t *testing.T) {
	f, svc := newDashboardFixture(t)
	food := f.addExpense(t, "Food", "600")
	f.addConsumption(t, food, "25", "2024-02-10")
	f.addConsumption(t, food, "60", "2024-03-01")

	for _, d := range []string{"2024-02-10", "2024-03-01"} {
		_, err := f.recompute.Recompute(context.Background(), date(t, d))
		require.NoError(t, err)
	}

	past, err := svc.GetPeriod(context.Background(), period(t, "2024-01-28", "2024-02-28"))
	require.NoError(t, err)
	assert.True(t, past.Closed)

	current, err := svc.GetPeriod(context.Background(), period(t, "2024-02-28", "2024-03-28"))
	require.NoError(t, err)
	assert.False(t, current.Closed)
}

func TestGetExpenseTotal_ByNaturalKey(t *testing.T) {
	f, svc := newDashboardFixture(t)
	food := f.addExpense(t, "Food", "600")
	rent := f.addExpense(t, "Rent", "1200")
	f.addConsumption(t, food, "150", "2024-03-01")
	_, err := f.recompute.Recompute(context.Background(), date(t, "2024-03-01"))
	require.NoError(t, err)
	current := period(t, "2024-02-28", "2024-03-28")

	total, err := svc.GetExpenseTotal(context.Background(), food.ID, current)
	require.NoError(t, err)
	assert.Equal(t, "150.00", total.Consumed.StringFixed(2))
	assert.Equal(t, "450.00", total.Remaining.StringFixed(2))
	assert.Equal(t, "25.00", total.PctUsed.StringFixed(2))

	zero, err := svc.GetExpenseTotal(context.Background(), rent.ID, current)
	require.NoError(t, err)
	assert.True(t, zero.Consumed.IsZero())

	_, err = svc.GetExpenseTotal(context.Background(), food.ID, period(t, "2020-01-28", "2020-02-28"))
	assert.ErrorIs(t, err, domain.ErrPeriodNotFound)
}
