package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_WindowIsHalfOpen(t *testing.T) {
	f := newEngineFixture(t, "5000", 28, "2024-03-10")
	food := f.addExpense(t, "Food", "500")

	f.addConsumption(t, food, "10", "2024-02-27") // before start
	f.addConsumption(t, food, "20", "2024-02-28") // start, inclusive
	f.addConsumption(t, food, "30", "2024-03-27")
	f.addConsumption(t, food, "40", "2024-03-28") // end, exclusive

	settings, _ := f.settingsRepo.Get(context.Background())
	agg, err := f.aggregator.Aggregate(context.Background(), period(t, "2024-02-28", "2024-03-28"), settings)
	require.NoError(t, err)

	require.Len(t, agg.PerExpense, 1)
	assert.Equal(t, "50.00", agg.PerExpense[0].Consumed.StringFixed(2))
	assert.Equal(t, "450.00", agg.PerExpense[0].Remaining.StringFixed(2))
	assert.Equal(t, "10.00", agg.PerExpense[0].PctUsed.StringFixed(2))
	assert.Equal(t, "50.00", agg.TotalSpent.StringFixed(2))
	assert.Equal(t, "4950.00", agg.RemainingSalary.StringFixed(2))
	assert.Equal(t, 28, agg.MonthStartDay)
}

func TestAggregate_CategoryWithoutEntriesIsZero(t *testing.T) {
	f := newEngineFixture(t, "1000", 1, "2024-05-10")
	f.addExpense(t, "Rent", "800")

	agg, err := f.aggregator.Aggregate(context.Background(), period(t, "2024-05-01", "2024-06-01"), nil)
	require.NoError(t, err)

	require.Len(t, agg.PerExpense, 1)
	assert.True(t, agg.PerExpense[0].Consumed.IsZero())
	assert.Equal(t, "800.00", agg.PerExpense[0].Remaining.StringFixed(2))
	assert.True(t, agg.PerExpense[0].PctUsed.IsZero())
	assert.True(t, agg.Salary.IsZero(), "nil settings means zero salary")
}

func TestAggregate_InactiveCategoryExcluded(t *testing.T) {
	f := newEngineFixture(t, "1000", 1, "2024-05-10")
	active := f.addExpense(t, "Food", "100")
	inactive := f.addExpense(t, "Gym", "50")
	inactive.Active = false

	f.addConsumption(t, active, "10", "2024-05-02")
	f.addConsumption(t, inactive, "25", "2024-05-02")

	agg, err := f.aggregator.Aggregate(context.Background(), period(t, "2024-05-01", "2024-06-01"), nil)
	require.NoError(t, err)

	require.Len(t, agg.PerExpense, 1)
	assert.Equal(t, active.ID, agg.PerExpense[0].ExpenseID)
	assert.Equal(t, "10.00", agg.TotalSpent.StringFixed(2))
}

func TestAggregate_ZeroBudgetHasZeroPct(t *testing.T) {
	f := newEngineFixture(t, "1000", 1, "2024-05-10")
	misc := f.addExpense(t, "Misc", "0")
	f.addConsumption(t, misc, "12.34", "2024-05-03")

	agg, err := f.aggregator.Aggregate(context.Background(), period(t, "2024-05-01", "2024-06-01"), nil)
	require.NoError(t, err)

	assert.True(t, agg.PerExpense[0].PctUsed.IsZero())
	assert.Equal(t, "-12.34", agg.PerExpense[0].Remaining.StringFixed(2))
}

func TestAggregate_OverspendGoesNegative(t *testing.T) {
	f := newEngineFixture(t, "100", 1, "2024-05-10")
	food := f.addExpense(t, "Food", "50")
	f.addConsumption(t, food, "80", "2024-05-03")
	f.addConsumption(t, food, "70", "2024-05-04")

	settings, _ := f.settingsRepo.Get(context.Background())
	agg, err := f.aggregator.Aggregate(context.Background(), period(t, "2024-05-01", "2024-06-01"), settings)
	require.NoError(t, err)

	assert.Equal(t, "-100.00", agg.PerExpense[0].Remaining.StringFixed(2))
	assert.Equal(t, "300.00", agg.PerExpense[0].PctUsed.StringFixed(2))
	assert.Equal(t, "-50.00", agg.RemainingSalary.StringFixed(2))
}

func TestAggregate_RoundsHalfAwayFromZero(t *testing.T) {
	f := newEngineFixture(t, "0", 1, "2024-05-10")
	food := f.addExpense(t, "Food", "3")
	f.addConsumption(t, food, "0.3333", "2024-05-03")
	f.addConsumption(t, food, "0.0017", "2024-05-04")

	agg, err := f.aggregator.Aggregate(context.Background(), period(t, "2024-05-01", "2024-06-01"), nil)
	require.NoError(t, err)

	// 0.335 rounds up to 0.34
	assert.Equal(t, "0.34", agg.PerExpense[0].Consumed.String())
	assert.Equal(t, "2.66", agg.PerExpense[0].Remaining.String())
	assert.Equal(t, "11.33", agg.PerExpense[0].PctUsed.String())
}

func TestAggregate_TotalEqualsSumOfPerExpense(t *testing.T) {
	f := newEngineFixture(t, "3000", 15, "2024-07-20")
	a := f.addExpense(t, "A", "100")
	b := f.addExpense(t, "B", "200")
	c := f.addExpense(t, "C", "300")

	f.addConsumption(t, a, "10.115", "2024-07-15")
	f.addConsumption(t, a, "0.005", "2024-07-16")
	f.addConsumption(t, b, "33.333", "2024-07-20")
	f.addConsumption(t, c, "0.994", "2024-08-14")

	agg, err := f.aggregator.Aggregate(context.Background(), period(t, "2024-07-15", "2024-08-15"), nil)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, e := range agg.PerExpense {
		sum = sum.Add(e.Consumed)
		assert.True(t, e.Remaining.Equal(e.MonthlyBudget.Sub(e.Consumed)), "remaining must equal budget - consumed for %s", e.Name)
	}
	assert.True(t, sum.Round(2).Equal(agg.TotalSpent), "totalSpent %s, sum %s", agg.TotalSpent, sum)
}

func TestAggregate_ReadFailureAborts(t *testing.T) {
	f := newEngineFixture(t, "1000", 1, "2024-05-10")
	f.addExpense(t, "Food", "100")
	boom := errors.New("connection reset")
	f.consumptionRepo.GetByDateRangeFn = func(ctx context.Context, start, end time.Time, filters *domain.ConsumptionFilters) ([]*domain.ConsumptionEntry, error) {
		return nil, boom
	}

	agg, err := f.aggregator.Aggregate(context.Background(), period(t, "2024-05-01", "2024-06-01"), nil)
	assert.Nil(t, agg)
	assert.ErrorIs(t, err, boom)
}

func TestAggregate_ExpenseReadFailureAborts(t *testing.T) {
	f := newEngineFixture(t, "1000", 1, "2024-05-10")
	f.expenseRepo.GetActiveFn = func(ctx context.Context) ([]*domain.ExpenseCategory, error) {
		return nil, errors.New("timeout")
	}

	_, err := f.aggregator.Aggregate(context.Background(), period(t, "2024-05-01", "2024-06-01"), nil)
	assert.Error(t, err)
}
