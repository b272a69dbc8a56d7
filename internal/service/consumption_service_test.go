package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsumptionFixture(t *testing.T) (*engineFixture, *ConsumptionService) {
	t.Helper()
	f := newEngineFixture(t, "5000", 28, "2024-03-10")
	svc := NewConsumptionService(f.consumptionRepo, f.expenseRepo, f.recompute)
	svc.SetEventPublisher(f.publisher)
	return f, svc
}

func TestCreateConsumption_Success(t *testing.T) {
	f, svc := newConsumptionFixture(t)
	food := f.addExpense(t, "Food", "600")
	d := date(t, "2024-03-02")
	note := "  groceries  "

	m, err := svc.CreateConsumption(context.Background(), CreateConsumptionInput{
		ExpenseID: food.ID,
		Amount:    dec(t, "42.50"),
		Date:      &d,
		Note:      &note,
	})
	require.NoError(t, err)
	require.NoError(t, m.RecomputeErr)
	assert.Empty(t, m.Warning())

	assert.Equal(t, "42.5", m.Result.Amount.String())
	assert.Equal(t, "2024-03-02", m.Result.Date.Format(domain.DateLayout))
	require.NotNil(t, m.Result.Note)
	assert.Equal(t, "groceries", *m.Result.Note)

	total, err := f.projectionRepo.GetExpenseTotal(context.Background(), food.ID, period(t, "2024-02-28", "2024-03-28"))
	require.NoError(t, err)
	assert.Equal(t, "42.50", total.Consumed.StringFixed(2))

	assert.Equal(t, []string{"consumption.created", "period.recomputed"}, f.publisher.Types())
}

func TestCreateConsumption_DefaultsToToday(t *testing.T) {
	f, svc := newConsumptionFixture(t)
	food := f.addExpense(t, "Food", "600")

	m, err := svc.CreateConsumption(context.Background(), CreateConsumptionInput{
		ExpenseID: food.ID,
		Amount:    dec(t, "5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", m.Result.Date.Format(domain.DateLayout))
	assert.Nil(t, m.Result.Note)
}

func TestCreateConsumption_Validation(t *testing.T) {
	f, svc := newConsumptionFixture(t)
	food := f.addExpense(t, "Food", "600")
	gone := f.addExpense(t, "Gone", "100")
	gone.Active = false
	longNote := strings.Repeat("x", domain.MaxNoteLength+1)

	tests := []struct {
		name  string
		input CreateConsumptionInput
		want  error
	}{
		{"zero amount", CreateConsumptionInput{ExpenseID: food.ID, Amount: decimal.Zero}, domain.ErrInvalidAmount},
		{"negative amount", CreateConsumptionInput{ExpenseID: food.ID, Amount: dec(t, "-1")}, domain.ErrInvalidAmount},
		{"unknown expense", CreateConsumptionInput{ExpenseID: uuid.New(), Amount: dec(t, "1")}, domain.ErrExpenseNotFound},
		{"inactive expense", CreateConsumptionInput{ExpenseID: gone.ID, Amount: dec(t, "1")}, domain.ErrExpenseInactive},
		{"note too long", CreateConsumptionInput{ExpenseID: food.ID, Amount: dec(t, "1"), Note: &longNote}, domain.ErrNoteTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateConsumption(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.consumptionRepo.Consumptions)
}

func TestCreateConsumption_RecomputeFailureKeepsWrite(t *testing.T) {
	f, svc := newConsumptionFixture(t)
	food := f.addExpense(t, "Food", "600")
	f.projectionRepo.UpsertPeriodSummaryFn = func(ctx context.Context, summary *domain.PeriodSummary) error {
		return errors.New("disk full")
	}

	m, err := svc.CreateConsumption(context.Background(), CreateConsumptionInput{
		ExpenseID: food.ID,
		Amount:    dec(t, "10"),
	})
	require.NoError(t, err)
	assert.ErrorIs(t, m.RecomputeErr, domain.ErrRecomputeFailed)
	assert.NotEmpty(t, m.Warning())
	assert.Len(t, f.consumptionRepo.Consumptions, 1)
}

func TestUpdateConsumption_AcrossPeriodsRecomputesBoth(t *testing.T) {
	f, svc := newConsumptionFixture(t)
	food := f.addExpense(t, "Food", "600")
	entry := f.addConsumption(t, food, "100", "2024-03-05")
	_, err := f.recompute.Recompute(context.Background(), entry.Date)
	require.NoError(t, err)

	moved := date(t, "2024-04-02")
	m, err := svc.UpdateConsumption(context.Background(), entry.ID, UpdateConsumptionInput{Date: &moved})
	require.NoError(t, err)
	require.NoError(t, m.RecomputeErr)

	march, err := f.projectionRepo.GetExpenseTotal(context.Background(), food.ID, period(t, "2024-02-28", "2024-03-28"))
	require.NoError(t, err)
	assert.True(t, march.Consumed.IsZero(), "old period must drop the moved entry")

	april, err := f.projectionRepo.GetExpenseTotal(context.Background(), food.ID, period(t, "2024-03-28", "2024-04-28"))
	require.NoError(t, err)
	assert.Equal(t, "100.00", april.Consumed.StringFixed(2))
}

func TestUpdateConsumption_AmountWithinPeriod(t *testing.T) {
	f, svc := newConsumptionFixture(t)
	food := f.addExpense(t, "Food", "200")
	entry := f.addConsumption(t, food, "100", "2024-03-05")

	amount := dec(t, "150")
	m, err := svc.UpdateConsumption(context.Background(), entry.ID, UpdateConsumptionInput{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "150", m.Result.Amount.String())

	total, _ := f.projectionRepo.GetExpenseTotal(context.Background(), food.ID, period(t, "2024-02-28", "2024-03-28"))
	assert.Equal(t, "75.00", total.PctUsed.StringFixed(2))
	assert.Equal(t, []string{"consumption.updated", "period.recomputed"}, f.publisher.Types())
}

func TestUpdateConsumption_Errors(t *testing.T) {
	f, svc := newConsumptionFixture(t)
	food := f.addExpense(t, "Food", "200")
	entry := f.addConsumption(t, food, "100", "2024-03-05")

	_, err := svc.UpdateConsumption(context.Background(), entry.ID, UpdateConsumptionInput{})
	assert.ErrorIs(t, err, domain.ErrNothingToUpdate)

	zero := decimal.Zero
	_, err = svc.UpdateConsumption(context.Background(), entry.ID, UpdateConsumptionInput{Amount: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	one := dec(t, "1")
	_, err = svc.UpdateConsumption(context.Background(), uuid.New(), UpdateConsumptionInput{Amount: &one})
	assert.ErrorIs(t, err, domain.ErrConsumptionNotFound)
}

func TestDeleteConsumption_RecomputesUsingPreDeleteDate(t *testing.T) {
	f, svc := newConsumptionFixture(t)
	food := f.addExpense(t, "Food", "600")
	keep := f.addConsumption(t, food, "20", "2024-01-10")
	entry := f.addConsumption(t, food, "80", "2024-01-15")
	_, err := f.recompute.Recompute(context.Background(), entry.Date)
	require.NoError(t, err)

	m, err := svc.DeleteConsumption(context.Background(), entry.ID)
	require.NoError(t, err)
	require.NoError(t, m.RecomputeErr)
	assert.Equal(t, entry.ID, m.Result.ID)

	// The entry is in a past period, not the current one
	total, err := f.projectionRepo.GetExpenseTotal(context.Background(), food.ID, period(t, "2023-12-28", "2024-01-28"))
	require.NoError(t, err)
	assert.Equal(t, keep.Amount.StringFixed(2), total.Consumed.StringFixed(2))

	_, err = svc.DeleteConsumption(context.Background(), entry.ID)
	assert.ErrorIs(t, err, domain.ErrConsumptionNotFound)
}

func TestListConsumptions_ByPeriodAndExpense(t *testing.T) {
	f, svc := newConsumptionFixture(t)
	food := f.addExpense(t, "Food", "600")
	fun := f.addExpense(t, "Fun", "100")
	f.addConsumption(t, food, "1", "2024-02-28")
	f.addConsumption(t, fun, "2", "2024-03-01")
	f.addConsumption(t, food, "3", "2024-03-28")

	entries, p, err := svc.ListConsumptions(context.Background(), date(t, "2024-03-15"), nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-28", p.StartString())
	assert.Len(t, entries, 2)

	entries, _, err = svc.ListConsumptions(context.Background(), date(t, "2024-03-15"), &food.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1", entries[0].Amount.String())
}
