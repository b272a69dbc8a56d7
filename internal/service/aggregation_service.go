package service

import (
	"context"
	"fmt"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregationService computes per-expense and household totals for a billing period.
// It only reads; nothing is written.
type AggregationService struct {
	expenseRepo     domain.ExpenseRepository
	consumptionRepo domain.ConsumptionRepository
}

// NewAggregationService creates a new AggregationService
func NewAggregationService(expenseRepo domain.ExpenseRepository, consumptionRepo domain.ConsumptionRepository) *AggregationService {
	return &AggregationService{
		expenseRepo:     expenseRepo,
		consumptionRepo: consumptionRepo,
	}
}

// Aggregate sums the consumptions of every active expense inside [period.Start, period.End).
// Entries of inactive categories are ignored. Every derived value is rounded to 2 places.
func (s *AggregationService) Aggregate(ctx context.Context, period domain.BillingPeriod, settings *domain.Settings) (*domain.PeriodAggregate, error) {
	expenses, err := s.expenseRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("read active expenses: %w", err)
	}

	entries, err := s.consumptionRepo.GetByDateRange(ctx, period.Start, period.End, nil)
	if err != nil {
		return nil, fmt.Errorf("read consumptions: %w", err)
	}

	consumed := make(map[uuid.UUID]decimal.Decimal, len(expenses))
	for _, e := range entries {
		consumed[e.ExpenseID] = consumed[e.ExpenseID].Add(util.ParseAmount(e.Amount))
	}

	perExpense := make([]*domain.ExpenseAggregate, 0, len(expenses))
	totalSpent := decimal.Zero
	for _, exp := range expenses {
		spent := util.Round2(consumed[exp.ID])
		perExpense = append(perExpense, &domain.ExpenseAggregate{
			ExpenseID:     exp.ID,
			Name:          exp.Name,
			MonthlyBudget: exp.MonthlyBudget,
			Consumed:      spent,
			Remaining:     util.Round2(exp.MonthlyBudget.Sub(spent)),
			PctUsed:       util.PctUsed(spent, exp.MonthlyBudget),
		})
		totalSpent = totalSpent.Add(spent)
	}

	salary := decimal.Zero
	startDay := 0
	if settings != nil {
		salary = util.ParseAmount(settings.Salary)
		startDay = settings.MonthStartDay
	}
	totalSpent = util.Round2(totalSpent)

	return &domain.PeriodAggregate{
		Period:          period,
		MonthStartDay:   startDay,
		PerExpense:      perExpense,
		Salary:          salary,
		TotalSpent:      totalSpent,
		RemainingSalary: util.Round2(salary.Sub(totalSpent)),
	}, nil
}
