package service

import (
	"context"
	"fmt"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/google/uuid"
)

// MaterializeService writes an aggregate into the projection tables
type MaterializeService struct {
	projectionRepo domain.ProjectionRepository
}

// NewMaterializeService creates a new MaterializeService
func NewMaterializeService(projectionRepo domain.ProjectionRepository) *MaterializeService {
	return &MaterializeService{projectionRepo: projectionRepo}
}

// Materialize upserts one row per expense and one summary row for the aggregate's period.
// Value columns are fully overwritten and rows of expenses missing from the aggregate are removed.
// Failures are returned as-is; there is no retry.
func (s *MaterializeService) Materialize(ctx context.Context, agg *domain.PeriodAggregate) error {
	totals := make([]*domain.ExpensePeriodTotal, 0, len(agg.PerExpense))
	keep := make([]uuid.UUID, 0, len(agg.PerExpense))
	for _, e := range agg.PerExpense {
		keep = append(keep, e.ExpenseID)
		totals = append(totals, &domain.ExpensePeriodTotal{
			ExpenseID:   e.ExpenseID,
			PeriodStart: agg.Period.Start,
			PeriodEnd:   agg.Period.End,
			Consumed:    e.Consumed,
			Remaining:   e.Remaining,
			PctUsed:     e.PctUsed,
		})
	}

	if err := s.projectionRepo.DeleteExpenseTotalsExcept(ctx, agg.Period, keep); err != nil {
		return fmt.Errorf("delete stale expense totals: %w", err)
	}
	if len(totals) > 0 {
		if err := s.projectionRepo.UpsertExpenseTotals(ctx, totals); err != nil {
			return fmt.Errorf("upsert expense totals: %w", err)
		}
	}

	summary := &domain.PeriodSummary{
		PeriodStart:     agg.Period.Start,
		PeriodEnd:       agg.Period.End,
		Salary:          agg.Salary,
		TotalSpent:      agg.TotalSpent,
		RemainingSalary: agg.RemainingSalary,
	}
	if err := s.projectionRepo.UpsertPeriodSummary(ctx, summary); err != nil {
		return fmt.Errorf("upsert period summary: %w", err)
	}

	return nil
}
