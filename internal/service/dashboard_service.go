package service

import (
	"context"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/util"
	"github.com/google/uuid"
)

// HistoryReferenceDay is the day of a requested month used to pick its period
const HistoryReferenceDay = 15

// DefaultPeriodListLimit bounds period listings when no limit is given
const DefaultPeriodListLimit = 12

// DashboardService serves the current summary, historical views and materialized period reads
type DashboardService struct {
	projectionRepo   domain.ProjectionRepository
	aggregator       *AggregationService
	recomputeService *RecomputeService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(projectionRepo domain.ProjectionRepository, aggregator *AggregationService, recomputeService *RecomputeService) *DashboardService {
	return &DashboardService{
		projectionRepo:   projectionRepo,
		aggregator:       aggregator,
		recomputeService: recomputeService,
	}
}

// GetSummary returns the live summary of the period containing today
func (s *DashboardService) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	agg, err := s.aggregateFor(ctx, s.recomputeService.Today())
	if err != nil {
		return nil, err
	}

	pie := make([]domain.PieSlice, 0, len(agg.PerExpense))
	for _, e := range agg.PerExpense {
		pie = append(pie, domain.PieSlice{
			ExpenseID: e.ExpenseID.String(),
			Name:      e.Name,
			Consumed:  e.Consumed,
		})
	}

	return &domain.DashboardSummary{
		Period:        agg.Period,
		MonthStartDay: agg.MonthStartDay,
		Salary:        agg.Salary,
		TotalConsumed: agg.TotalSpent,
		Savings:       agg.RemainingSalary,
		Pie:           pie,
	}, nil
}

// GetHistory aggregates the period containing day 15 of the given YYYY-MM month
func (s *DashboardService) GetHistory(ctx context.Context, month string) (*domain.PeriodAggregate, error) {
	ref, err := util.ParseMonth(month, HistoryReferenceDay)
	if err != nil {
		return nil, err
	}
	return s.aggregateFor(ctx, ref)
}

// ListPeriods returns materialized period summaries, newest first
func (s *DashboardService) ListPeriods(ctx context.Context, limit int) ([]*domain.PeriodSummary, error) {
	if limit <= 0 {
		limit = DefaultPeriodListLimit
	}
	return s.projectionRepo.ListPeriodSummaries(ctx, limit)
}

// GetPeriod returns the materialized rows of one period by its natural key
func (s *DashboardService) GetPeriod(ctx context.Context, period domain.BillingPeriod) (*domain.PeriodDetail, error) {
	summary, err := s.projectionRepo.GetPeriodSummary(ctx, period)
	if err != nil {
		return nil, err
	}
	totals, err := s.projectionRepo.GetExpenseTotalsByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = []*domain.ExpensePeriodTotal{}
	}
	return &domain.PeriodDetail{
		Summary: summary,
		Totals:  totals,
		Closed:  util.IsClosedPeriod(period, s.recomputeService.Today()),
	}, nil
}

// GetExpenseTotal returns one expense's materialized total for a period
func (s *DashboardService) GetExpenseTotal(ctx context.Context, expenseID uuid.UUID, period domain.BillingPeriod) (*domain.ExpensePeriodTotal, error) {
	return s.projectionRepo.GetExpenseTotal(ctx, expenseID, period)
}

func (s *DashboardService) aggregateFor(ctx context.Context, ref time.Time) (*domain.PeriodAggregate, error) {
	settings, err := s.recomputeService.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	period := util.ResolvePeriod(ref, settings.MonthStartDay)
	return s.aggregator.Aggregate(ctx, period, settings)
}
