package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/util"
	"github.com/dafibh/fortuna/budget-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RecomputeResult identifies the period a recompute cycle refreshed
type RecomputeResult struct {
	Start         time.Time
	End           time.Time
	MonthStartDay int
	Aggregate     *domain.PeriodAggregate
}

// Period returns the refreshed window
func (r *RecomputeResult) Period() domain.BillingPeriod {
	return domain.BillingPeriod{Start: r.Start, End: r.End}
}

// RecomputeService runs the resolve, aggregate and materialize cycle for the period containing a date
type RecomputeService struct {
	settingsRepo    domain.SettingsRepository
	aggregator      *AggregationService
	materializer    *MaterializeService
	defaultStartDay int
	locker          domain.PeriodLocker
	eventPublisher  websocket.EventPublisher
	logger          zerolog.Logger
	now             func() time.Time
}

// NewRecomputeService creates a new RecomputeService.
// defaultStartDay is used when settings carry no month start day.
func NewRecomputeService(
	settingsRepo domain.SettingsRepository,
	aggregator *AggregationService,
	materializer *MaterializeService,
	defaultStartDay int,
	logger zerolog.Logger,
) *RecomputeService {
	if defaultStartDay < domain.MinMonthStartDay || defaultStartDay > domain.MaxMonthStartDay {
		defaultStartDay = domain.DefaultMonthStartDay
	}
	return &RecomputeService{
		settingsRepo:    settingsRepo,
		aggregator:      aggregator,
		materializer:    materializer,
		defaultStartDay: defaultStartDay,
		logger:          logger.With().Str("component", "recompute").Logger(),
		now:             time.Now,
	}
}

// SetPeriodLocker serializes cycles of the same period through the given locker
func (s *RecomputeService) SetPeriodLocker(locker domain.PeriodLocker) {
	s.locker = locker
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *RecomputeService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the wall clock used for "today"
func (s *RecomputeService) SetClock(now func() time.Time) {
	s.now = now
}

// Today returns the current calendar day
func (s *RecomputeService) Today() time.Time {
	return util.TruncateDay(s.now())
}

// LoadSettings reads the settings singleton, filling the configured defaults when none exist
func (s *RecomputeService) LoadSettings(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSettingsNotFound) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
		settings = &domain.Settings{Salary: decimal.Zero}
	}
	if settings.MonthStartDay == 0 {
		settings.MonthStartDay = s.defaultStartDay
	}
	return settings, nil
}

// ResolveForDate resolves the billing period containing date under the current settings without writing
func (s *RecomputeService) ResolveForDate(ctx context.Context, date time.Time) (domain.BillingPeriod, int, error) {
	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return domain.BillingPeriod{}, 0, err
	}
	return util.ResolvePeriod(date, settings.MonthStartDay), settings.MonthStartDay, nil
}

// Recompute refreshes the materialized totals of the period containing date.
// The cycle is synchronous: when it returns without error the projections reflect every committed entry.
func (s *RecomputeService) Recompute(ctx context.Context, date time.Time) (*RecomputeResult, error) {
	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRecomputeFailed, err)
	}

	period := util.ResolvePeriod(date, settings.MonthStartDay)
	log := s.logger.With().
		Str("period_start", period.StartString()).
		Str("period_end", period.EndString()).
		Logger()

	var agg *domain.PeriodAggregate
	cycle := func(ctx context.Context) error {
		a, err := s.aggregator.Aggregate(ctx, period, settings)
		if err != nil {
			return err
		}
		if err := s.materializer.Materialize(ctx, a); err != nil {
			return err
		}
		agg = a
		return nil
	}

	if s.locker != nil {
		err = s.locker.WithPeriodLock(ctx, period, cycle)
	} else {
		err = cycle(ctx)
	}
	if err != nil {
		log.Error().Err(err).Msg("Period recompute failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrRecomputeFailed, err)
	}

	log.Debug().
		Str("total_spent", agg.TotalSpent.StringFixed(2)).
		Int("expenses", len(agg.PerExpense)).
		Msg("Period recomputed")

	result := &RecomputeResult{
		Start:         period.Start,
		End:           period.End,
		MonthStartDay: settings.MonthStartDay,
		Aggregate:     agg,
	}
	s.publishEvent(websocket.PeriodRecomputed(map[string]interface{}{
		"start":           period.StartString(),
		"end":             period.EndString(),
		"monthStartDay":   settings.MonthStartDay,
		"totalSpent":      agg.TotalSpent.StringFixed(2),
		"remainingSalary": agg.RemainingSalary.StringFixed(2),
	}))
	return result, nil
}

// EnsurePeriod makes sure projection rows exist for the period containing date.
// It runs the same cycle as Recompute and is safe to call repeatedly.
func (s *RecomputeService) EnsurePeriod(ctx context.Context, date time.Time) (*RecomputeResult, error) {
	return s.Recompute(ctx, date)
}

// RecomputeDates recomputes every distinct period touched by the given dates, in order.
// The first failure is returned after all periods have been attempted.
func (s *RecomputeService) RecomputeDates(ctx context.Context, dates ...time.Time) error {
	seen := make(map[string]bool, len(dates))
	var firstErr error
	for _, d := range dates {
		period, _, err := s.ResolveForDate(ctx, d)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %w", domain.ErrRecomputeFailed, err)
			}
			continue
		}
		if seen[period.Key()] {
			continue
		}
		seen[period.Key()] = true
		if _, err := s.Recompute(ctx, d); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *RecomputeService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}
