package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/util"
	"github.com/dafibh/fortuna/budget-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const snapshotReportTitle = "Monthly Expense Report"

// SnapshotService freezes period totals into monthly snapshots
type SnapshotService struct {
	snapshotRepo     domain.SnapshotRepository
	consumptionRepo  domain.ConsumptionRepository
	aggregator       *AggregationService
	recomputeService *RecomputeService
	reportStore      domain.ReportStore
	eventPublisher   websocket.EventPublisher
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(
	snapshotRepo domain.SnapshotRepository,
	consumptionRepo domain.ConsumptionRepository,
	aggregator *AggregationService,
	recomputeService *RecomputeService,
) *SnapshotService {
	return &SnapshotService{
		snapshotRepo:     snapshotRepo,
		consumptionRepo:  consumptionRepo,
		aggregator:       aggregator,
		recomputeService: recomputeService,
	}
}

// SetReportStore enables archiving of snapshot reports
func (s *SnapshotService) SetReportStore(store domain.ReportStore) {
	s.reportStore = store
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SnapshotService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateSnapshot freezes the current period. Every consumption in the window counts,
// including those of categories deactivated since. A period can be frozen once.
func (s *SnapshotService) CreateSnapshot(ctx context.Context) (*domain.MonthlySnapshot, error) {
	settings, err := s.recomputeService.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	period := util.ResolvePeriod(s.recomputeService.Today(), settings.MonthStartDay)

	existing, err := s.snapshotRepo.GetByPeriod(ctx, period)
	if err != nil && !errors.Is(err, domain.ErrSnapshotNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSnapshotExists
	}

	entries, err := s.consumptionRepo.GetByDateRange(ctx, period.Start, period.End, nil)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(util.ParseAmount(e.Amount))
	}
	total = util.Round2(total)

	snapshot, err := s.snapshotRepo.Create(ctx, &domain.MonthlySnapshot{
		PeriodStart:   period.Start,
		PeriodEnd:     period.End,
		Salary:        settings.Salary,
		TotalConsumed: total,
		TotalSaved:    util.Round2(settings.Salary.Sub(total)),
	})
	if err != nil {
		return nil, err
	}

	if s.reportStore != nil {
		if key, err := s.archive(ctx, snapshot, period, settings); err != nil {
			log.Warn().
				Err(err).
				Str("period_start", period.StartString()).
				Msg("Failed to archive snapshot report")
		} else {
			snapshot.ArchiveKey = &key
		}
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.SnapshotCreated(snapshot))
	}
	return snapshot, nil
}

func (s *SnapshotService) archive(ctx context.Context, snapshot *domain.MonthlySnapshot, period domain.BillingPeriod, settings *domain.Settings) (string, error) {
	agg, err := s.aggregator.Aggregate(ctx, period, settings)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(domain.SnapshotReport{
		Title:       snapshotReportTitle,
		GeneratedAt: snapshot.CreatedAt,
		Snapshot:    snapshot,
		Expenses:    agg.PerExpense,
	})
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	key := domain.SnapshotArchiveKey(period)
	if err := s.reportStore.Put(ctx, key, body); err != nil {
		return "", err
	}
	if err := s.snapshotRepo.SetArchiveKey(ctx, snapshot.ID, key); err != nil {
		return "", err
	}
	return key, nil
}

// ListSnapshots returns every snapshot, newest period first
func (s *SnapshotService) ListSnapshots(ctx context.Context) ([]*domain.MonthlySnapshot, error) {
	return s.snapshotRepo.GetAll(ctx)
}

// GetLatestSnapshot returns the snapshot with the most recent period
func (s *SnapshotService) GetLatestSnapshot(ctx context.Context) (*domain.MonthlySnapshot, error) {
	return s.snapshotRepo.GetLatest(ctx)
}

// GetReport reads an archived snapshot report
func (s *SnapshotService) GetReport(ctx context.Context, period domain.BillingPeriod) (*domain.SnapshotReport, error) {
	if s.reportStore == nil {
		return nil, domain.ErrSnapshotNotFound
	}
	body, err := s.reportStore.Get(ctx, domain.SnapshotArchiveKey(period))
	if err != nil {
		return nil, err
	}
	var report domain.SnapshotReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}
