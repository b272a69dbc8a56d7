package service

import (
	"context"
	"strings"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/util"
	"github.com/dafibh/fortuna/budget-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ConsumptionService handles consumption entries and keeps the affected periods materialized
type ConsumptionService struct {
	consumptionRepo  domain.ConsumptionRepository
	expenseRepo      domain.ExpenseRepository
	recomputeService *RecomputeService
	eventPublisher   websocket.EventPublisher
}

// NewConsumptionService creates a new ConsumptionService
func NewConsumptionService(consumptionRepo domain.ConsumptionRepository, expenseRepo domain.ExpenseRepository, recomputeService *RecomputeService) *ConsumptionService {
	return &ConsumptionService{
		consumptionRepo:  consumptionRepo,
		expenseRepo:      expenseRepo,
		recomputeService: recomputeService,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ConsumptionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ConsumptionService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateConsumptionInput holds the input for logging a consumption
type CreateConsumptionInput struct {
	ExpenseID uuid.UUID
	Amount    decimal.Decimal
	Date      *time.Time
	Note      *string
}

// CreateConsumption logs a spend against an active expense and recomputes its period.
// A missing date means today.
func (s *ConsumptionService) CreateConsumption(ctx context.Context, input CreateConsumptionInput) (Mutation[*domain.ConsumptionEntry], error) {
	var out Mutation[*domain.ConsumptionEntry]

	if !input.Amount.IsPositive() {
		return out, domain.ErrInvalidAmount
	}
	note, err := normalizeNote(input.Note)
	if err != nil {
		return out, err
	}

	expense, err := s.expenseRepo.GetByID(ctx, input.ExpenseID)
	if err != nil {
		return out, err
	}
	if !expense.Active {
		return out, domain.ErrExpenseInactive
	}

	entryDate := s.recomputeService.Today()
	if input.Date != nil {
		entryDate = util.TruncateDay(*input.Date)
	}

	created, err := s.consumptionRepo.Create(ctx, &domain.ConsumptionEntry{
		ExpenseID: input.ExpenseID,
		Amount:    input.Amount,
		Date:      entryDate,
		Note:      note,
	})
	if err != nil {
		return out, err
	}
	out.Result = created
	s.publishEvent(websocket.ConsumptionCreated(created))

	out.RecomputeErr = s.recompute(ctx, created.ID, created.Date)
	return out, nil
}

// UpdateConsumptionInput holds the optional fields of an amendment
type UpdateConsumptionInput struct {
	Amount *decimal.Decimal
	Date   *time.Time
	Note   *string
}

// UpdateConsumption amends an entry. When the date moves into another period both periods are recomputed.
func (s *ConsumptionService) UpdateConsumption(ctx context.Context, id uuid.UUID, input UpdateConsumptionInput) (Mutation[*domain.ConsumptionEntry], error) {
	var out Mutation[*domain.ConsumptionEntry]

	data := &domain.UpdateConsumptionData{}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return out, domain.ErrInvalidAmount
		}
		data.Amount = input.Amount
	}
	if input.Date != nil {
		d := util.TruncateDay(*input.Date)
		data.Date = &d
	}
	if input.Note != nil {
		note := strings.TrimSpace(*input.Note)
		if len(note) > domain.MaxNoteLength {
			return out, domain.ErrNoteTooLong
		}
		data.Note = &note
	}
	if data.IsEmpty() {
		return out, domain.ErrNothingToUpdate
	}

	existing, err := s.consumptionRepo.GetByID(ctx, id)
	if err != nil {
		return out, err
	}

	updated, err := s.consumptionRepo.Update(ctx, id, data)
	if err != nil {
		return out, err
	}
	out.Result = updated
	s.publishEvent(websocket.ConsumptionUpdated(updated))

	out.RecomputeErr = s.recompute(ctx, id, existing.Date, updated.Date)
	return out, nil
}

// DeleteConsumption removes an entry and recomputes the period it belonged to
func (s *ConsumptionService) DeleteConsumption(ctx context.Context, id uuid.UUID) (Mutation[*domain.ConsumptionEntry], error) {
	var out Mutation[*domain.ConsumptionEntry]

	existing, err := s.consumptionRepo.GetByID(ctx, id)
	if err != nil {
		return out, err
	}

	if err := s.consumptionRepo.Delete(ctx, id); err != nil {
		return out, err
	}
	out.Result = existing
	s.publishEvent(websocket.ConsumptionDeleted(map[string]interface{}{"id": id}))

	out.RecomputeErr = s.recompute(ctx, id, existing.Date)
	return out, nil
}

// ListConsumptions returns the entries of the period containing date. A zero date means today.
func (s *ConsumptionService) ListConsumptions(ctx context.Context, date time.Time, expenseID *uuid.UUID) ([]*domain.ConsumptionEntry, domain.BillingPeriod, error) {
	if date.IsZero() {
		date = s.recomputeService.Today()
	}
	period, _, err := s.recomputeService.ResolveForDate(ctx, date)
	if err != nil {
		return nil, domain.BillingPeriod{}, err
	}

	entries, err := s.consumptionRepo.GetByDateRange(ctx, period.Start, period.End, &domain.ConsumptionFilters{ExpenseID: expenseID})
	if err != nil {
		return nil, period, err
	}
	return entries, period, nil
}

// GetConsumption retrieves a single entry
func (s *ConsumptionService) GetConsumption(ctx context.Context, id uuid.UUID) (*domain.ConsumptionEntry, error) {
	return s.consumptionRepo.GetByID(ctx, id)
}

func (s *ConsumptionService) recompute(ctx context.Context, id uuid.UUID, dates ...time.Time) error {
	err := s.recomputeService.RecomputeDates(ctx, dates...)
	if err != nil {
		log.Error().
			Err(err).
			Str("consumption_id", id.String()).
			Msg("Consumption saved but period recompute failed")
	}
	return err
}

func normalizeNote(note *string) (*string, error) {
	if note == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > domain.MaxNoteLength {
		return nil, domain.ErrNoteTooLong
	}
	return &trimmed, nil
}
