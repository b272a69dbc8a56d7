package service

import (
	"context"
	"strings"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/util"
	"github.com/dafibh/fortuna/budget-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseService handles expense category business logic
type ExpenseService struct {
	expenseRepo      domain.ExpenseRepository
	aggregator       *AggregationService
	recomputeService *RecomputeService
	eventPublisher   websocket.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, aggregator *AggregationService, recomputeService *RecomputeService) *ExpenseService {
	return &ExpenseService{
		expenseRepo:      expenseRepo,
		aggregator:       aggregator,
		recomputeService: recomputeService,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ExpenseService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateExpenseInput holds the input for creating an expense category
type CreateExpenseInput struct {
	Name          string
	MonthlyBudget decimal.Decimal
}

// CreateExpense creates an active expense category and refreshes the current period
func (s *ExpenseService) CreateExpense(ctx context.Context, input CreateExpenseInput) (Mutation[*domain.ExpenseCategory], error) {
	var out Mutation[*domain.ExpenseCategory]

	name, err := validateExpenseName(input.Name)
	if err != nil {
		return out, err
	}
	if !input.MonthlyBudget.IsPositive() {
		return out, domain.ErrInvalidBudget
	}

	created, err := s.expenseRepo.Create(ctx, &domain.ExpenseCategory{
		Name:          name,
		MonthlyBudget: input.MonthlyBudget,
		Active:        true,
	})
	if err != nil {
		return out, err
	}
	out.Result = created
	s.publishEvent(websocket.ExpenseCreated(created))

	out.RecomputeErr = s.recomputeCurrent(ctx, created.ID)
	return out, nil
}

// ListExpenses returns active categories with consumed, remaining and pctUsed for the current period
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]*domain.ExpenseWithMetrics, domain.BillingPeriod, error) {
	settings, err := s.recomputeService.LoadSettings(ctx)
	if err != nil {
		return nil, domain.BillingPeriod{}, err
	}
	period := util.ResolvePeriod(s.recomputeService.Today(), settings.MonthStartDay)

	expenses, err := s.expenseRepo.GetActive(ctx)
	if err != nil {
		return nil, period, err
	}

	agg, err := s.aggregator.Aggregate(ctx, period, settings)
	if err != nil {
		return nil, period, err
	}
	byID := make(map[uuid.UUID]*domain.ExpenseAggregate, len(agg.PerExpense))
	for _, e := range agg.PerExpense {
		byID[e.ExpenseID] = e
	}

	result := make([]*domain.ExpenseWithMetrics, 0, len(expenses))
	for _, exp := range expenses {
		item := &domain.ExpenseWithMetrics{
			ExpenseCategory: *exp,
			Remaining:       exp.MonthlyBudget,
		}
		if m, ok := byID[exp.ID]; ok {
			item.Consumed = m.Consumed
			item.Remaining = m.Remaining
			item.PctUsed = m.PctUsed
		}
		result = append(result, item)
	}
	return result, period, nil
}

// GetExpense retrieves an expense category by ID
func (s *ExpenseService) GetExpense(ctx context.Context, id uuid.UUID) (*domain.ExpenseCategory, error) {
	return s.expenseRepo.GetByID(ctx, id)
}

// UpdateExpenseInput holds the optional fields of an expense patch
type UpdateExpenseInput struct {
	Name          *string
	MonthlyBudget *decimal.Decimal
	Active        *bool
}

// UpdateExpense patches a category. Budget and activity changes refresh the current period.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id uuid.UUID, input UpdateExpenseInput) (Mutation[*domain.ExpenseCategory], error) {
	var out Mutation[*domain.ExpenseCategory]

	data := &domain.UpdateExpenseData{
		MonthlyBudget: input.MonthlyBudget,
		Active:        input.Active,
	}
	if input.Name != nil {
		name, err := validateExpenseName(*input.Name)
		if err != nil {
			return out, err
		}
		data.Name = &name
	}
	if input.MonthlyBudget != nil && !input.MonthlyBudget.IsPositive() {
		return out, domain.ErrInvalidBudget
	}
	if data.IsEmpty() {
		return out, domain.ErrNothingToUpdate
	}

	updated, err := s.expenseRepo.Update(ctx, id, data)
	if err != nil {
		return out, err
	}
	out.Result = updated
	s.publishEvent(websocket.ExpenseUpdated(updated))

	if data.MonthlyBudget != nil || data.Active != nil {
		out.RecomputeErr = s.recomputeCurrent(ctx, id)
	}
	return out, nil
}

// DeleteExpense soft deletes a category. Its consumptions are kept but no longer aggregated.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID) (Mutation[uuid.UUID], error) {
	out := Mutation[uuid.UUID]{Result: id}

	if err := s.expenseRepo.Deactivate(ctx, id); err != nil {
		return out, err
	}
	s.publishEvent(websocket.ExpenseDeleted(map[string]interface{}{"id": id}))

	out.RecomputeErr = s.recomputeCurrent(ctx, id)
	return out, nil
}

func (s *ExpenseService) recomputeCurrent(ctx context.Context, id uuid.UUID) error {
	_, err := s.recomputeService.Recompute(ctx, s.recomputeService.Today())
	if err != nil {
		log.Error().
			Err(err).
			Str("expense_id", id.String()).
			Msg("Expense saved but period recompute failed")
	}
	return err
}

func validateExpenseName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxExpenseNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}
