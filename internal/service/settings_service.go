package service

import (
	"context"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SettingsService handles the household settings singleton
type SettingsService struct {
	settingsRepo     domain.SettingsRepository
	recomputeService *RecomputeService
	eventPublisher   websocket.EventPublisher
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo domain.SettingsRepository, recomputeService *RecomputeService) *SettingsService {
	return &SettingsService{
		settingsRepo:     settingsRepo,
		recomputeService: recomputeService,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SettingsService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// GetSettings returns the settings, with the configured defaults filled in
func (s *SettingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return s.recomputeService.LoadSettings(ctx)
}

// UpdateSettingsInput holds the optional fields of a settings patch
type UpdateSettingsInput struct {
	Salary        *decimal.Decimal
	MonthStartDay *int
}

// UpdateSettings validates and applies a patch, then recomputes the period containing today
// under the new settings. Projections of windows that no longer match are left as they are.
func (s *SettingsService) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (Mutation[*domain.Settings], error) {
	var out Mutation[*domain.Settings]

	if input.Salary != nil && input.Salary.IsNegative() {
		return out, domain.ErrInvalidSalary
	}
	if input.MonthStartDay != nil {
		d := *input.MonthStartDay
		if d < domain.MinMonthStartDay || d > domain.MaxMonthStartDay {
			return out, domain.ErrInvalidStartDay
		}
	}

	data := &domain.UpdateSettingsData{
		Salary:        input.Salary,
		MonthStartDay: input.MonthStartDay,
	}
	if data.IsEmpty() {
		return out, domain.ErrNothingToUpdate
	}

	updated, err := s.settingsRepo.Update(ctx, data)
	if err != nil {
		return out, err
	}
	out.Result = updated
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.SettingsUpdated(updated))
	}

	if _, err := s.recomputeService.Recompute(ctx, s.recomputeService.Today()); err != nil {
		log.Error().Err(err).Msg("Settings saved but period recompute failed")
		out.RecomputeErr = err
	}
	return out, nil
}
