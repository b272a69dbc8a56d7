package service

import (
	"context"
	"testing"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettings_FillsDefaultStartDay(t *testing.T) {
	f := newEngineFixture(t, "1000", 0, "2024-03-10")
	svc := NewSettingsService(f.settingsRepo, f.recompute)

	settings, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMonthStartDay, settings.MonthStartDay)
	assert.Equal(t, "1000.00", settings.Salary.StringFixed(2))
}

func TestUpdateSettings_RecomputesUnderNewSettings(t *testing.T) {
	f := newEngineFixture(t, "1000", 28, "2024-03-10")
	svc := NewSettingsService(f.settingsRepo, f.recompute)
	svc.SetEventPublisher(f.publisher)

	salary := dec(t, "2500")
	day := 5
	m, err := svc.UpdateSettings(context.Background(), UpdateSettingsInput{Salary: &salary, MonthStartDay: &day})
	require.NoError(t, err)
	require.NoError(t, m.RecomputeErr)

	assert.Equal(t, 5, m.Result.MonthStartDay)
	summary, err := f.projectionRepo.GetPeriodSummary(context.Background(), period(t, "2024-03-05", "2024-04-05"))
	require.NoError(t, err)
	assert.Equal(t, "2500.00", summary.Salary.StringFixed(2))
	assert.Equal(t, []string{"settings.updated", "period.recomputed"}, f.publisher.Types())
}

func TestUpdateSettings_Validation(t *testing.T) {
	f := newEngineFixture(t, "1000", 28, "2024-03-10")
	svc := NewSettingsService(f.settingsRepo, f.recompute)

	negative := dec(t, "-1")
	zeroDay, lateDay := 0, 29

	_, err := svc.UpdateSettings(context.Background(), UpdateSettingsInput{Salary: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidSalary)

	_, err = svc.UpdateSettings(context.Background(), UpdateSettingsInput{MonthStartDay: &zeroDay})
	assert.ErrorIs(t, err, domain.ErrInvalidStartDay)

	_, err = svc.UpdateSettings(context.Background(), UpdateSettingsInput{MonthStartDay: &lateDay})
	assert.ErrorIs(t, err, domain.ErrInvalidStartDay)

	_, err = svc.UpdateSettings(context.Background(), UpdateSettingsInput{})
	assert.ErrorIs(t, err, domain.ErrNothingToUpdate)

	zero := dec(t, "0")
	_, err = svc.UpdateSettings(context.Background(), UpdateSettingsInput{Salary: &zero})
	assert.NoError(t, err, "zero salary is allowed")
}
