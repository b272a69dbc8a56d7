package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultMonthStartDay is used when no settings row or configuration override exists
	DefaultMonthStartDay = 28
	MinMonthStartDay     = 1
	MaxMonthStartDay     = 28
)

// Settings is the household singleton consumed by the period resolver and aggregator
type Settings struct {
	Salary        decimal.Decimal `json:"salary"`
	MonthStartDay int             `json:"monthStartDay"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// UpdateSettingsData holds the optional fields of a settings patch
type UpdateSettingsData struct {
	Salary        *decimal.Decimal
	MonthStartDay *int
}

// IsEmpty reports whether the patch changes nothing
func (d UpdateSettingsData) IsEmpty() bool {
	return d.Salary == nil && d.MonthStartDay == nil
}

type SettingsRepository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, data *UpdateSettingsData) (*Settings, error)
}
