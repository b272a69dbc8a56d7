package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConsumptionEntry is a single spend logged against an expense category
type ConsumptionEntry struct {
	ID        uuid.UUID       `json:"id"`
	ExpenseID uuid.UUID       `json:"expenseId"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Note      *string         `json:"note,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// UpdateConsumptionData holds the optional fields of an amendment
type UpdateConsumptionData struct {
	Amount *decimal.Decimal
	Date   *time.Time
	Note   *string
}

// IsEmpty reports whether the amendment changes nothing
func (d UpdateConsumptionData) IsEmpty() bool {
	return d.Amount == nil && d.Date == nil && d.Note == nil
}

// ConsumptionFilters narrows a period listing
type ConsumptionFilters struct {
	ExpenseID *uuid.UUID
}

type ConsumptionRepository interface {
	Create(ctx context.Context, entry *ConsumptionEntry) (*ConsumptionEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ConsumptionEntry, error)
	Update(ctx context.Context, id uuid.UUID, data *UpdateConsumptionData) (*ConsumptionEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// GetByDateRange returns entries with start <= date < end
	GetByDateRange(ctx context.Context, start, end time.Time, filters *ConsumptionFilters) ([]*ConsumptionEntry, error)
}
