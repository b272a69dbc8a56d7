package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory is a recurring spending category with a monthly budget.
// Active=false is a soft delete: the row stays for historical aggregation.
type ExpenseCategory struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	MonthlyBudget decimal.Decimal `json:"monthlyBudget"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// UpdateExpenseData holds the optional fields of an expense patch
type UpdateExpenseData struct {
	Name          *string
	MonthlyBudget *decimal.Decimal
	Active        *bool
}

// IsEmpty reports whether the patch changes nothing
func (d UpdateExpenseData) IsEmpty() bool {
	return d.Name == nil && d.MonthlyBudget == nil && d.Active == nil
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *ExpenseCategory) (*ExpenseCategory, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ExpenseCategory, error)
	GetActive(ctx context.Context) ([]*ExpenseCategory, error)
	GetAll(ctx context.Context) ([]*ExpenseCategory, error)
	Update(ctx context.Context, id uuid.UUID, data *UpdateExpenseData) (*ExpenseCategory, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// ExpenseWithMetrics is an expense category enriched with its live totals for one period
type ExpenseWithMetrics struct {
	ExpenseCategory
	Consumed  decimal.Decimal `json:"consumed"`
	Remaining decimal.Decimal `json:"remaining"`
	PctUsed   decimal.Decimal `json:"pctUsed"`
}
