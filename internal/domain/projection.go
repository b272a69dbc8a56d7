package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpensePeriodTotal is the materialized per-expense total for one period.
// Unique per (ExpenseID, PeriodStart, PeriodEnd) and always reconstructable from source rows.
type ExpensePeriodTotal struct {
	ExpenseID   uuid.UUID       `json:"expenseId"`
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	Consumed    decimal.Decimal `json:"consumed"`
	Remaining   decimal.Decimal `json:"remaining"`
	PctUsed     decimal.Decimal `json:"pctUsed"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// PeriodSummary is the materialized household summary for one period, unique per (PeriodStart, PeriodEnd)
type PeriodSummary struct {
	PeriodStart     time.Time       `json:"periodStart"`
	PeriodEnd       time.Time       `json:"periodEnd"`
	Salary          decimal.Decimal `json:"salary"`
	TotalSpent      decimal.Decimal `json:"totalSpent"`
	RemainingSalary decimal.Decimal `json:"remainingSalary"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Period returns the natural key of the summary as a BillingPeriod
func (s *PeriodSummary) Period() BillingPeriod {
	return BillingPeriod{Start: s.PeriodStart, End: s.PeriodEnd}
}

// ProjectionRepository persists the materialized projections.
// Upserts overwrite every value column; rows whose values are unchanged keep their UpdatedAt.
type ProjectionRepository interface {
	UpsertExpenseTotals(ctx context.Context, totals []*ExpensePeriodTotal) error
	UpsertPeriodSummary(ctx context.Context, summary *PeriodSummary) error
	// DeleteExpenseTotalsExcept removes the period's per-expense rows whose expense is not in keep
	DeleteExpenseTotalsExcept(ctx context.Context, period BillingPeriod, keep []uuid.UUID) error
	GetExpenseTotal(ctx context.Context, expenseID uuid.UUID, period BillingPeriod) (*ExpensePeriodTotal, error)
	GetExpenseTotalsByPeriod(ctx context.Context, period BillingPeriod) ([]*ExpensePeriodTotal, error)
	GetPeriodSummary(ctx context.Context, period BillingPeriod) (*PeriodSummary, error)
	// ListPeriodSummaries returns summaries ordered by PeriodStart descending
	ListPeriodSummaries(ctx context.Context, limit int) ([]*PeriodSummary, error)
}
