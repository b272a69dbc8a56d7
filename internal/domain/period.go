package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format for calendar dates
const DateLayout = "2006-01-02"

// BillingPeriod is a half-open date window [Start, End) anchored on the configured month start day.
// It is derived from settings and a reference date on every call and never stored as an entity.
type BillingPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartString returns the inclusive start as YYYY-MM-DD
func (p BillingPeriod) StartString() string {
	return p.Start.Format(DateLayout)
}

// EndString returns the exclusive end as YYYY-MM-DD
func (p BillingPeriod) EndString() string {
	return p.End.Format(DateLayout)
}

// Key identifies the period by both bounds
func (p BillingPeriod) Key() string {
	return p.StartString() + "_" + p.EndString()
}

// Contains reports whether the calendar day of t falls inside the window
func (p BillingPeriod) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(p.Start) && day.Before(p.End)
}

// Equal compares both bounds exactly
func (p BillingPeriod) Equal(other BillingPeriod) bool {
	return p.Start.Equal(other.Start) && p.End.Equal(other.End)
}

// ExpenseAggregate is the per-category result of aggregating one period
type ExpenseAggregate struct {
	ExpenseID     uuid.UUID       `json:"expenseId"`
	Name          string          `json:"name"`
	MonthlyBudget decimal.Decimal `json:"monthlyBudget"`
	Consumed      decimal.Decimal `json:"consumed"`
	Remaining     decimal.Decimal `json:"remaining"`
	PctUsed       decimal.Decimal `json:"pctUsed"`
}

// PeriodAggregate is the full result of aggregating one period
type PeriodAggregate struct {
	Period          BillingPeriod       `json:"period"`
	MonthStartDay   int                 `json:"monthStartDay"`
	PerExpense      []*ExpenseAggregate `json:"perExpense"`
	Salary          decimal.Decimal     `json:"salary"`
	TotalSpent      decimal.Decimal     `json:"totalSpent"`
	RemainingSalary decimal.Decimal     `json:"remainingSalary"`
}

// PeriodLocker serializes recompute cycles for the same period.
// fn runs inside a single store transaction; the context passed to fn carries that transaction.
type PeriodLocker interface {
	WithPeriodLock(ctx context.Context, period BillingPeriod, fn func(ctx context.Context) error) error
}
