package domain

import "github.com/shopspring/decimal"

// PieSlice is one category's share of the period's spending
type PieSlice struct {
	ExpenseID string          `json:"expenseId"`
	Name      string          `json:"name"`
	Consumed  decimal.Decimal `json:"consumed"`
}

// DashboardSummary is the live summary of the current period
type DashboardSummary struct {
	Period        BillingPeriod   `json:"period"`
	MonthStartDay int             `json:"monthStartDay"`
	Salary        decimal.Decimal `json:"salary"`
	TotalConsumed decimal.Decimal `json:"totalConsumed"`
	Savings       decimal.Decimal `json:"savings"`
	Pie           []PieSlice      `json:"pie"`
}

// PeriodDetail is a materialized period with its per-expense rows
type PeriodDetail struct {
	Summary *PeriodSummary        `json:"summary"`
	Totals  []*ExpensePeriodTotal `json:"totals"`
	// Closed is set once today has reached the period's end
	Closed bool `json:"closed"`
}
