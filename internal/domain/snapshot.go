package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySnapshot freezes a period's salary and spending at the moment it was taken
type MonthlySnapshot struct {
	ID            int32           `json:"id"`
	PeriodStart   time.Time       `json:"periodStart"`
	PeriodEnd     time.Time       `json:"periodEnd"`
	Salary        decimal.Decimal `json:"salary"`
	TotalConsumed decimal.Decimal `json:"totalConsumed"`
	TotalSaved    decimal.Decimal `json:"totalSaved"`
	ArchiveKey    *string         `json:"archiveKey,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *MonthlySnapshot) (*MonthlySnapshot, error)
	GetByPeriod(ctx context.Context, period BillingPeriod) (*MonthlySnapshot, error)
	GetLatest(ctx context.Context) (*MonthlySnapshot, error)
	GetAll(ctx context.Context) ([]*MonthlySnapshot, error)
	SetArchiveKey(ctx context.Context, id int32, key string) error
}

// ReportStore archives rendered snapshot reports outside the record store
type ReportStore interface {
	Put(ctx context.Context, key string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// SnapshotReport is the archived document written alongside a snapshot
type SnapshotReport struct {
	Title       string              `json:"title"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Snapshot    *MonthlySnapshot    `json:"snapshot"`
	Expenses    []*ExpenseAggregate `json:"expenses"`
}

// SnapshotArchiveKey is the object key of a period's archived report
func SnapshotArchiveKey(period BillingPeriod) string {
	return "snapshots/" + period.Key() + ".json"
}
