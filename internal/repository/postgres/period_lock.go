package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PeriodLocker serializes recompute cycles of one period across processes.
// The advisory lock is transaction scoped, so it is released on commit or rollback.
type PeriodLocker struct {
	pool *pgxpool.Pool
}

// NewPeriodLocker creates a new PeriodLocker
func NewPeriodLocker(pool *pgxpool.Pool) *PeriodLocker {
	return &PeriodLocker{pool: pool}
}

// WithPeriodLock runs fn inside a transaction holding the period's advisory lock.
// Repository calls made with the context passed to fn join that transaction.
func (l *PeriodLocker) WithPeriodLock(ctx context.Context, period domain.BillingPeriod, fn func(ctx context.Context) error) error {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin period transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "period:"+period.Key()); err != nil {
		return fmt.Errorf("acquire period lock: %w", err)
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

