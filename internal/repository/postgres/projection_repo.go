package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Rows whose values already match keep their updated_at.
const upsertExpenseTotalSQL = `
	INSERT INTO expense_period_totals (expense_id, period_start, period_end, consumed, remaining, pct_used, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	ON CONFLICT (expense_id, period_start, period_end) DO UPDATE SET
		consumed = EXCLUDED.consumed,
		remaining = EXCLUDED.remaining,
		pct_used = EXCLUDED.pct_used,
		updated_at = NOW()
	WHERE (expense_period_totals.consumed, expense_period_totals.remaining, expense_period_totals.pct_used)
		IS DISTINCT FROM (EXCLUDED.consumed, EXCLUDED.remaining, EXCLUDED.pct_used)`

const upsertPeriodSummarySQL = `
	INSERT INTO period_summaries (period_start, period_end, salary, total_spent, remaining_salary, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (period_start, period_end) DO UPDATE SET
		salary = EXCLUDED.salary,
		total_spent = EXCLUDED.total_spent,
		remaining_salary = EXCLUDED.remaining_salary,
		updated_at = NOW()
	WHERE (period_summaries.salary, period_summaries.total_spent, period_summaries.remaining_salary)
		IS DISTINCT FROM (EXCLUDED.salary, EXCLUDED.total_spent, EXCLUDED.remaining_salary)`

const expenseTotalColumns = `expense_id, period_start, period_end, consumed, remaining, pct_used, updated_at`
const periodSummaryColumns = `period_start, period_end, salary, total_spent, remaining_salary, updated_at`

// ProjectionRepository implements domain.ProjectionRepository using PostgreSQL
type ProjectionRepository struct {
	pool *pgxpool.Pool
}

// NewProjectionRepository creates a new ProjectionRepository
func NewProjectionRepository(pool *pgxpool.Pool) *ProjectionRepository {
	return &ProjectionRepository{pool: pool}
}

// UpsertExpenseTotals writes every total in one batch
func (r *ProjectionRepository) UpsertExpenseTotals(ctx context.Context, totals []*domain.ExpensePeriodTotal) error {
	if len(totals) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, t := range totals {
		consumed, err := decimalToPgNumeric(t.Consumed)
		if err != nil {
			return err
		}
		remaining, err := decimalToPgNumeric(t.Remaining)
		if err != nil {
			return err
		}
		pct, err := decimalToPgNumeric(t.PctUsed)
		if err != nil {
			return err
		}
		batch.Queue(upsertExpenseTotalSQL,
			uuidToPg(t.ExpenseID), timeToPgDate(t.PeriodStart), timeToPgDate(t.PeriodEnd),
			consumed, remaining, pct)
	}

	results := conn(ctx, r.pool).SendBatch(ctx, batch)
	for i := range totals {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("upsert expense total %s: %w", totals[i].ExpenseID, err)
		}
	}
	return results.Close()
}

// UpsertPeriodSummary writes the household summary of one period
func (r *ProjectionRepository) UpsertPeriodSummary(ctx context.Context, summary *domain.PeriodSummary) error {
	salary, err := decimalToPgNumeric(summary.Salary)
	if err != nil {
		return err
	}
	spent, err := decimalToPgNumeric(summary.TotalSpent)
	if err != nil {
		return err
	}
	remaining, err := decimalToPgNumeric(summary.RemainingSalary)
	if err != nil {
		return err
	}

	_, err = conn(ctx, r.pool).Exec(ctx, upsertPeriodSummarySQL,
		timeToPgDate(summary.PeriodStart), timeToPgDate(summary.PeriodEnd), salary, spent, remaining)
	return err
}

// DeleteExpenseTotalsExcept drops the period's rows for expenses outside keep,
// such as categories deactivated since the last recompute
func (r *ProjectionRepository) DeleteExpenseTotalsExcept(ctx context.Context, period domain.BillingPeriod, keep []uuid.UUID) error {
	ids := make([]pgtype.UUID, 0, len(keep))
	for _, id := range keep {
		ids = append(ids, uuidToPg(id))
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		DELETE FROM expense_period_totals
		WHERE period_start = $1 AND period_end = $2 AND NOT (expense_id = ANY($3))`,
		timeToPgDate(period.Start), timeToPgDate(period.End), ids)
	return err
}

// GetExpenseTotal retrieves one expense's total for a period
func (r *ProjectionRepository) GetExpenseTotal(ctx context.Context, expenseID uuid.UUID, period domain.BillingPeriod) (*domain.ExpensePeriodTotal, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+expenseTotalColumns+`
		FROM expense_period_totals
		WHERE expense_id = $1 AND period_start = $2 AND period_end = $3`,
		uuidToPg(expenseID), timeToPgDate(period.Start), timeToPgDate(period.End))

	t, err := scanExpenseTotal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPeriodNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetExpenseTotalsByPeriod retrieves every expense total stored for a period
func (r *ProjectionRepository) GetExpenseTotalsByPeriod(ctx context.Context, period domain.BillingPeriod) ([]*domain.ExpensePeriodTotal, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT t.expense_id, t.period_start, t.period_end, t.consumed, t.remaining, t.pct_used, t.updated_at
		FROM expense_period_totals t
		JOIN expenses e ON e.id = t.expense_id
		WHERE t.period_start = $1 AND t.period_end = $2 AND e.active
		ORDER BY e.created_at, e.name`,
		timeToPgDate(period.Start), timeToPgDate(period.End))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.ExpensePeriodTotal, 0)
	for rows.Next() {
		t, err := scanExpenseTotal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// GetPeriodSummary retrieves the summary of a period by its natural key
func (r *ProjectionRepository) GetPeriodSummary(ctx context.Context, period domain.BillingPeriod) (*domain.PeriodSummary, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+periodSummaryColumns+`
		FROM period_summaries
		WHERE period_start = $1 AND period_end = $2`,
		timeToPgDate(period.Start), timeToPgDate(period.End))

	s, err := scanPeriodSummary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPeriodNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListPeriodSummaries returns summaries ordered by period start descending
func (r *ProjectionRepository) ListPeriodSummaries(ctx context.Context, limit int) ([]*domain.PeriodSummary, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+periodSummaryColumns+`
		FROM period_summaries
		ORDER BY period_start DESC, period_end DESC
		LIMIT $1`, int32(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.PeriodSummary, 0)
	for rows.Next() {
		s, err := scanPeriodSummary(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func scanExpenseTotal(row pgx.Row) (*domain.ExpensePeriodTotal, error) {
	var (
		expenseID           pgtype.UUID
		start, end          pgtype.Date
		consumed, remaining pgtype.Numeric
		pct                 pgtype.Numeric
		updatedAt           time.Time
	)
	if err := row.Scan(&expenseID, &start, &end, &consumed, &remaining, &pct, &updatedAt); err != nil {
		return nil, err
	}
	return &domain.ExpensePeriodTotal{
		ExpenseID:   uuid.UUID(expenseID.Bytes),
		PeriodStart: pgDateToTime(start),
		PeriodEnd:   pgDateToTime(end),
		Consumed:    pgNumericToDecimal(consumed),
		Remaining:   pgNumericToDecimal(remaining),
		PctUsed:     pgNumericToDecimal(pct),
		UpdatedAt:   updatedAt,
	}, nil
}

func scanPeriodSummary(row pgx.Row) (*domain.PeriodSummary, error) {
	var (
		start, end               pgtype.Date
		salary, spent, remaining pgtype.Numeric
		updatedAt                time.Time
	)
	if err := row.Scan(&start, &end, &salary, &spent, &remaining, &updatedAt); err != nil {
		return nil, err
	}
	return &domain.PeriodSummary{
		PeriodStart:     pgDateToTime(start),
		PeriodEnd:       pgDateToTime(end),
		Salary:          pgNumericToDecimal(salary),
		TotalSpent:      pgNumericToDecimal(spent),
		RemainingSalary: pgNumericToDecimal(remaining),
		UpdatedAt:       updatedAt,
	}, nil
}
