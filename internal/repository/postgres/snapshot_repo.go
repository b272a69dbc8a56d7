package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const snapshotColumns = `id, period_start, period_end, salary, total_consumed, total_saved, archive_key, created_at`

// SnapshotRepository implements domain.SnapshotRepository using PostgreSQL
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Create inserts a snapshot. A second snapshot of the same period fails with ErrSnapshotExists.
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *domain.MonthlySnapshot) (*domain.MonthlySnapshot, error) {
	salary, err := decimalToPgNumeric(snapshot.Salary)
	if err != nil {
		return nil, err
	}
	consumed, err := decimalToPgNumeric(snapshot.TotalConsumed)
	if err != nil {
		return nil, err
	}
	saved, err := decimalToPgNumeric(snapshot.TotalSaved)
	if err != nil {
		return nil, err
	}

	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO monthly_snapshots (period_start, period_end, salary, total_consumed, total_saved, archive_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+snapshotColumns,
		timeToPgDate(snapshot.PeriodStart), timeToPgDate(snapshot.PeriodEnd),
		salary, consumed, saved, stringPtrToPgText(snapshot.ArchiveKey))

	created, err := scanSnapshot(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrSnapshotExists
		}
		return nil, err
	}
	return created, nil
}

// GetByPeriod retrieves the snapshot of one period
func (r *SnapshotRepository) GetByPeriod(ctx context.Context, period domain.BillingPeriod) (*domain.MonthlySnapshot, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+snapshotColumns+`
		FROM monthly_snapshots
		WHERE period_start = $1 AND period_end = $2`,
		timeToPgDate(period.Start), timeToPgDate(period.End))
	return r.one(row)
}

// GetLatest retrieves the snapshot with the latest period start
func (r *SnapshotRepository) GetLatest(ctx context.Context) (*domain.MonthlySnapshot, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+snapshotColumns+`
		FROM monthly_snapshots
		ORDER BY period_start DESC, created_at DESC
		LIMIT 1`)
	return r.one(row)
}

// GetAll returns every snapshot, newest period first
func (r *SnapshotRepository) GetAll(ctx context.Context) ([]*domain.MonthlySnapshot, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+snapshotColumns+`
		FROM monthly_snapshots
		ORDER BY period_start DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.MonthlySnapshot, 0)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// SetArchiveKey records where the snapshot report was archived
func (r *SnapshotRepository) SetArchiveKey(ctx context.Context, id int32, key string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE monthly_snapshots SET archive_key = $2 WHERE id = $1`, id, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSnapshotNotFound
	}
	return nil
}

func (r *SnapshotRepository) one(row pgx.Row) (*domain.MonthlySnapshot, error) {
	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}
	return s, nil
}

func scanSnapshot(row pgx.Row) (*domain.MonthlySnapshot, error) {
	var (
		id                      int32
		start, end              pgtype.Date
		salary, consumed, saved pgtype.Numeric
		archiveKey              pgtype.Text
		createdAt               time.Time
	)
	if err := row.Scan(&id, &start, &end, &salary, &consumed, &saved, &archiveKey, &createdAt); err != nil {
		return nil, err
	}
	return &domain.MonthlySnapshot{
		ID:            id,
		PeriodStart:   pgDateToTime(start),
		PeriodEnd:     pgDateToTime(end),
		Salary:        pgNumericToDecimal(salary),
		TotalConsumed: pgNumericToDecimal(consumed),
		TotalSaved:    pgNumericToDecimal(saved),
		ArchiveKey:    pgTextToStringPtr(archiveKey),
		CreatedAt:     createdAt,
	}, nil
}
