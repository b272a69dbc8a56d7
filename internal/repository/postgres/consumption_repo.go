package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const consumptionColumns = `id, expense_id, amount, date, note, created_at`

// ConsumptionRepository implements domain.ConsumptionRepository using PostgreSQL
type ConsumptionRepository struct {
	pool *pgxpool.Pool
}

// NewConsumptionRepository creates a new ConsumptionRepository
func NewConsumptionRepository(pool *pgxpool.Pool) *ConsumptionRepository {
	return &ConsumptionRepository{pool: pool}
}

// Create inserts a consumption entry
func (r *ConsumptionRepository) Create(ctx context.Context, entry *domain.ConsumptionEntry) (*domain.ConsumptionEntry, error) {
	amount, err := decimalToPgNumeric(entry.Amount)
	if err != nil {
		return nil, err
	}
	id := entry.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO consumptions (id, expense_id, amount, date, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+consumptionColumns,
		uuidToPg(id), uuidToPg(entry.ExpenseID), amount, timeToPgDate(entry.Date), stringPtrToPgText(entry.Note))

	return scanConsumption(row)
}

// GetByID retrieves a consumption entry
func (r *ConsumptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ConsumptionEntry, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+consumptionColumns+`
		FROM consumptions
		WHERE id = $1`, uuidToPg(id))

	c, err := scanConsumption(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConsumptionNotFound
		}
		return nil, err
	}
	return c, nil
}

// Update amends an entry. Absent fields keep their stored value; an empty note clears it.
func (r *ConsumptionRepository) Update(ctx context.Context, id uuid.UUID, data *domain.UpdateConsumptionData) (*domain.ConsumptionEntry, error) {
	amount, err := decimalPtrToPgNumeric(data.Amount)
	if err != nil {
		return nil, err
	}

	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE consumptions SET
			amount = COALESCE($2::numeric, amount),
			date = COALESCE($3::date, date),
			note = CASE WHEN $4::text IS NULL THEN note ELSE NULLIF($4::text, '') END
		WHERE id = $1
		RETURNING `+consumptionColumns,
		uuidToPg(id), amount, timePtrToPgDate(data.Date), stringPtrToPgText(data.Note))

	c, err := scanConsumption(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConsumptionNotFound
		}
		return nil, err
	}
	return c, nil
}

// Delete removes an entry
func (r *ConsumptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM consumptions WHERE id = $1`, uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConsumptionNotFound
	}
	return nil
}

// GetByDateRange returns entries with start <= date < end ordered by date
func (r *ConsumptionRepository) GetByDateRange(ctx context.Context, start, end time.Time, filters *domain.ConsumptionFilters) ([]*domain.ConsumptionEntry, error) {
	var expenseID *uuid.UUID
	if filters != nil {
		expenseID = filters.ExpenseID
	}

	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+consumptionColumns+`
		FROM consumptions
		WHERE date >= $1 AND date < $2
		  AND ($3::uuid IS NULL OR expense_id = $3::uuid)
		ORDER BY date, created_at`,
		timeToPgDate(start), timeToPgDate(end), uuidPtrToPg(expenseID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.ConsumptionEntry, 0)
	for rows.Next() {
		c, err := scanConsumption(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func scanConsumption(row pgx.Row) (*domain.ConsumptionEntry, error) {
	var (
		id        pgtype.UUID
		expenseID pgtype.UUID
		amount    pgtype.Numeric
		date      pgtype.Date
		note      pgtype.Text
		createdAt time.Time
	)
	if err := row.Scan(&id, &expenseID, &amount, &date, &note, &createdAt); err != nil {
		return nil, err
	}
	return &domain.ConsumptionEntry{
		ID:        uuid.UUID(id.Bytes),
		ExpenseID: uuid.UUID(expenseID.Bytes),
		Amount:    pgNumericToDecimal(amount),
		Date:      pgDateToTime(date),
		Note:      pgTextToStringPtr(note),
		CreatedAt: createdAt,
	}, nil
}
