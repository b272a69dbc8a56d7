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

const expenseColumns = `id, name, monthly_budget, active, created_at, updated_at`

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts a new expense category
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	budget, err := decimalToPgNumeric(expense.MonthlyBudget)
	if err != nil {
		return nil, err
	}
	id := expense.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO expenses (id, name, monthly_budget, active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+expenseColumns,
		uuidToPg(id), expense.Name, budget, expense.Active)

	return scanExpense(row)
}

// GetByID retrieves an expense category by ID, active or not
func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExpenseCategory, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE id = $1`, uuidToPg(id))

	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return e, nil
}

// GetActive retrieves active expense categories ordered by creation time
func (r *ExpenseRepository) GetActive(ctx context.Context) ([]*domain.ExpenseCategory, error) {
	return r.list(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE active
		ORDER BY created_at, name`)
}

// GetAll retrieves every expense category ordered by creation time
func (r *ExpenseRepository) GetAll(ctx context.Context) ([]*domain.ExpenseCategory, error) {
	return r.list(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		ORDER BY created_at, name`)
}

// Update applies a patch. Absent fields keep their stored value.
func (r *ExpenseRepository) Update(ctx context.Context, id uuid.UUID, data *domain.UpdateExpenseData) (*domain.ExpenseCategory, error) {
	budget, err := decimalPtrToPgNumeric(data.MonthlyBudget)
	if err != nil {
		return nil, err
	}
	active := pgtype.Bool{}
	if data.Active != nil {
		active = pgtype.Bool{Bool: *data.Active, Valid: true}
	}

	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE expenses SET
			name = COALESCE($2::text, name),
			monthly_budget = COALESCE($3::numeric, monthly_budget),
			active = COALESCE($4::boolean, active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+expenseColumns,
		uuidToPg(id), stringPtrToPgText(data.Name), budget, active)

	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return e, nil
}

// Deactivate soft deletes an expense category
func (r *ExpenseRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE expenses SET active = FALSE, updated_at = NOW()
		WHERE id = $1`, uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) list(ctx context.Context, sql string, args ...any) ([]*domain.ExpenseCategory, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.ExpenseCategory, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.ExpenseCategory, error) {
	var (
		id        pgtype.UUID
		name      string
		budget    pgtype.Numeric
		active    bool
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &budget, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return &domain.ExpenseCategory{
		ID:            uuid.UUID(id.Bytes),
		Name:          name,
		MonthlyBudget: pgNumericToDecimal(budget),
		Active:        active,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}
