package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository implements domain.SettingsRepository using PostgreSQL
type SettingsRepository struct {
	pool            *pgxpool.Pool
	defaultStartDay int
}

// NewSettingsRepository creates a new SettingsRepository.
// defaultStartDay seeds month_start_day when the first patch only sets the salary.
func NewSettingsRepository(pool *pgxpool.Pool, defaultStartDay int) *SettingsRepository {
	return &SettingsRepository{pool: pool, defaultStartDay: defaultStartDay}
}

// Get retrieves the settings singleton
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT salary, month_start_day, updated_at
		FROM settings
		WHERE id = 1`)

	s, err := scanSettings(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, err
	}
	return s, nil
}

// Update applies a patch, creating the singleton on first write
func (r *SettingsRepository) Update(ctx context.Context, data *domain.UpdateSettingsData) (*domain.Settings, error) {
	salary, err := decimalPtrToPgNumeric(data.Salary)
	if err != nil {
		return nil, err
	}
	startDay := pgtype.Int4{}
	if data.MonthStartDay != nil {
		startDay = pgtype.Int4{Int32: int32(*data.MonthStartDay), Valid: true}
	}

	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO settings (id, salary, month_start_day, updated_at)
		VALUES (1, COALESCE($1::numeric, 0), COALESCE($2::int, $3::int), NOW())
		ON CONFLICT (id) DO UPDATE SET
			salary = COALESCE($1::numeric, settings.salary),
			month_start_day = COALESCE($2::int, settings.month_start_day),
			updated_at = NOW()
		RETURNING salary, month_start_day, updated_at`,
		salary, startDay, int32(r.defaultStartDay))

	return scanSettings(row)
}

func scanSettings(row pgx.Row) (*domain.Settings, error) {
	var (
		salary    pgtype.Numeric
		startDay  int32
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&salary, &startDay, &updatedAt); err != nil {
		return nil, err
	}
	return &domain.Settings{
		Salary:        pgNumericToDecimal(salary),
		MonthStartDay: int(startDay),
		UpdatedAt:     updatedAt.Time,
	}, nil
}
