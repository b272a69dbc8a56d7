package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockSettingsRepository is a mock implementation of domain.SettingsRepository
type MockSettingsRepository struct {
	Settings *domain.Settings
	GetFn    func(ctx context.Context) (*domain.Settings, error)
	UpdateFn func(ctx context.Context, data *domain.UpdateSettingsData) (*domain.Settings, error)
	mu       sync.Mutex
}

// NewMockSettingsRepository creates a new MockSettingsRepository holding the given singleton
func NewMockSettingsRepository(salary decimal.Decimal, monthStartDay int) *MockSettingsRepository {
	return &MockSettingsRepository{
		Settings: &domain.Settings{
			Salary:        salary,
			MonthStartDay: monthStartDay,
			UpdatedAt:     time.Now(),
		},
	}
}

// Get returns the settings singleton
func (m *MockSettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Settings == nil {
		return nil, domain.ErrSettingsNotFound
	}
	s := *m.Settings
	return &s, nil
}

// Update applies a settings patch
func (m *MockSettingsRepository) Update(ctx context.Context, data *domain.UpdateSettingsData) (*domain.Settings, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Settings == nil {
		m.Settings = &domain.Settings{MonthStartDay: domain.DefaultMonthStartDay}
	}
	if data.Salary != nil {
		m.Settings.Salary = *data.Salary
	}
	if data.MonthStartDay != nil {
		m.Settings.MonthStartDay = *data.MonthStartDay
	}
	m.Settings.UpdatedAt = time.Now()
	s := *m.Settings
	return &s, nil
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses     map[uuid.UUID]*domain.ExpenseCategory
	CreateFn     func(ctx context.Context, expense *domain.ExpenseCategory) (*domain.ExpenseCategory, error)
	GetActiveFn  func(ctx context.Context) ([]*domain.ExpenseCategory, error)
	UpdateFn     func(ctx context.Context, id uuid.UUID, data *domain.UpdateExpenseData) (*domain.ExpenseCategory, error)
	DeactivateFn func(ctx context.Context, id uuid.UUID) error
	mu           sync.Mutex
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[uuid.UUID]*domain.ExpenseCategory),
	}
}

// Create creates a new expense category
func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Expenses {
		if e.Name == expense.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	created := *expense
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.Expenses[created.ID] = &created
	out := created
	return &out, nil
}

// GetByID retrieves an expense category by ID
func (m *MockExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExpenseCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.Expenses[id]; ok {
		out := *e
		return &out, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// GetActive retrieves active expense categories ordered by creation time
func (m *MockExpenseRepository) GetActive(ctx context.Context) ([]*domain.ExpenseCategory, error) {
	if m.GetActiveFn != nil {
		return m.GetActiveFn(ctx)
	}
	all, _ := m.GetAll(ctx)
	result := make([]*domain.ExpenseCategory, 0, len(all))
	for _, e := range all {
		if e.Active {
			result = append(result, e)
		}
	}
	return result, nil
}

// GetAll retrieves every expense category ordered by creation time
func (m *MockExpenseRepository) GetAll(ctx context.Context) ([]*domain.ExpenseCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.ExpenseCategory, 0, len(m.Expenses))
	for _, e := range m.Expenses {
		out := *e
		result = append(result, &out)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Name < result[j].Name
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Update applies an expense patch
func (m *MockExpenseRepository) Update(ctx context.Context, id uuid.UUID, data *domain.UpdateExpenseData) (*domain.ExpenseCategory, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	if data.Name != nil {
		e.Name = *data.Name
	}
	if data.MonthlyBudget != nil {
		e.MonthlyBudget = *data.MonthlyBudget
	}
	if data.Active != nil {
		e.Active = *data.Active
	}
	e.UpdatedAt = time.Now()
	out := *e
	return &out, nil
}

// Deactivate soft deletes an expense category
func (m *MockExpenseRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	if m.DeactivateFn != nil {
		return m.DeactivateFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Expenses[id]
	if !ok {
		return domain.ErrExpenseNotFound
	}
	e.Active = false
	e.UpdatedAt = time.Now()
	return nil
}

// AddExpense adds an expense category to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.ExpenseCategory) *domain.ExpenseCategory {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now()
	}
	m.Expenses[expense.ID] = expense
	return expense
}

// MockConsumptionRepository is a mock implementation of domain.ConsumptionRepository
type MockConsumptionRepository struct {
	Consumptions     map[uuid.UUID]*domain.ConsumptionEntry
	CreateFn         func(ctx context.Context, entry *domain.ConsumptionEntry) (*domain.ConsumptionEntry, error)
	DeleteFn         func(ctx context.Context, id uuid.UUID) error
	GetByDateRangeFn func(ctx context.Context, start, end time.Time, filters *domain.ConsumptionFilters) ([]*domain.ConsumptionEntry, error)
	mu               sync.Mutex
}

// NewMockConsumptionRepository creates a new MockConsumptionRepository
func NewMockConsumptionRepository() *MockConsumptionRepository {
	return &MockConsumptionRepository{
		Consumptions: make(map[uuid.UUID]*domain.ConsumptionEntry),
	}
}

// Create creates a new consumption entry
func (m *MockConsumptionRepository) Create(ctx context.Context, entry *domain.ConsumptionEntry) (*domain.ConsumptionEntry, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *entry
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	m.Consumptions[created.ID] = &created
	out := created
	return &out, nil
}

// GetByID retrieves a consumption entry by ID
func (m *MockConsumptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ConsumptionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Consumptions[id]; ok {
		out := *c
		return &out, nil
	}
	return nil, domain.ErrConsumptionNotFound
}

// Update applies an amendment
func (m *MockConsumptionRepository) Update(ctx context.Context, id uuid.UUID, data *domain.UpdateConsumptionData) (*domain.ConsumptionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Consumptions[id]
	if !ok {
		return nil, domain.ErrConsumptionNotFound
	}
	if data.Amount != nil {
		c.Amount = *data.Amount
	}
	if data.Date != nil {
		c.Date = *data.Date
	}
	if data.Note != nil {
		note := *data.Note
		c.Note = &note
	}
	out := *c
	return &out, nil
}

// Delete removes a consumption entry
func (m *MockConsumptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Consumptions[id]; !ok {
		return domain.ErrConsumptionNotFound
	}
	delete(m.Consumptions, id)
	return nil
}

// GetByDateRange returns entries with start <= date < end ordered by date
func (m *MockConsumptionRepository) GetByDateRange(ctx context.Context, start, end time.Time, filters *domain.ConsumptionFilters) ([]*domain.ConsumptionEntry, error) {
	if m.GetByDateRangeFn != nil {
		return m.GetByDateRangeFn(ctx, start, end, filters)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.ConsumptionEntry
	for _, c := range m.Consumptions {
		if c.Date.Before(start) || !c.Date.Before(end) {
			continue
		}
		if filters != nil && filters.ExpenseID != nil && c.ExpenseID != *filters.ExpenseID {
			continue
		}
		out := *c
		result = append(result, &out)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// AddConsumption adds a consumption entry to the mock repository (helper for tests)
func (m *MockConsumptionRepository) AddConsumption(entry *domain.ConsumptionEntry) *domain.ConsumptionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m.Consumptions[entry.ID] = entry
	return entry
}

// MockProjectionRepository is a mock implementation of domain.ProjectionRepository
type MockProjectionRepository struct {
	Totals                      map[string]*domain.ExpensePeriodTotal
	Summaries                   map[string]*domain.PeriodSummary
	UpsertExpenseTotalsFn       func(ctx context.Context, totals []*domain.ExpensePeriodTotal) error
	UpsertPeriodSummaryFn       func(ctx context.Context, summary *domain.PeriodSummary) error
	DeleteExpenseTotalsExceptFn func(ctx context.Context, period domain.BillingPeriod, keep []uuid.UUID) error
	UpsertCalls                 int
	Now                         func() time.Time
	mu                          sync.Mutex
}

// NewMockProjectionRepository creates a new MockProjectionRepository
func NewMockProjectionRepository() *MockProjectionRepository {
	return &MockProjectionRepository{
		Totals:    make(map[string]*domain.ExpensePeriodTotal),
		Summaries: make(map[string]*domain.PeriodSummary),
		Now:       time.Now,
	}
}

func totalKey(expenseID uuid.UUID, period domain.BillingPeriod) string {
	return expenseID.String() + "|" + period.Key()
}

// UpsertExpenseTotals writes per-expense totals, leaving unchanged rows untouched
func (m *MockProjectionRepository) UpsertExpenseTotals(ctx context.Context, totals []*domain.ExpensePeriodTotal) error {
	if m.UpsertExpenseTotalsFn != nil {
		return m.UpsertExpenseTotalsFn(ctx, totals)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	for _, t := range totals {
		key := totalKey(t.ExpenseID, domain.BillingPeriod{Start: t.PeriodStart, End: t.PeriodEnd})
		if existing, ok := m.Totals[key]; ok &&
			existing.Consumed.Equal(t.Consumed) &&
			existing.Remaining.Equal(t.Remaining) &&
			existing.PctUsed.Equal(t.PctUsed) {
			continue
		}
		row := *t
		row.UpdatedAt = m.Now()
		m.Totals[key] = &row
	}
	return nil
}

// UpsertPeriodSummary writes the household summary, leaving an unchanged row untouched
func (m *MockProjectionRepository) UpsertPeriodSummary(ctx context.Context, summary *domain.PeriodSummary) error {
	if m.UpsertPeriodSummaryFn != nil {
		return m.UpsertPeriodSummaryFn(ctx, summary)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := summary.Period().Key()
	if existing, ok := m.Summaries[key]; ok &&
		existing.Salary.Equal(summary.Salary) &&
		existing.TotalSpent.Equal(summary.TotalSpent) &&
		existing.RemainingSalary.Equal(summary.RemainingSalary) {
		return nil
	}
	row := *summary
	row.UpdatedAt = m.Now()
	m.Summaries[key] = &row
	return nil
}

// DeleteExpenseTotalsExcept removes the period's totals for expenses outside keep
func (m *MockProjectionRepository) DeleteExpenseTotalsExcept(ctx context.Context, period domain.BillingPeriod, keep []uuid.UUID) error {
	if m.DeleteExpenseTotalsExceptFn != nil {
		return m.DeleteExpenseTotalsExceptFn(ctx, period, keep)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := make(map[uuid.UUID]bool, len(keep))
	for _, id := range keep {
		kept[id] = true
	}
	for key, t := range m.Totals {
		if t.PeriodStart.Equal(period.Start) && t.PeriodEnd.Equal(period.End) && !kept[t.ExpenseID] {
			delete(m.Totals, key)
		}
	}
	return nil
}

// GetExpenseTotal retrieves a per-expense total by natural key
func (m *MockProjectionRepository) GetExpenseTotal(ctx context.Context, expenseID uuid.UUID, period domain.BillingPeriod) (*domain.ExpensePeriodTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.Totals[totalKey(expenseID, period)]; ok {
		out := *t
		return &out, nil
	}
	return nil, domain.ErrPeriodNotFound
}

// GetExpenseTotalsByPeriod retrieves every per-expense total for a period
func (m *MockProjectionRepository) GetExpenseTotalsByPeriod(ctx context.Context, period domain.BillingPeriod) ([]*domain.ExpensePeriodTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.ExpensePeriodTotal
	for _, t := range m.Totals {
		if t.PeriodStart.Equal(period.Start) && t.PeriodEnd.Equal(period.End) {
			out := *t
			result = append(result, &out)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ExpenseID.String() < result[j].ExpenseID.String()
	})
	return result, nil
}

// GetPeriodSummary retrieves a household summary by natural key
func (m *MockProjectionRepository) GetPeriodSummary(ctx context.Context, period domain.BillingPeriod) (*domain.PeriodSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Summaries[period.Key()]; ok {
		out := *s
		return &out, nil
	}
	return nil, domain.ErrPeriodNotFound
}

// ListPeriodSummaries returns summaries ordered by period start descending
func (m *MockProjectionRepository) ListPeriodSummaries(ctx context.Context, limit int) ([]*domain.PeriodSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.PeriodSummary, 0, len(m.Summaries))
	for _, s := range m.Summaries {
		out := *s
		result = append(result, &out)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PeriodStart.After(result[j].PeriodStart)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MockSnapshotRepository is a mock implementation of domain.SnapshotRepository
type MockSnapshotRepository struct {
	Snapshots []*domain.MonthlySnapshot
	NextID    int32
	CreateFn  func(ctx context.Context, snapshot *domain.MonthlySnapshot) (*domain.MonthlySnapshot, error)
	mu        sync.Mutex
}

// NewMockSnapshotRepository creates a new MockSnapshotRepository
func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{NextID: 1}
}

// Create stores a new snapshot, rejecting a second one for the same period
func (m *MockSnapshotRepository) Create(ctx context.Context, snapshot *domain.MonthlySnapshot) (*domain.MonthlySnapshot, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Snapshots {
		if s.PeriodStart.Equal(snapshot.PeriodStart) && s.PeriodEnd.Equal(snapshot.PeriodEnd) {
			return nil, domain.ErrSnapshotExists
		}
	}
	created := *snapshot
	created.ID = m.NextID
	m.NextID++
	created.CreatedAt = time.Now()
	m.Snapshots = append(m.Snapshots, &created)
	out := created
	return &out, nil
}

// GetByPeriod retrieves the snapshot for a period
func (m *MockSnapshotRepository) GetByPeriod(ctx context.Context, period domain.BillingPeriod) (*domain.MonthlySnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Snapshots {
		if s.PeriodStart.Equal(period.Start) && s.PeriodEnd.Equal(period.End) {
			out := *s
			return &out, nil
		}
	}
	return nil, domain.ErrSnapshotNotFound
}

// GetLatest retrieves the snapshot with the most recent period start
func (m *MockSnapshotRepository) GetLatest(ctx context.Context) (*domain.MonthlySnapshot, error) {
	all, _ := m.GetAll(ctx)
	if len(all) == 0 {
		return nil, domain.ErrSnapshotNotFound
	}
	return all[0], nil
}

// GetAll retrieves snapshots ordered by period start descending
func (m *MockSnapshotRepository) GetAll(ctx context.Context) ([]*domain.MonthlySnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.MonthlySnapshot, 0, len(m.Snapshots))
	for _, s := range m.Snapshots {
		out := *s
		result = append(result, &out)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PeriodStart.After(result[j].PeriodStart)
	})
	return result, nil
}

// SetArchiveKey records where a snapshot report was archived
func (m *MockSnapshotRepository) SetArchiveKey(ctx context.Context, id int32, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Snapshots {
		if s.ID == id {
			k := key
			s.ArchiveKey = &k
			return nil
		}
	}
	return domain.ErrSnapshotNotFound
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	mu    sync.Mutex
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
	}
}

// GetByUsername retrieves a user by username
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[username]; ok {
		out := *u
		return &out, nil
	}
	return nil, domain.ErrUserNotFound
}

// UpsertPasswordHash creates or updates a user's password hash
func (m *MockUserRepository) UpsertPasswordHash(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[username]
	if !ok {
		u = &domain.User{ID: int32(len(m.Users) + 1), Username: username, CreatedAt: time.Now()}
		m.Users[username] = u
	}
	u.PasswordHash = passwordHash
	out := *u
	return &out, nil
}

// MockPeriodLocker is a mock implementation of domain.PeriodLocker that records lock usage
type MockPeriodLocker struct {
	Locked []domain.BillingPeriod
	mu     sync.Mutex
}

// WithPeriodLock runs fn after recording the period
func (m *MockPeriodLocker) WithPeriodLock(ctx context.Context, period domain.BillingPeriod, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.Locked = append(m.Locked, period)
	m.mu.Unlock()
	return fn(ctx)
}

// MockReportStore is an in-memory implementation of domain.ReportStore
type MockReportStore struct {
	Objects map[string][]byte
	PutFn   func(ctx context.Context, key string, body []byte) error
	mu      sync.Mutex
}

// NewMockReportStore creates a new MockReportStore
func NewMockReportStore() *MockReportStore {
	return &MockReportStore{Objects: make(map[string][]byte)}
}

// Put stores an object
func (m *MockReportStore) Put(ctx context.Context, key string, body []byte) error {
	if m.PutFn != nil {
		return m.PutFn(ctx, key, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = append([]byte(nil), body...)
	return nil
}

// Get reads an object
func (m *MockReportStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.Objects[key]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return body, nil
}
