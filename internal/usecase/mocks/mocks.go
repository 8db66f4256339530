package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
)

// MockEntryRepository is a mock implementation of EntryRepository. It hands
// out copies so callers mutate their own value until they write it back.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry

	CreateTxFunc         func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error)
	UpdateSettlementFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	TotalsFunc           func(ctx context.Context, companyID string, dueFrom, dueTo *time.Time, asOf time.Time) ([]usecase.EntryTotals, error)
}

func NewMockEntryRepository(entries ...*domain.Entry) *MockEntryRepository {
	m := &MockEntryRepository{
		entries: make(map[string]*domain.Entry),
	}
	for _, e := range entries {
		m.Put(e)
	}
	return m
}

// Put stores a copy of entry.
func (m *MockEntryRepository) Put(entry *domain.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = cloneEntry(entry)
}

// Get returns the stored copy of an entry, or nil.
func (m *MockEntryRepository) Get(id string) *domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return cloneEntry(e)
	}
	return nil
}

func (m *MockEntryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, entry)
	}
	m.Put(entry)
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	if e := m.Get(id); e != nil {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for _, id := range ids {
		if e := m.Get(id); e != nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockEntryRepository) UpdateSettlement(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.UpdateSettlementFunc != nil {
		return m.UpdateSettlementFunc(ctx, tx, entry)
	}
	if m.Get(entry.ID) == nil {
		return domain.ErrEntryNotFound
	}
	m.Put(entry)
	return nil
}

func (m *MockEntryRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.Status = status
	e.UpdatedAt = updatedAt
	return nil
}

func (m *MockEntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	m.mu.RLock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if matchesFilter(e, filter) {
			entries = append(entries, cloneEntry(e))
		}
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].DueDate.Equal(entries[j].DueDate) {
			return entries[i].DueDate.Before(entries[j].DueDate)
		}
		return entries[i].ID < entries[j].ID
	})

	if filter.Offset >= len(entries) {
		return nil, nil
	}
	entries = entries[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(entries) {
		entries = entries[:filter.Limit]
	}
	return entries, nil
}

func (m *MockEntryRepository) ListByPlan(ctx context.Context, planID string) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.PlanID == planID {
			entries = append(entries, cloneEntry(e))
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].InstallmentIndex < entries[j].InstallmentIndex
	})
	return entries, nil
}

func (m *MockEntryRepository) Totals(ctx context.Context, companyID string, dueFrom, dueTo *time.Time, asOf time.Time) ([]usecase.EntryTotals, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx, companyID, dueFrom, dueTo, asOf)
	}
	return nil, nil
}

func matchesFilter(e *domain.Entry, f usecase.EntryFilter) bool {
	if f.CompanyID != "" && e.CompanyID != f.CompanyID {
		return false
	}
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	if f.CounterpartyID != "" && e.CounterpartyID != f.CounterpartyID {
		return false
	}
	if f.DueFrom != nil && e.DueDate.Before(*f.DueFrom) {
		return false
	}
	if f.DueTo != nil && e.DueDate.After(*f.DueTo) {
		return false
	}
	if f.Status != "" && e.DisplayStatus(f.AsOf) != f.Status {
		return false
	}
	return true
}

func cloneEntry(e *domain.Entry) *domain.Entry {
	c := *e
	return &c
}

// MockLedgerLineRepository is a mock implementation of LedgerLineRepository.
// Idempotency keys are unique as in the database.
type MockLedgerLineRepository struct {
	mu    sync.RWMutex
	lines []*domain.LedgerLine

	CreateFunc func(ctx context.Context, tx usecase.Transaction, line *domain.LedgerLine) error
}

func NewMockLedgerLineRepository() *MockLedgerLineRepository {
	return &MockLedgerLineRepository{}
}

// Lines returns every stored line.
func (m *MockLedgerLineRepository) Lines() []*domain.LedgerLine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.LedgerLine(nil), m.lines...)
}

func (m *MockLedgerLineRepository) Create(ctx context.Context, tx usecase.Transaction, line *domain.LedgerLine) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, line)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if line.IdempotencyKey != nil {
		for _, l := range m.lines {
			if l.IdempotencyKey != nil && *l.IdempotencyKey == *line.IdempotencyKey {
				return domain.ErrDuplicatePayment
			}
		}
	}
	c := *line
	m.lines = append(m.lines, &c)
	return nil
}

func (m *MockLedgerLineRepository) ListByEntry(ctx context.Context, entryID string) ([]*domain.LedgerLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var lines []*domain.LedgerLine
	for _, l := range m.lines {
		if l.EntryID == entryID {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

func (m *MockLedgerLineRepository) ListByEntryTx(ctx context.Context, tx usecase.Transaction, entryID string) ([]*domain.LedgerLine, error) {
	return m.ListByEntry(ctx, entryID)
}

func (m *MockLedgerLineRepository) GetByIdempotencyKey(ctx context.Context, tx usecase.Transaction, key string) (*domain.LedgerLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.lines {
		if l.IdempotencyKey != nil && *l.IdempotencyKey == key {
			return l, nil
		}
	}
	return nil, nil
}

func (m *MockLedgerLineRepository) DeleteByEntry(ctx context.Context, tx usecase.Transaction, entryID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.lines[:0]
	var removed int64
	for _, l := range m.lines {
		if l.EntryID == entryID {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	m.lines = kept
	return removed, nil
}

func (m *MockLedgerLineRepository) SumByEntries(ctx context.Context, entryIDs []string) (map[string]decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		wanted[id] = true
	}
	sums := make(map[string]decimal.Decimal)
	for _, l := range m.lines {
		if wanted[l.EntryID] {
			sums[l.EntryID] = sums[l.EntryID].Add(l.Amount)
		}
	}
	return sums, nil
}

// MockBankAccountRepository is a mock implementation of BankAccountRepository.
type MockBankAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.BankAccount

	AdjustBalanceFunc func(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (*domain.BankAccount, error)
}

func NewMockBankAccountRepository(accounts ...*domain.BankAccount) *MockBankAccountRepository {
	m := &MockBankAccountRepository{
		accounts: make(map[string]*domain.BankAccount),
	}
	for _, a := range accounts {
		c := *a
		m.accounts[a.ID] = &c
	}
	return m
}

// Balance returns the stored current balance of an account.
func (m *MockBankAccountRepository) Balance(id string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok {
		return a.CurrentBalance
	}
	return decimal.Zero
}

func (m *MockBankAccountRepository) Create(ctx context.Context, account *domain.BankAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *account
	m.accounts[account.ID] = &c
	return nil
}

func (m *MockBankAccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, domain.ErrBankAccountNotFound
}

func (m *MockBankAccountRepository) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*domain.BankAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.BankAccount
	for _, a := range m.accounts {
		if a.CompanyID == companyID {
			c := *a
			accounts = append(accounts, &c)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (m *MockBankAccountRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (*domain.BankAccount, error) {
	if m.AdjustBalanceFunc != nil {
		return m.AdjustBalanceFunc(ctx, tx, id, delta, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrBankAccountNotFound
	}
	a.CurrentBalance = a.CurrentBalance.Add(delta)
	a.Version++
	a.UpdatedAt = updatedAt
	c := *a
	return &c, nil
}

// MockBankTransactionRepository is a mock implementation of BankTransactionRepository.
type MockBankTransactionRepository struct {
	mu  sync.RWMutex
	txs []*domain.BankTransaction

	CreateFunc func(ctx context.Context, tx usecase.Transaction, bankTx *domain.BankTransaction) error
}

func NewMockBankTransactionRepository(txs ...*domain.BankTransaction) *MockBankTransactionRepository {
	return &MockBankTransactionRepository{txs: txs}
}

// Transactions returns every stored bank transaction.
func (m *MockBankTransactionRepository) Transactions() []*domain.BankTransaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.BankTransaction(nil), m.txs...)
}

func (m *MockBankTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, bankTx *domain.BankTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, bankTx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *bankTx
	m.txs = append(m.txs, &c)
	return nil
}

func (m *MockBankTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.BankTransaction, error) {
	all, err := m.ListAllByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockBankTransactionRepository) ListAllByAccount(ctx context.Context, accountID string) ([]*domain.BankTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txs []*domain.BankTransaction
	for _, t := range m.txs {
		if t.AccountID == accountID {
			txs = append(txs, t)
		}
	}
	return txs, nil
}

func (m *MockBankTransactionRepository) DeleteByEntry(ctx context.Context, tx usecase.Transaction, entryID string) ([]*domain.BankTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.txs[:0]
	var removed []*domain.BankTransaction
	for _, t := range m.txs {
		if t.EntryRef == entryID {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	m.txs = kept
	return removed, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

// Events returns every stored event.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published && (limit <= 0 || len(events) < limit) {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			at := publishedAt
			e.PublishedAt = &at
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

// Logs returns every stored audit log.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, l := range m.logs {
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu           sync.Mutex
	transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.transactions = append(m.transactions, tx)
	return tx, nil
}

// Transactions returns every transaction begun so far.
func (m *MockTransactionManager) Transactions() []*MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockTransaction(nil), m.transactions...)
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockClock is a fixed Clock.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock.
func (m *MockClock) Set(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// MockRetrier retries failed operations up to Attempts times and counts calls.
type MockRetrier struct {
	Attempts int
	Calls    int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	var err error
	for i := 0; i < max(m.Attempts, 1); i++ {
		m.Calls++
		if err = operation(); err == nil {
			return nil
		}
	}
	return err
}
