package usecase

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks github.com/iho/settleledger/internal/usecase PaymentMethodRepository,Cache,IdempotencyStore

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/settleledger/internal/domain"
)

// EntryFilter narrows entry listings. Status may be the derived overdue
// status; repositories translate it into a due-date predicate.
type EntryFilter struct {
	CompanyID      string
	Kind           domain.EntryKind
	CounterpartyID string
	Status         domain.DisplayStatus
	DueFrom        *time.Time
	DueTo          *time.Time
	AsOf           time.Time
	Limit          int
	Offset         int
}

// EntryTotals aggregates entries of one kind for the summary.
type EntryTotals struct {
	Kind          domain.EntryKind
	PendingCount  int64
	PendingValue  decimal.Decimal
	OverdueCount  int64
	OverdueValue  decimal.Decimal
	SettledCount  int64
	SettledValue  decimal.Decimal
	PaidAmount    decimal.Decimal
	OpenRemaining decimal.Decimal
}

// EntryRepository defines data access for entries.
type EntryRepository interface {
	CreateTx(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Entry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Entry, error)
	UpdateSettlement(ctx context.Context, tx Transaction, entry *domain.Entry) error
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.EntryStatus, updatedAt time.Time) error
	List(ctx context.Context, filter EntryFilter) ([]*domain.Entry, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.Entry, error)
	Totals(ctx context.Context, companyID string, dueFrom, dueTo *time.Time, asOf time.Time) ([]EntryTotals, error)
}

// LedgerLineRepository defines data access for ledger lines.
type LedgerLineRepository interface {
	Create(ctx context.Context, tx Transaction, line *domain.LedgerLine) error
	ListByEntry(ctx context.Context, entryID string) ([]*domain.LedgerLine, error)
	ListByEntryTx(ctx context.Context, tx Transaction, entryID string) ([]*domain.LedgerLine, error)
	GetByIdempotencyKey(ctx context.Context, tx Transaction, key string) (*domain.LedgerLine, error)
	DeleteByEntry(ctx context.Context, tx Transaction, entryID string) (int64, error)
	SumByEntries(ctx context.Context, entryIDs []string) (map[string]decimal.Decimal, error)
}

// BankAccountRepository defines data access for bank accounts.
type BankAccountRepository interface {
	Create(ctx context.Context, account *domain.BankAccount) error
	GetByID(ctx context.Context, id string) (*domain.BankAccount, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*domain.BankAccount, error)
	// AdjustBalance atomically adds delta to the current balance and bumps the
	// version, returning the updated row.
	AdjustBalance(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (*domain.BankAccount, error)
}

// BankTransactionRepository defines data access for bank transactions.
type BankTransactionRepository interface {
	Create(ctx context.Context, tx Transaction, bankTx *domain.BankTransaction) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.BankTransaction, error)
	ListAllByAccount(ctx context.Context, accountID string) ([]*domain.BankTransaction, error)
	DeleteByEntry(ctx context.Context, tx Transaction, entryID string) ([]*domain.BankTransaction, error)
}

// PaymentMethodRepository defines data access for payment methods.
type PaymentMethodRepository interface {
	Create(ctx context.Context, method *domain.PaymentMethod) error
	GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error)
	ListByCompany(ctx context.Context, companyID string) ([]*domain.PaymentMethod, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient database errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock returns the current time. Tests pin it to make derived statuses
// deterministic.
type Clock interface {
	Now() time.Time
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so it can be retried.
	Release(ctx context.Context, key string) error
}
