package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/metrics"
	"github.com/iho/settleledger/internal/usecase"
	"github.com/iho/settleledger/internal/usecase/mocks"
)

var testNow = time.Date(2024, 1, 20, 14, 30, 0, 0, time.UTC)

type fixture struct {
	txManager *mocks.MockTransactionManager
	entries   *mocks.MockEntryRepository
	lines     *mocks.MockLedgerLineRepository
	accounts  *mocks.MockBankAccountRepository
	bankTxs   *mocks.MockBankTransactionRepository
	outbox    *mocks.MockOutboxRepository
	audit     *mocks.MockAuditRepository
	idGen     *mocks.MockIDGenerator
	clock     *mocks.MockClock
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return &fixture{
		txManager: mocks.NewMockTransactionManager(),
		entries:   mocks.NewMockEntryRepository(),
		lines:     mocks.NewMockLedgerLineRepository(),
		accounts:  mocks.NewMockBankAccountRepository(),
		bankTxs:   mocks.NewMockBankTransactionRepository(),
		outbox:    mocks.NewMockOutboxRepository(),
		audit:     mocks.NewMockAuditRepository(),
		idGen:     mocks.NewMockIDGenerator(),
		clock:     mocks.NewMockClock(testNow),
		metrics:   metrics.New(prometheus.NewRegistry()),
	}
}

func (f *fixture) repos() usecase.Repositories {
	return usecase.Repositories{
		Entries:          f.entries,
		LedgerLines:      f.lines,
		BankAccounts:     f.accounts,
		BankTransactions: f.bankTxs,
		Outbox:           f.outbox,
		Audit:            f.audit,
	}
}

func (f *fixture) settlement() *usecase.SettlementUseCase {
	return usecase.NewSettlementUseCase(f.txManager, f.repos(), f.idGen, nil, f.clock, zerolog.Nop(), f.metrics)
}

func (f *fixture) reversal() *usecase.ReversalUseCase {
	return usecase.NewReversalUseCase(f.txManager, f.repos(), f.idGen, nil, f.clock, zerolog.Nop(), f.metrics)
}

func (f *fixture) batch() *usecase.BatchUseCase {
	return usecase.NewBatchUseCase(f.settlement(), zerolog.Nop(), f.metrics)
}

func (f *fixture) addBankAccount(id, companyID, balance string) {
	_ = f.accounts.Create(context.Background(), &domain.BankAccount{
		ID:             id,
		CompanyID:      companyID,
		Name:           "Main " + id,
		OpeningBalance: dec(balance),
		CurrentBalance: dec(balance),
	})
}

func pendingEntry(id string, kind domain.EntryKind, value string) *domain.Entry {
	return &domain.Entry{
		ID:               id,
		CompanyID:        "company-1",
		Kind:             kind,
		CounterpartyID:   "supplier-1",
		Description:      "Invoice " + id,
		Value:            dec(value),
		DueDate:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:           domain.EntryStatusPending,
		InstallmentIndex: 1,
		InstallmentCount: 1,
		PlanID:           "plan-" + id,
		CreatedAt:        testNow,
		UpdatedAt:        testNow,
	}
}

func cancelledEntry(id string) *domain.Entry {
	e := pendingEntry(id, domain.EntryKindPayable, "100")
	e.Status = domain.EntryStatusCancelled
	return e
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func timePtr(t time.Time) *time.Time {
	return &t
}
