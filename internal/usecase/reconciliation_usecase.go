package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/metrics"
)

// reconciliationPageSize is how many rows a company scan reads per query.
const reconciliationPageSize = 1000

// ReconciliationUseCase recomputes stored totals from the rows they are
// derived from and reports any divergence.
type ReconciliationUseCase struct {
	entryRepo       EntryRepository
	lineRepo        LedgerLineRepository
	bankAccountRepo BankAccountRepository
	bankTxRepo      BankTransactionRepository
	clock           Clock
	metrics         *metrics.Metrics
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(repos Repositories, clock Clock, metrics *metrics.Metrics) *ReconciliationUseCase {
	if clock == nil {
		clock = SystemClock()
	}

	return &ReconciliationUseCase{
		entryRepo:       repos.Entries,
		lineRepo:        repos.LedgerLines,
		bankAccountRepo: repos.BankAccounts,
		bankTxRepo:      repos.BankTransactions,
		clock:           clock,
		metrics:         metrics,
	}
}

// BankAccountReconciliation is the result of checking one bank account.
type BankAccountReconciliation struct {
	AccountID         string
	CompanyID         string
	OpeningBalance    decimal.Decimal
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	TransactionCount  int
	IsReconciled      bool
	CheckedAt         time.Time
}

// Err returns a ConsistencyError when the account does not reconcile.
func (r *BankAccountReconciliation) Err() error {
	if r.IsReconciled {
		return nil
	}
	return &domain.ConsistencyError{
		Resource: "bank_account",
		ID:       r.AccountID,
		Expected: r.CalculatedBalance,
		Actual:   r.RecordedBalance,
		Reason:   "current balance differs from opening balance plus transactions",
	}
}

// EntryReconciliation is the result of checking one entry.
type EntryReconciliation struct {
	EntryID      string
	Status       domain.EntryStatus
	Value        decimal.Decimal
	Paid         decimal.Decimal
	IsReconciled bool
	Reason       string
}

// Err returns a ConsistencyError when the entry does not reconcile.
func (r *EntryReconciliation) Err() error {
	if r.IsReconciled {
		return nil
	}
	return &domain.ConsistencyError{
		Resource: "entry",
		ID:       r.EntryID,
		Expected: r.Value,
		Actual:   r.Paid,
		Reason:   r.Reason,
	}
}

// CompanyReconciliation aggregates the checks for one company.
type CompanyReconciliation struct {
	CompanyID           string
	BankAccounts        []*BankAccountReconciliation
	EntriesChecked      int
	InconsistentEntries []*EntryReconciliation
	IsReconciled        bool
	CheckedAt           time.Time
}

// ReconcileBankAccount compares the stored current balance with the opening
// balance plus the signed sum of the account's transactions.
func (uc *ReconciliationUseCase) ReconcileBankAccount(ctx context.Context, accountID string) (*BankAccountReconciliation, error) {
	account, err := uc.bankAccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	txs, err := uc.bankTxRepo.ListAllByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	calculated := account.ExpectedBalance(txs)
	result := &BankAccountReconciliation{
		AccountID:         account.ID,
		CompanyID:         account.CompanyID,
		OpeningBalance:    account.OpeningBalance,
		RecordedBalance:   account.CurrentBalance,
		CalculatedBalance: calculated,
		Difference:        account.CurrentBalance.Sub(calculated),
		TransactionCount:  len(txs),
		IsReconciled:      account.CurrentBalance.Equal(calculated),
		CheckedAt:         uc.clock.Now(),
	}
	uc.count("bank_account", result.IsReconciled)

	return result, nil
}

// CheckEntry compares an entry's status with the sum of its ledger lines.
func (uc *ReconciliationUseCase) CheckEntry(ctx context.Context, entryID string) (*EntryReconciliation, error) {
	entry, err := uc.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	paid, err := uc.lineRepo.SumByEntries(ctx, []string{entry.ID})
	if err != nil {
		return nil, err
	}

	result := checkEntry(entry, paid[entry.ID])
	uc.count("entry", result.IsReconciled)

	return result, nil
}

// ReconcileCompany checks every bank account and entry of a company.
func (uc *ReconciliationUseCase) ReconcileCompany(ctx context.Context, companyID string) (*CompanyReconciliation, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, domain.ErrMissingCompany
	}

	report := &CompanyReconciliation{
		CompanyID:    companyID,
		IsReconciled: true,
		CheckedAt:    uc.clock.Now(),
	}

	accounts, err := uc.bankAccountRepo.ListByCompany(ctx, companyID, reconciliationPageSize, 0)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		result, err := uc.ReconcileBankAccount(ctx, account.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile bank account %s: %w", account.ID, err)
		}
		report.BankAccounts = append(report.BankAccounts, result)
		if !result.IsReconciled {
			report.IsReconciled = false
		}
	}

	for offset := 0; ; offset += reconciliationPageSize {
		entries, err := uc.entryRepo.List(ctx, EntryFilter{
			CompanyID: companyID,
			AsOf:      domain.DateOf(report.CheckedAt),
			Limit:     reconciliationPageSize,
			Offset:    offset,
		})
		if err != nil {
			return nil, err
		}

		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		paid, err := uc.lineRepo.SumByEntries(ctx, ids)
		if err != nil {
			return nil, err
		}

		for _, e := range entries {
			result := checkEntry(e, paid[e.ID])
			report.EntriesChecked++
			if !result.IsReconciled {
				report.InconsistentEntries = append(report.InconsistentEntries, result)
				report.IsReconciled = false
			}
		}

		if len(entries) < reconciliationPageSize {
			break
		}
	}

	uc.count("company", report.IsReconciled)

	return report, nil
}

// checkEntry applies the entry invariants: a settled entry is covered by its
// lines and carries a payment date, a pending one is not yet covered, and a
// cancelled one has no payments.
func checkEntry(e *domain.Entry, paid decimal.Decimal) *EntryReconciliation {
	result := &EntryReconciliation{
		EntryID:      e.ID,
		Status:       e.Status,
		Value:        e.Value,
		Paid:         paid,
		IsReconciled: true,
	}

	switch e.Status {
	case domain.EntryStatusSettled:
		if !e.IsSettledBy(paid) {
			result.Reason = "settled entry is not covered by its ledger lines"
		} else if e.PaymentDate == nil {
			result.Reason = "settled entry has no payment date"
		}
	case domain.EntryStatusPending:
		if paid.IsPositive() && e.IsSettledBy(paid) {
			result.Reason = "pending entry is fully covered by its ledger lines"
		}
	case domain.EntryStatusCancelled:
		if !paid.IsZero() {
			result.Reason = "cancelled entry has ledger lines"
		}
	}

	result.IsReconciled = result.Reason == ""
	return result
}

func (uc *ReconciliationUseCase) count(scope string, ok bool) {
	if uc.metrics == nil {
		return
	}
	result := "reconciled"
	if !ok {
		result = "mismatch"
	}
	uc.metrics.ReconciliationResults.WithLabelValues(scope, result).Inc()
}
