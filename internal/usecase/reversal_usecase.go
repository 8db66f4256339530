package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/metrics"
)

// ReversalUseCase undoes settlements.
type ReversalUseCase struct {
	txManager       TransactionManager
	entryRepo       EntryRepository
	lineRepo        LedgerLineRepository
	bankAccountRepo BankAccountRepository
	bankTxRepo      BankTransactionRepository
	journal         journal
	retrier         Retrier
	clock           Clock
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// NewReversalUseCase creates a new ReversalUseCase.
func NewReversalUseCase(
	txManager TransactionManager,
	repos Repositories,
	idGen IDGenerator,
	retrier Retrier,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *ReversalUseCase {
	if retrier == nil {
		retrier = noRetry{}
	}
	if clock == nil {
		clock = SystemClock()
	}

	return &ReversalUseCase{
		txManager:       txManager,
		entryRepo:       repos.Entries,
		lineRepo:        repos.LedgerLines,
		bankAccountRepo: repos.BankAccounts,
		bankTxRepo:      repos.BankTransactions,
		journal:         newJournal(repos, idGen, metrics),
		retrier:         retrier,
		clock:           clock,
		logger:          logger.With().Str("component", "reversal").Logger(),
		metrics:         metrics,
	}
}

// ReversalResult describes what an undo removed.
type ReversalResult struct {
	EntryID             string
	RemovedLines        int64
	RemovedTransactions int
	// ReversedAmount is the sum of the removed ledger lines.
	ReversedAmount decimal.Decimal
	// BalanceDeltas is what was added back to each bank account.
	BalanceDeltas map[string]decimal.Decimal
	Entry         *domain.Entry
}

// UndoSettlement removes every ledger line and bank transaction of an entry,
// restores the affected bank balances by the amounts those transactions
// actually applied, and returns the entry to pending.
func (uc *ReversalUseCase) UndoSettlement(ctx context.Context, entryID string) (*ReversalResult, error) {
	start := time.Now()

	var result *ReversalResult
	err := uc.retrier.Retry(ctx, func() error {
		var err error
		result, err = uc.undoTx(ctx, entryID)
		return err
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.SettlementErrors.WithLabelValues(errorType(err)).Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsReversed.Inc()
		uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	}

	return result, nil
}

func (uc *ReversalUseCase) undoTx(ctx context.Context, entryID string) (*ReversalResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// 1. Lock the entry
	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status == domain.EntryStatusCancelled {
		return nil, domain.ErrEntryCancelled
	}

	lines, err := uc.lineRepo.ListByEntryTx(txCtx, tx, entry.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrNothingToUndo
	}

	withBank := 0
	for _, l := range lines {
		if l.BankAccountID != nil {
			withBank++
		}
	}

	now := uc.clock.Now()
	before := *entry

	// 2. Remove bank transactions and give back what each one applied
	bankTxs, err := uc.bankTxRepo.DeleteByEntry(txCtx, tx, entry.ID)
	if err != nil {
		return nil, err
	}
	if len(bankTxs) != withBank {
		return nil, &domain.ConsistencyError{
			Resource: "entry",
			ID:       entry.ID,
			Expected: decimal.NewFromInt(int64(withBank)),
			Actual:   decimal.NewFromInt(int64(len(bankTxs))),
			Reason:   "bank transaction count does not match bank-linked ledger lines",
		}
	}

	deltas := make(map[string]decimal.Decimal)
	for _, bt := range bankTxs {
		deltas[bt.AccountID] = deltas[bt.AccountID].Add(bt.SignedValue().Neg())
	}
	// Sorted to lock accounts in a stable order
	accountIDs := make([]string, 0, len(deltas))
	for accountID := range deltas {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Strings(accountIDs)

	for _, accountID := range accountIDs {
		updated, err := uc.bankAccountRepo.AdjustBalance(txCtx, tx, accountID, deltas[accountID], now)
		if err != nil {
			return nil, err
		}
		if uc.metrics != nil {
			uc.metrics.BankBalance.WithLabelValues(accountID).Set(updated.CurrentBalance.InexactFloat64())
		}
	}

	// 3. Remove the ledger lines
	removed, err := uc.lineRepo.DeleteByEntry(txCtx, tx, entry.ID)
	if err != nil {
		return nil, err
	}
	if removed != int64(len(lines)) {
		return nil, &domain.ConsistencyError{
			Resource: "entry",
			ID:       entry.ID,
			Expected: decimal.NewFromInt(int64(len(lines))),
			Actual:   decimal.NewFromInt(removed),
			Reason:   "ledger lines changed during undo",
		}
	}

	// 4. Reset the entry
	entry.Reset(now)
	if err := uc.entryRepo.UpdateSettlement(txCtx, tx, entry); err != nil {
		return nil, err
	}

	reversed := domain.SumLines(lines)
	payload := map[string]any{
		"entry_id":        entry.ID,
		"company_id":      entry.CompanyID,
		"reversed_amount": reversed.String(),
		"removed_lines":   removed,
	}
	if err := uc.journal.event(txCtx, tx, domain.AggregateTypeEntry, entry.ID, domain.EventTypeSettlementReversed, payload, now); err != nil {
		return nil, err
	}
	if err := uc.journal.audit(txCtx, tx, domain.AuditActionSettlementUndo, domain.ResourceTypeEntry, entry.ID, before, entry, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, &domain.PartialFailureError{Operation: "undo", EntryID: entry.ID, Err: err}
	}

	uc.logger.Info().
		Str("entry_id", entry.ID).
		Str("reversed_amount", reversed.String()).
		Int("bank_transactions", len(bankTxs)).
		Msg("settlement undone")

	return &ReversalResult{
		EntryID:             entry.ID,
		RemovedLines:        removed,
		RemovedTransactions: len(bankTxs),
		ReversedAmount:      reversed,
		BalanceDeltas:       deltas,
		Entry:               entry,
	}, nil
}
