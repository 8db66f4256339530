package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/metrics"
)

// SettlementUseCase applies payments to entries.
type SettlementUseCase struct {
	txManager       TransactionManager
	entryRepo       EntryRepository
	lineRepo        LedgerLineRepository
	bankAccountRepo BankAccountRepository
	bankTxRepo      BankTransactionRepository
	journal         journal
	idGen           IDGenerator
	retrier         Retrier
	clock           Clock
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase. A nil retrier runs
// each transaction once and a nil clock uses the wall clock.
func NewSettlementUseCase(
	txManager TransactionManager,
	repos Repositories,
	idGen IDGenerator,
	retrier Retrier,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *SettlementUseCase {
	if retrier == nil {
		retrier = noRetry{}
	}
	if clock == nil {
		clock = SystemClock()
	}

	return &SettlementUseCase{
		txManager:       txManager,
		entryRepo:       repos.Entries,
		lineRepo:        repos.LedgerLines,
		bankAccountRepo: repos.BankAccounts,
		bankTxRepo:      repos.BankTransactions,
		journal:         newJournal(repos, idGen, metrics),
		idGen:           idGen,
		retrier:         retrier,
		clock:           clock,
		logger:          logger.With().Str("component", "settlement").Logger(),
		metrics:         metrics,
	}
}

// ApplyPaymentInput represents input for applying a payment.
type ApplyPaymentInput struct {
	// CompanyID, when set, restricts the payment to entries of that company.
	CompanyID     string
	EntryIDs      []string
	Amount        domain.PaymentAmount
	PaymentDate   time.Time
	BankAccountID *string
	Approve       bool
	AttachmentRef string
	Notes         string
	// IdempotencyKey overrides the key derived from entry, date, amount and
	// actor. It is suffixed with the entry id.
	IdempotencyKey string
}

// EntrySettlement is the outcome of a payment on one entry.
type EntrySettlement struct {
	EntryID         string
	Kind            domain.EntryKind
	Applied         decimal.Decimal
	PreviouslyPaid  decimal.Decimal
	TotalPaid       decimal.Decimal
	Remaining       decimal.Decimal
	Status          domain.EntryStatus
	Overpaid        bool
	Replayed        bool
	LedgerLine      *domain.LedgerLine
	BankTransaction *domain.BankTransaction
	Err             error
}

// SettlementResult aggregates the outcomes of one ApplyPayment call.
// Replayed items are reported but do not count toward TotalApplied or
// BalanceDeltas since they moved no money.
type SettlementResult struct {
	Items         []EntrySettlement
	TotalApplied  decimal.Decimal
	BalanceDeltas map[string]decimal.Decimal
	Succeeded     int
	Failed        int
}

func (r *SettlementResult) add(item EntrySettlement) {
	r.Items = append(r.Items, item)
	if item.Err != nil {
		r.Failed++
		return
	}

	r.Succeeded++
	if item.Replayed {
		return
	}

	r.TotalApplied = r.TotalApplied.Add(item.Applied)
	if item.BankTransaction != nil {
		accountID := item.BankTransaction.AccountID
		r.BalanceDeltas[accountID] = r.BalanceDeltas[accountID].Add(item.BankTransaction.SignedValue())
	}
}

// ApplyPayment records a payment on one or more entries. A single entry is
// all-or-nothing and its error is returned directly. Several entries go
// through ApplyBatch.
func (uc *SettlementUseCase) ApplyPayment(ctx context.Context, input ApplyPaymentInput) (*SettlementResult, error) {
	if len(input.EntryIDs) > 1 {
		return uc.ApplyBatch(ctx, input)
	}

	if err := validatePaymentInput(input); err != nil {
		return nil, err
	}

	account, err := uc.loadBankAccount(ctx, input.BankAccountID)
	if err != nil {
		return nil, err
	}

	item := uc.settle(ctx, input.EntryIDs[0], input, account)
	if item.Err != nil {
		return nil, item.Err
	}

	result := &SettlementResult{BalanceDeltas: make(map[string]decimal.Decimal)}
	result.add(item)
	return result, nil
}

// ApplyBatch pays the remaining amount of each entry. The selection must
// form a valid batch and is rejected as a whole before any write; after that
// every entry is settled in its own transaction and reported separately.
func (uc *SettlementUseCase) ApplyBatch(ctx context.Context, input ApplyPaymentInput) (*SettlementResult, error) {
	if !input.Amount.IsRemaining() {
		return nil, domain.ErrExplicitAmountBatch
	}

	if err := validatePaymentInput(input); err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.GetByIDs(ctx, input.EntryIDs)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateBatchSelection(input.CompanyID, input.EntryIDs, entries); err != nil {
		return nil, err
	}

	account, err := uc.loadBankAccount(ctx, input.BankAccountID)
	if err != nil {
		return nil, err
	}
	if account != nil && len(entries) > 0 && account.CompanyID != entries[0].CompanyID {
		return nil, domain.ErrBankAccountCompany
	}

	result := &SettlementResult{BalanceDeltas: make(map[string]decimal.Decimal)}
	for _, id := range input.EntryIDs {
		item := uc.settle(ctx, id, input, account)
		if item.Err != nil {
			uc.logger.Info().
				Err(item.Err).
				Str("entry_id", id).
				Msg("batch item not settled")
		}
		result.add(item)
	}

	return result, nil
}

// SettleEntry pays whatever is still owed on one entry.
func (uc *SettlementUseCase) SettleEntry(
	ctx context.Context,
	entryID string,
	paymentDate time.Time,
	bankAccountID *string,
) (*EntrySettlement, error) {
	result, err := uc.ApplyPayment(ctx, ApplyPaymentInput{
		EntryIDs:      []string{entryID},
		Amount:        domain.RemainingAmount(),
		PaymentDate:   paymentDate,
		BankAccountID: bankAccountID,
	})
	if err != nil {
		return nil, err
	}

	return &result.Items[0], nil
}

func validatePaymentInput(input ApplyPaymentInput) error {
	if len(input.EntryIDs) == 0 {
		return domain.ErrNoEntries
	}

	seen := make(map[string]struct{}, len(input.EntryIDs))
	for _, id := range input.EntryIDs {
		if strings.TrimSpace(id) == "" {
			return domain.ErrEntryNotFound
		}
		if _, dup := seen[id]; dup {
			return domain.ErrDuplicateEntry
		}
		seen[id] = struct{}{}
	}

	if len(input.EntryIDs) > MaxBatchSize {
		return fmt.Errorf("%w: at most %d entries per payment", domain.ErrValidation, MaxBatchSize)
	}

	if !input.Amount.IsRemaining() {
		if len(input.EntryIDs) != 1 {
			return domain.ErrExplicitAmountBatch
		}
		if err := domain.ValidateAmount(input.Amount.Value()); err != nil {
			return err
		}
	}

	if input.PaymentDate.IsZero() {
		return domain.ErrMissingPaymentDate
	}

	return domain.ValidateNotes(input.Notes)
}

func (uc *SettlementUseCase) loadBankAccount(ctx context.Context, id *string) (*domain.BankAccount, error) {
	if id == nil {
		return nil, nil
	}

	return uc.bankAccountRepo.GetByID(ctx, *id)
}

// settle runs the per-entry algorithm inside one retried transaction.
func (uc *SettlementUseCase) settle(
	ctx context.Context,
	entryID string,
	input ApplyPaymentInput,
	account *domain.BankAccount,
) EntrySettlement {
	start := time.Now()

	var item EntrySettlement
	err := uc.retrier.Retry(ctx, func() error {
		var err error
		item, err = uc.settleTx(ctx, entryID, input, account)
		return err
	})
	if err != nil {
		uc.recordError(err)
		return EntrySettlement{EntryID: entryID, Err: err}
	}

	if uc.metrics != nil {
		uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())
		if item.Replayed {
			uc.metrics.ReplayedPayments.Inc()
		} else {
			uc.metrics.SettlementsApplied.WithLabelValues(string(item.Kind), string(item.Status)).Inc()
			uc.metrics.SettlementAmount.Observe(item.Applied.InexactFloat64())
		}
		if item.Overpaid {
			uc.metrics.Overpayments.Inc()
		}
		if item.BankTransaction != nil {
			uc.metrics.BankBalance.WithLabelValues(item.BankTransaction.AccountID).
				Set(item.BankTransaction.BalanceAfter.InexactFloat64())
		}
	}

	return item
}

func (uc *SettlementUseCase) settleTx(
	ctx context.Context,
	entryID string,
	input ApplyPaymentInput,
	account *domain.BankAccount,
) (EntrySettlement, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return EntrySettlement{}, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// 1. Lock the entry
	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, entryID)
	if err != nil {
		return EntrySettlement{}, err
	}
	if entry.Status == domain.EntryStatusCancelled {
		return EntrySettlement{}, domain.ErrEntryCancelled
	}
	if input.CompanyID != "" && entry.CompanyID != input.CompanyID {
		return EntrySettlement{}, domain.ErrCompanyMismatch
	}
	if input.Approve && entry.Kind != domain.EntryKindPayable {
		return EntrySettlement{}, domain.ErrApprovalNotApplicable
	}
	if account != nil && account.CompanyID != entry.CompanyID {
		return EntrySettlement{}, domain.ErrBankAccountCompany
	}

	actorID := domain.ActorID(ctx)
	key := idempotencyKey(entry.ID, input, actorID)

	// 2. Replays return the line recorded by the first attempt
	existing, err := uc.lineRepo.GetByIdempotencyKey(txCtx, tx, key)
	if err != nil {
		return EntrySettlement{}, err
	}

	lines, err := uc.lineRepo.ListByEntryTx(txCtx, tx, entry.ID)
	if err != nil {
		return EntrySettlement{}, err
	}
	paid := domain.SumLines(lines)

	if existing != nil {
		if existing.EntryID != entry.ID {
			return EntrySettlement{}, domain.ErrDuplicatePayment
		}
		uc.logger.Info().
			Str("entry_id", entry.ID).
			Str("ledger_line_id", existing.ID).
			Msg("payment replayed")

		// A replay moves no money; LedgerLine carries the earlier amount.
		return EntrySettlement{
			EntryID:        entry.ID,
			Kind:           entry.Kind,
			Applied:        decimal.Zero,
			PreviouslyPaid: paid,
			TotalPaid:      paid,
			Remaining:      entry.Remaining(paid),
			Status:         entry.Status,
			Overpaid:       paid.GreaterThan(entry.Value),
			Replayed:       true,
			LedgerLine:     existing,
		}, nil
	}

	// 3. Resolve the amount to apply
	applied := input.Amount.Resolve(entry.Value, paid)
	if !applied.IsPositive() {
		return EntrySettlement{}, domain.ErrNothingToPay
	}

	now := uc.clock.Now()
	before := *entry

	// 4. Record the ledger line
	line := &domain.LedgerLine{
		ID:              uc.idGen.Generate(),
		EntryID:         entry.ID,
		Amount:          applied,
		BankAccountID:   input.BankAccountID,
		TransactionDate: domain.DateOf(input.PaymentDate),
		ActorID:         actorID,
		AttachmentRef:   input.AttachmentRef,
		Notes:           input.Notes,
		IdempotencyKey:  &key,
		CreatedAt:       now,
	}
	if err := uc.lineRepo.Create(txCtx, tx, line); err != nil {
		return EntrySettlement{}, err
	}

	// 5. Update the entry
	total := paid.Add(applied)
	entry.MarkPaid(total, input.PaymentDate, input.BankAccountID, now)
	if input.Approve {
		if err := entry.Approve(actorID, now); err != nil {
			return EntrySettlement{}, err
		}
	}
	if err := uc.entryRepo.UpdateSettlement(txCtx, tx, entry); err != nil {
		return EntrySettlement{}, err
	}

	overpaid := total.GreaterThan(entry.Value)
	if overpaid {
		uc.logger.Warn().
			Str("entry_id", entry.ID).
			Str("value", entry.Value.String()).
			Str("total_paid", total.String()).
			Msg("entry overpaid")
	}

	// 6. Move the bank balance
	var bankTx *domain.BankTransaction
	if account != nil {
		direction := entry.Kind.Direction()

		updated, err := uc.bankAccountRepo.AdjustBalance(txCtx, tx, account.ID, direction.Signed(applied), now)
		if err != nil {
			return EntrySettlement{}, err
		}

		bankTx = &domain.BankTransaction{
			ID:              uc.idGen.Generate(),
			AccountID:       account.ID,
			Direction:       direction,
			Value:           applied,
			TransactionDate: domain.DateOf(input.PaymentDate),
			EntryRef:        entry.ID,
			LedgerLineID:    line.ID,
			BalanceAfter:    updated.CurrentBalance,
			CreatedAt:       now,
		}
		if err := uc.bankTxRepo.Create(txCtx, tx, bankTx); err != nil {
			return EntrySettlement{}, err
		}
	}

	// 7. Journal
	payload := map[string]any{
		"entry_id":   entry.ID,
		"company_id": entry.CompanyID,
		"kind":       string(entry.Kind),
		"applied":    applied.String(),
		"total_paid": total.String(),
		"status":     string(entry.Status),
	}
	if bankTx != nil {
		payload["bank_account_id"] = bankTx.AccountID
		payload["balance_after"] = bankTx.BalanceAfter.String()
	}
	if err := uc.journal.event(txCtx, tx, domain.AggregateTypeEntry, entry.ID, domain.EventTypeSettlementApplied, payload, now); err != nil {
		return EntrySettlement{}, err
	}
	if err := uc.journal.audit(txCtx, tx, domain.AuditActionSettlementApply, domain.ResourceTypeEntry, entry.ID, before, entry, now); err != nil {
		return EntrySettlement{}, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return EntrySettlement{}, &domain.PartialFailureError{Operation: "settlement", EntryID: entry.ID, Err: err}
	}

	uc.logger.Debug().
		Str("entry_id", entry.ID).
		Str("applied", applied.String()).
		Str("status", string(entry.Status)).
		Msg("payment applied")

	return EntrySettlement{
		EntryID:         entry.ID,
		Kind:            entry.Kind,
		Applied:         applied,
		PreviouslyPaid:  paid,
		TotalPaid:       total,
		Remaining:       entry.Remaining(total),
		Status:          entry.Status,
		Overpaid:        overpaid,
		LedgerLine:      line,
		BankTransaction: bankTx,
	}, nil
}

func (uc *SettlementUseCase) recordError(err error) {
	if uc.metrics != nil {
		uc.metrics.SettlementErrors.WithLabelValues(errorType(err)).Inc()
	}
}

// idempotencyKey identifies one payment attempt on an entry.
func idempotencyKey(entryID string, input ApplyPaymentInput, actorID string) string {
	if input.IdempotencyKey != "" {
		return input.IdempotencyKey + "|" + entryID
	}

	return strings.Join([]string{
		entryID,
		domain.DateOf(input.PaymentDate).Format(time.DateOnly),
		input.Amount.String(),
		actorID,
	}, "|")
}

// errorType is the metrics label for err.
func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrPartialFailure):
		return "partial_failure"
	case errors.Is(err, domain.ErrConsistency):
		return "consistency"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	return "internal"
}
