package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/metrics"
)

// EntryUseCase handles entry reads and administrative changes.
type EntryUseCase struct {
	txManager TransactionManager
	entryRepo EntryRepository
	lineRepo  LedgerLineRepository
	auditRepo AuditRepository
	journal   journal
	clock     Clock
	logger    zerolog.Logger
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	repos Repositories,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *EntryUseCase {
	if clock == nil {
		clock = SystemClock()
	}

	return &EntryUseCase{
		txManager: txManager,
		entryRepo: repos.Entries,
		lineRepo:  repos.LedgerLines,
		auditRepo: repos.Audit,
		journal:   newJournal(repos, idGen, metrics),
		clock:     clock,
		logger:    logger.With().Str("component", "entry").Logger(),
	}
}

// EntryView is an entry as shown to readers: the persisted status next to
// the derived one, plus what has been paid so far.
type EntryView struct {
	Entry         *domain.Entry
	DisplayStatus domain.DisplayStatus
	Paid          decimal.Decimal
	Remaining     decimal.Decimal
}

func newEntryView(e *domain.Entry, paid decimal.Decimal, asOf time.Time) *EntryView {
	return &EntryView{
		Entry:         e,
		DisplayStatus: e.DisplayStatus(asOf),
		Paid:          paid,
		Remaining:     e.Remaining(paid),
	}
}

// Get returns one entry with its derived status as of today.
func (uc *EntryUseCase) Get(ctx context.Context, id string) (*EntryView, error) {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	paid, err := uc.lineRepo.SumByEntries(ctx, []string{entry.ID})
	if err != nil {
		return nil, err
	}

	return newEntryView(entry, paid[entry.ID], uc.clock.Now()), nil
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	CompanyID      string
	Kind           domain.EntryKind
	CounterpartyID string
	Status         string
	DueFrom        *time.Time
	DueTo          *time.Time
	// AsOf is the day statuses are derived for; zero means today.
	AsOf   time.Time
	Limit  int
	Offset int
}

// List returns entries of a company. Filtering by overdue matches pending
// entries due before AsOf; nothing is written.
func (uc *EntryUseCase) List(ctx context.Context, input ListEntriesInput) ([]*EntryView, error) {
	if strings.TrimSpace(input.CompanyID) == "" {
		return nil, domain.ErrMissingCompany
	}
	if input.Kind != "" && !input.Kind.IsValid() {
		return nil, domain.ErrInvalidKind
	}

	var status domain.DisplayStatus
	if input.Status != "" {
		var err error
		status, err = domain.ParseDisplayStatus(input.Status)
		if err != nil {
			return nil, err
		}
	}

	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = uc.clock.Now()
	}
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	entries, err := uc.entryRepo.List(ctx, EntryFilter{
		CompanyID:      input.CompanyID,
		Kind:           input.Kind,
		CounterpartyID: input.CounterpartyID,
		Status:         status,
		DueFrom:        input.DueFrom,
		DueTo:          input.DueTo,
		AsOf:           domain.DateOf(asOf),
		Limit:          limit,
		Offset:         offset,
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

	views := make([]*EntryView, len(entries))
	for i, e := range entries {
		views[i] = newEntryView(e, paid[e.ID], asOf)
	}

	return views, nil
}

// ListByPlan returns the installments of a plan in order.
func (uc *EntryUseCase) ListByPlan(ctx context.Context, planID string) ([]*domain.Entry, error) {
	return uc.entryRepo.ListByPlan(ctx, planID)
}

// ListLedgerLines returns the payments recorded on an entry.
func (uc *EntryUseCase) ListLedgerLines(ctx context.Context, entryID string) ([]*domain.LedgerLine, error) {
	if _, err := uc.entryRepo.GetByID(ctx, entryID); err != nil {
		return nil, err
	}

	return uc.lineRepo.ListByEntry(ctx, entryID)
}

// ListAuditTrail returns the audit records written for an entry, newest
// first.
func (uc *EntryUseCase) ListAuditTrail(ctx context.Context, entryID string, limit, offset int) ([]*domain.AuditLog, error) {
	if _, err := uc.entryRepo.GetByID(ctx, entryID); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.auditRepo.List(ctx, domain.AuditFilter{
		ResourceType: domain.ResourceTypeEntry,
		ResourceID:   entryID,
		Limit:        limit,
		Offset:       offset,
	})
}

// CancelEntry moves an unpaid pending entry to the terminal cancelled state.
func (uc *EntryUseCase) CancelEntry(ctx context.Context, id string) (*domain.Entry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, id)
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
	if len(lines) > 0 {
		return nil, domain.ErrEntryHasPayments
	}

	now := uc.clock.Now()
	before := *entry

	if err := uc.entryRepo.UpdateStatus(txCtx, tx, entry.ID, domain.EntryStatusCancelled, now); err != nil {
		return nil, err
	}
	entry.Status = domain.EntryStatusCancelled
	entry.UpdatedAt = now

	payload := map[string]any{
		"entry_id":   entry.ID,
		"company_id": entry.CompanyID,
	}
	if err := uc.journal.event(txCtx, tx, domain.AggregateTypeEntry, entry.ID, domain.EventTypeEntryCancelled, payload, now); err != nil {
		return nil, err
	}
	if err := uc.journal.audit(txCtx, tx, domain.AuditActionEntryCancel, domain.ResourceTypeEntry, entry.ID, before, entry, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.logger.Info().Str("entry_id", entry.ID).Msg("entry cancelled")

	return entry, nil
}
