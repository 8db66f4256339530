package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/postgres/generated"
	"github.com/iho/settleledger/internal/usecase"
)

// LedgerLineRepository implements usecase.LedgerLineRepository.
type LedgerLineRepository struct {
	queries *generated.Queries
}

// NewLedgerLineRepository creates a new LedgerLineRepository.
func NewLedgerLineRepository(db generated.DBTX) *LedgerLineRepository {
	return &LedgerLineRepository{
		queries: generated.New(db),
	}
}

// Create inserts a ledger line within a transaction. A clash on the
// idempotency key means the payment was already recorded.
func (r *LedgerLineRepository) Create(ctx context.Context, tx usecase.Transaction, line *domain.LedgerLine) error {
	err := txQueries(tx).CreateLedgerLine(ctx, generated.CreateLedgerLineParams{
		ID:              line.ID,
		EntryID:         line.EntryID,
		Amount:          decimalToNumeric(line.Amount),
		BankAccountID:   stringPtrToText(line.BankAccountID),
		TransactionDate: dateToPgDate(line.TransactionDate),
		ActorID:         line.ActorID,
		AttachmentRef:   line.AttachmentRef,
		Notes:           line.Notes,
		IdempotencyKey:  stringPtrToText(line.IdempotencyKey),
		CreatedAt:       timeToPgTimestamptz(line.CreatedAt),
	})
	if err != nil && isUniqueViolation(err) {
		return domain.ErrDuplicatePayment
	}

	return err
}

// ListByEntry lists the lines of an entry in creation order.
func (r *LedgerLineRepository) ListByEntry(ctx context.Context, entryID string) ([]*domain.LedgerLine, error) {
	rows, err := r.queries.ListLedgerLinesByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	return rowsToLedgerLines(rows), nil
}

// ListByEntryTx lists the lines of an entry inside a transaction.
func (r *LedgerLineRepository) ListByEntryTx(ctx context.Context, tx usecase.Transaction, entryID string) ([]*domain.LedgerLine, error) {
	rows, err := txQueries(tx).ListLedgerLinesByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	return rowsToLedgerLines(rows), nil
}

// GetByIdempotencyKey returns the line recorded under key, or nil.
func (r *LedgerLineRepository) GetByIdempotencyKey(ctx context.Context, tx usecase.Transaction, key string) (*domain.LedgerLine, error) {
	row, err := txQueries(tx).GetLedgerLineByIdempotencyKey(ctx, stringToText(key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return rowToLedgerLine(row), nil
}

// DeleteByEntry removes every line of an entry and returns how many went.
func (r *LedgerLineRepository) DeleteByEntry(ctx context.Context, tx usecase.Transaction, entryID string) (int64, error) {
	return txQueries(tx).DeleteLedgerLinesByEntry(ctx, entryID)
}

// SumByEntries returns the paid total per entry. Entries without lines are
// absent from the map.
func (r *LedgerLineRepository) SumByEntries(ctx context.Context, entryIDs []string) (map[string]decimal.Decimal, error) {
	rows, err := r.queries.SumLedgerLinesByEntries(ctx, entryIDs)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.EntryID] = numericToDecimal(row.Total)
	}

	return sums, nil
}

func rowsToLedgerLines(rows []generated.LedgerLine) []*domain.LedgerLine {
	lines := make([]*domain.LedgerLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, rowToLedgerLine(row))
	}

	return lines
}

func rowToLedgerLine(row generated.LedgerLine) *domain.LedgerLine {
	return &domain.LedgerLine{
		ID:              row.ID,
		EntryID:         row.EntryID,
		Amount:          numericToDecimal(row.Amount),
		BankAccountID:   textToStringPtr(row.BankAccountID),
		TransactionDate: pgDateToTime(row.TransactionDate),
		ActorID:         row.ActorID,
		AttachmentRef:   row.AttachmentRef,
		Notes:           row.Notes,
		IdempotencyKey:  textToStringPtr(row.IdempotencyKey),
		CreatedAt:       row.CreatedAt.Time,
	}
}
