package postgres

import (
	"context"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/postgres/generated"
	"github.com/iho/settleledger/internal/usecase"
)

// BankTransactionRepository implements usecase.BankTransactionRepository.
type BankTransactionRepository struct {
	queries *generated.Queries
}

// NewBankTransactionRepository creates a new BankTransactionRepository.
func NewBankTransactionRepository(db generated.DBTX) *BankTransactionRepository {
	return &BankTransactionRepository{
		queries: generated.New(db),
	}
}

// Create inserts a bank transaction within a transaction.
func (r *BankTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, bankTx *domain.BankTransaction) error {
	return txQueries(tx).CreateBankTransaction(ctx, generated.CreateBankTransactionParams{
		ID:              bankTx.ID,
		AccountID:       bankTx.AccountID,
		Direction:       string(bankTx.Direction),
		Value:           decimalToNumeric(bankTx.Value),
		TransactionDate: dateToPgDate(bankTx.TransactionDate),
		EntryRef:        bankTx.EntryRef,
		LedgerLineID:    bankTx.LedgerLineID,
		BalanceAfter:    decimalToNumeric(bankTx.BalanceAfter),
		CreatedAt:       timeToPgTimestamptz(bankTx.CreatedAt),
	})
}

// ListByAccount lists a page of an account's transactions, oldest first.
func (r *BankTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.BankTransaction, error) {
	rows, err := r.queries.ListBankTransactionsByAccount(ctx, generated.ListBankTransactionsByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToBankTransactions(rows), nil
}

// ListAllByAccount lists every transaction of an account for reconciliation.
func (r *BankTransactionRepository) ListAllByAccount(ctx context.Context, accountID string) ([]*domain.BankTransaction, error) {
	rows, err := r.queries.ListAllBankTransactionsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return rowsToBankTransactions(rows), nil
}

// DeleteByEntry removes the transactions an entry produced and returns them.
func (r *BankTransactionRepository) DeleteByEntry(ctx context.Context, tx usecase.Transaction, entryID string) ([]*domain.BankTransaction, error) {
	rows, err := txQueries(tx).DeleteBankTransactionsByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	return rowsToBankTransactions(rows), nil
}

func rowsToBankTransactions(rows []generated.BankTransaction) []*domain.BankTransaction {
	txs := make([]*domain.BankTransaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, &domain.BankTransaction{
			ID:              row.ID,
			AccountID:       row.AccountID,
			Direction:       domain.Direction(row.Direction),
			Value:           numericToDecimal(row.Value),
			TransactionDate: pgDateToTime(row.TransactionDate),
			EntryRef:        row.EntryRef,
			LedgerLineID:    row.LedgerLineID,
			BalanceAfter:    numericToDecimal(row.BalanceAfter),
			CreatedAt:       row.CreatedAt.Time,
		})
	}

	return txs
}
