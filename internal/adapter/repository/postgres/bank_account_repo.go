package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/postgres/generated"
	"github.com/iho/settleledger/internal/usecase"
)

// BankAccountRepository implements usecase.BankAccountRepository.
type BankAccountRepository struct {
	queries *generated.Queries
}

// NewBankAccountRepository creates a new BankAccountRepository.
func NewBankAccountRepository(db generated.DBTX) *BankAccountRepository {
	return &BankAccountRepository{
		queries: generated.New(db),
	}
}

// Create creates a new bank account.
func (r *BankAccountRepository) Create(ctx context.Context, account *domain.BankAccount) error {
	_, err := r.queries.CreateBankAccount(ctx, generated.CreateBankAccountParams{
		ID:             account.ID,
		CompanyID:      account.CompanyID,
		Name:           account.Name,
		OpeningBalance: decimalToNumeric(account.OpeningBalance),
		CurrentBalance: decimalToNumeric(account.CurrentBalance),
		Version:        account.Version,
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})

	return err
}

// GetByID retrieves a bank account by ID.
func (r *BankAccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	row, err := r.queries.GetBankAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBankAccountNotFound
		}

		return nil, err
	}

	return rowToBankAccount(row), nil
}

// ListByCompany lists the bank accounts of a company.
func (r *BankAccountRepository) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*domain.BankAccount, error) {
	rows, err := r.queries.ListBankAccountsByCompany(ctx, generated.ListBankAccountsByCompanyParams{
		CompanyID: companyID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.BankAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToBankAccount(row))
	}

	return accounts, nil
}

// AdjustBalance adds delta to the current balance in a single UPDATE, so
// concurrent settlements through the same account never lose an update.
func (r *BankAccountRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (*domain.BankAccount, error) {
	row, err := txQueries(tx).AdjustBankAccountBalance(ctx, generated.AdjustBankAccountBalanceParams{
		Delta:     decimalToNumeric(delta),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
		ID:        id,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBankAccountNotFound
		}

		return nil, err
	}

	return rowToBankAccount(row), nil
}

func rowToBankAccount(row generated.BankAccount) *domain.BankAccount {
	return &domain.BankAccount{
		ID:             row.ID,
		CompanyID:      row.CompanyID,
		Name:           row.Name,
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		CurrentBalance: numericToDecimal(row.CurrentBalance),
		Version:        row.Version,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgTimestamptz(*t)
}

func pgTimestamptzToPtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func dateToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.DateOf(t), Valid: true}
}

func datePtrToPgDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return dateToPgDate(*t)
}

func pgDateToTime(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return domain.DateOf(d.Time)
}

func pgDateToPtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	v := pgDateToTime(d)
	return &v
}

func stringPtrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func stringToText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func textToStringPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}
