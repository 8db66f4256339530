package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/settleledger/internal/domain"
)

// BankAccountUseCase handles bank account business logic.
type BankAccountUseCase struct {
	accountRepo BankAccountRepository
	bankTxRepo  BankTransactionRepository
	idGen       IDGenerator
	clock       Clock
}

// NewBankAccountUseCase creates a new BankAccountUseCase.
func NewBankAccountUseCase(repos Repositories, idGen IDGenerator, clock Clock) *BankAccountUseCase {
	if clock == nil {
		clock = SystemClock()
	}

	return &BankAccountUseCase{
		accountRepo: repos.BankAccounts,
		bankTxRepo:  repos.BankTransactions,
		idGen:       idGen,
		clock:       clock,
	}
}

// CreateBankAccountInput represents input for creating a bank account.
type CreateBankAccountInput struct {
	CompanyID      string
	Name           string
	OpeningBalance decimal.Decimal
}

// CreateBankAccount creates a new bank account whose current balance starts
// at the opening balance.
func (uc *BankAccountUseCase) CreateBankAccount(ctx context.Context, input CreateBankAccountInput) (*domain.BankAccount, error) {
	if strings.TrimSpace(input.CompanyID) == "" {
		return nil, domain.ErrMissingCompany
	}
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateMoneyScale(input.OpeningBalance); err != nil {
		return nil, err
	}

	now := uc.clock.Now()

	account := &domain.BankAccount{
		ID:             uc.idGen.Generate(),
		CompanyID:      input.CompanyID,
		Name:           strings.TrimSpace(input.Name),
		OpeningBalance: input.OpeningBalance,
		CurrentBalance: input.OpeningBalance,
		Version:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetBankAccount retrieves a bank account by ID.
func (uc *BankAccountUseCase) GetBankAccount(ctx context.Context, id string) (*domain.BankAccount, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListBankAccountsInput represents input for listing bank accounts.
type ListBankAccountsInput struct {
	CompanyID string
	Limit     int
	Offset    int
}

// ListBankAccounts lists the bank accounts of a company.
func (uc *BankAccountUseCase) ListBankAccounts(ctx context.Context, input ListBankAccountsInput) ([]*domain.BankAccount, error) {
	if strings.TrimSpace(input.CompanyID) == "" {
		return nil, domain.ErrMissingCompany
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.ListByCompany(ctx, input.CompanyID, limit, offset)
}

// ListTransactions lists the bank transactions of an account, newest first.
func (uc *BankAccountUseCase) ListTransactions(ctx context.Context, accountID string, limit, offset int) ([]*domain.BankTransaction, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.bankTxRepo.ListByAccount(ctx, accountID, limit, offset)
}
