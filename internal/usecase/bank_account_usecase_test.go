package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
)

func TestBankAccountUseCase_CreateBankAccount(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewBankAccountUseCase(f.repos(), f.idGen, f.clock)

	account, err := uc.CreateBankAccount(context.Background(), usecase.CreateBankAccountInput{
		CompanyID:      "company-1",
		Name:           "Operating",
		OpeningBalance: dec("1500.75"),
	})
	require.NoError(t, err)

	assert.Equal(t, "mock-id-1", account.ID)
	assertDecimal(t, "1500.75", account.CurrentBalance)
	assertDecimal(t, "1500.75", f.accounts.Balance(account.ID))
	assert.Equal(t, testNow, account.CreatedAt)
}

func TestBankAccountUseCase_CreateBankAccount_Validation(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewBankAccountUseCase(f.repos(), f.idGen, f.clock)

	_, err := uc.CreateBankAccount(context.Background(), usecase.CreateBankAccountInput{Name: "Operating"})
	assert.ErrorIs(t, err, domain.ErrMissingCompany)

	_, err = uc.CreateBankAccount(context.Background(), usecase.CreateBankAccountInput{CompanyID: "company-1", Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = uc.CreateBankAccount(context.Background(), usecase.CreateBankAccountInput{
		CompanyID:      "company-1",
		Name:           "Operating",
		OpeningBalance: dec("1000.005"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestBankAccountUseCase_ListTransactions(t *testing.T) {
	f := newFixture(t)
	f.addBankAccount("bank-1", "company-1", "100")
	f.entries.Put(pendingEntry("e1", domain.EntryKindReceivable, "20"))
	f.entries.Put(pendingEntry("e2", domain.EntryKindReceivable, "30"))
	uc := usecase.NewBankAccountUseCase(f.repos(), f.idGen, f.clock)

	for _, id := range []string{"e1", "e2"} {
		_, err := f.settlement().SettleEntry(context.Background(), id, date(2024, 1, 18), strPtr("bank-1"))
		require.NoError(t, err)
	}

	txs, err := uc.ListTransactions(context.Background(), "bank-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assertDecimal(t, "120", txs[0].BalanceAfter)
	assertDecimal(t, "150", txs[1].BalanceAfter)

	_, err = uc.ListTransactions(context.Background(), "bank-404", 10, 0)
	require.ErrorIs(t, err, domain.ErrBankAccountNotFound)
}

func TestBankAccountUseCase_ListBankAccounts(t *testing.T) {
	f := newFixture(t)
	f.addBankAccount("bank-1", "company-1", "1")
	f.addBankAccount("bank-2", "company-2", "2")
	uc := usecase.NewBankAccountUseCase(f.repos(), f.idGen, f.clock)

	accounts, err := uc.ListBankAccounts(context.Background(), usecase.ListBankAccountsInput{CompanyID: "company-1"})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "bank-1", accounts[0].ID)

	_, err = uc.ListBankAccounts(context.Background(), usecase.ListBankAccountsInput{})
	require.ErrorIs(t, err, domain.ErrMissingCompany)
}
