package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
)

func TestBatchUseCase_SettleBatch_AllEntries(t *testing.T) {
	f := newFixture(t)
	values := []string{"100", "250.25", "49.75"}
	ids := make([]string, len(values))
	for i, v := range values {
		ids[i] = "e" + string(rune('1'+i))
		f.entries.Put(pendingEntry(ids[i], domain.EntryKindPayable, v))
	}
	f.addBankAccount("bank-1", "company-1", "1000")

	result, err := f.batch().SettleBatch(context.Background(), usecase.BatchSettleInput{
		CompanyID:     "company-1",
		EntryIDs:      ids,
		PaymentDate:   date(2024, 1, 18),
		BankAccountID: strPtr("bank-1"),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assertDecimal(t, "400", result.TotalApplied)
	assertDecimal(t, "-400", result.BalanceDeltas["bank-1"])
	assertDecimal(t, "600", f.accounts.Balance("bank-1"))
	assert.Len(t, f.lines.Lines(), 3)
	assert.Len(t, f.bankTxs.Transactions(), 3)

	for _, id := range ids {
		assert.Equal(t, domain.EntryStatusSettled, f.entries.Get(id).Status)
	}
}

func TestBatchUseCase_SettleBatch_ReportsPerEntryFailures(t *testing.T) {
	f := newFixture(t)
	f.entries.Put(pendingEntry("e1", domain.EntryKindPayable, "100"))
	f.entries.Put(cancelledEntry("e2"))
	settled := pendingEntry("e3", domain.EntryKindPayable, "50")
	f.entries.Put(settled)
	f.addBankAccount("bank-1", "company-1", "1000")

	_, err := f.settlement().SettleEntry(context.Background(), "e3", date(2024, 1, 17), nil)
	require.NoError(t, err)

	result, err := f.batch().SettleBatch(context.Background(), usecase.BatchSettleInput{
		CompanyID:     "company-1",
		EntryIDs:      []string{"e1", "e2", "e3"},
		PaymentDate:   date(2024, 1, 18),
		BankAccountID: strPtr("bank-1"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Items, 3)
	assert.NoError(t, result.Items[0].Err)
	assert.ErrorIs(t, result.Items[1].Err, domain.ErrEntryCancelled)
	assert.ErrorIs(t, result.Items[2].Err, domain.ErrNothingToPay)
	assertDecimal(t, "100", result.TotalApplied)
	assertDecimal(t, "900", f.accounts.Balance("bank-1"))
}

func TestBatchUseCase_SettleBatch_RejectsSelectionBeforeWriting(t *testing.T) {
	receivable := func(id, counterparty string) *domain.Entry {
		e := pendingEntry(id, domain.EntryKindReceivable, "100")
		e.CounterpartyID = counterparty
		return e
	}
	otherCompany := pendingEntry("x1", domain.EntryKindPayable, "100")
	otherCompany.CompanyID = "company-2"

	tests := []struct {
		name    string
		entries []*domain.Entry
		ids     []string
		bank    *string
		wantErr error
	}{
		{
			name:    "receivables of different counterparties",
			entries: []*domain.Entry{receivable("r1", "customer-1"), receivable("r2", "customer-2")},
			ids:     []string{"r1", "r2"},
			wantErr: domain.ErrCounterpartyMismatch,
		},
		{
			name:    "mixed kinds",
			entries: []*domain.Entry{pendingEntry("p1", domain.EntryKindPayable, "10"), receivable("r1", "customer-1")},
			ids:     []string{"p1", "r1"},
			wantErr: domain.ErrKindMismatch,
		},
		{
			name:    "entry of another company",
			entries: []*domain.Entry{pendingEntry("p1", domain.EntryKindPayable, "10"), otherCompany},
			ids:     []string{"p1", "x1"},
			wantErr: domain.ErrCompanyMismatch,
		},
		{
			name:    "missing entry",
			entries: []*domain.Entry{pendingEntry("p1", domain.EntryKindPayable, "10")},
			ids:     []string{"p1", "p404"},
			wantErr: domain.ErrEntryNotFound,
		},
		{
			name:    "bank account of another company",
			entries: []*domain.Entry{pendingEntry("p1", domain.EntryKindPayable, "10"), pendingEntry("p2", domain.EntryKindPayable, "10")},
			ids:     []string{"p1", "p2"},
			bank:    strPtr("bank-2"),
			wantErr: domain.ErrBankAccountCompany,
		},
		{
			name:    "empty selection",
			wantErr: domain.ErrNoEntries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for _, e := range tt.entries {
				f.entries.Put(e)
			}
			f.addBankAccount("bank-2", "company-2", "1000")

			_, err := f.batch().SettleBatch(context.Background(), usecase.BatchSettleInput{
				CompanyID:     "company-1",
				EntryIDs:      tt.ids,
				PaymentDate:   date(2024, 1, 18),
				BankAccountID: tt.bank,
			})
			require.ErrorIs(t, err, tt.wantErr)

			assert.Empty(t, f.lines.Lines())
			assert.Empty(t, f.txManager.Transactions())
		})
	}
}

func TestBatchUseCase_SettleBatch_ReceivablesOfOneCounterparty(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"r1", "r2"} {
		e := pendingEntry(id, domain.EntryKindReceivable, "70")
		e.CounterpartyID = "customer-1"
		f.entries.Put(e)
	}
	f.addBankAccount("bank-1", "company-1", "0")

	result, err := f.batch().SettleBatch(context.Background(), usecase.BatchSettleInput{
		CompanyID:     "company-1",
		EntryIDs:      []string{"r1", "r2"},
		PaymentDate:   date(2024, 1, 18),
		BankAccountID: strPtr("bank-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assertDecimal(t, "140", f.accounts.Balance("bank-1"))
}

func TestBatchUseCase_SettleBatch_RequiresCompany(t *testing.T) {
	f := newFixture(t)

	_, err := f.batch().SettleBatch(context.Background(), usecase.BatchSettleInput{
		EntryIDs:    []string{"e1"},
		PaymentDate: date(2024, 1, 18),
	})
	require.ErrorIs(t, err, domain.ErrMissingCompany)
}
