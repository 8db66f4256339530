package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
)

func (f *fixture) entryUseCase() *usecase.EntryUseCase {
	return usecase.NewEntryUseCase(f.txManager, f.repos(), f.idGen, f.clock, zerolog.Nop(), f.metrics)
}

func TestEntryUseCase_Get_DerivesOverdue(t *testing.T) {
	f := newFixture(t)
	f.entries.Put(pendingEntry("e1", domain.EntryKindPayable, "100"))

	view, err := f.entryUseCase().Get(context.Background(), "e1")
	require.NoError(t, err)

	assert.Equal(t, domain.DisplayStatusOverdue, view.DisplayStatus)
	assert.Equal(t, domain.EntryStatusPending, view.Entry.Status)
	assertDecimal(t, "100", view.Remaining)

	// Reading never persists the derived status.
	assert.Equal(t, domain.EntryStatusPending, f.entries.Get("e1").Status)
}

func TestEntryUseCase_Get_ShowsPaidAndRemaining(t *testing.T) {
	f := newFixture(t)
	f.entries.Put(pendingEntry("e1", domain.EntryKindReceivable, "100"))

	_, err := f.settlement().ApplyPayment(context.Background(), usecase.ApplyPaymentInput{
		EntryIDs:    []string{"e1"},
		Amount:      domain.ExactAmount(dec("35")),
		PaymentDate: date(2024, 1, 18),
	})
	require.NoError(t, err)

	view, err := f.entryUseCase().Get(context.Background(), "e1")
	require.NoError(t, err)
	assertDecimal(t, "35", view.Paid)
	assertDecimal(t, "65", view.Remaining)
}

func TestEntryUseCase_List_Filters(t *testing.T) {
	f := newFixture(t)

	overdue := pendingEntry("e1", domain.EntryKindPayable, "10")
	dueLater := pendingEntry("e2", domain.EntryKindPayable, "20")
	dueLater.DueDate = date(2024, 2, 1)
	dueToday := pendingEntry("e3", domain.EntryKindPayable, "30")
	dueToday.DueDate = date(2024, 1, 20)
	receivable := pendingEntry("e4", domain.EntryKindReceivable, "40")
	otherCompany := pendingEntry("e5", domain.EntryKindPayable, "50")
	otherCompany.CompanyID = "company-2"
	for _, e := range []*domain.Entry{overdue, dueLater, dueToday, receivable, otherCompany} {
		f.entries.Put(e)
	}

	tests := []struct {
		name    string
		input   usecase.ListEntriesInput
		wantIDs []string
	}{
		{
			name:    "whole company",
			input:   usecase.ListEntriesInput{CompanyID: "company-1"},
			wantIDs: []string{"e1", "e4", "e3", "e2"},
		},
		{
			name:    "overdue only",
			input:   usecase.ListEntriesInput{CompanyID: "company-1", Status: "overdue"},
			wantIDs: []string{"e1", "e4"},
		},
		{
			name:    "pending excludes overdue",
			input:   usecase.ListEntriesInput{CompanyID: "company-1", Status: "pending"},
			wantIDs: []string{"e3", "e2"},
		},
		{
			name:    "payables only",
			input:   usecase.ListEntriesInput{CompanyID: "company-1", Kind: domain.EntryKindPayable, Status: "overdue"},
			wantIDs: []string{"e1"},
		},
		{
			name:    "due window",
			input:   usecase.ListEntriesInput{CompanyID: "company-1", DueFrom: timePtr(date(2024, 1, 16)), DueTo: timePtr(date(2024, 1, 31))},
			wantIDs: []string{"e3"},
		},
		{
			name:    "as of an earlier day",
			input:   usecase.ListEntriesInput{CompanyID: "company-1", Status: "overdue", AsOf: date(2024, 1, 10)},
			wantIDs: nil,
		},
		{
			name:    "paged",
			input:   usecase.ListEntriesInput{CompanyID: "company-1", Limit: 2, Offset: 1},
			wantIDs: []string{"e4", "e3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := f.entryUseCase().List(context.Background(), tt.input)
			require.NoError(t, err)

			var ids []string
			for _, v := range views {
				ids = append(ids, v.Entry.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestEntryUseCase_List_Validation(t *testing.T) {
	f := newFixture(t)
	uc := f.entryUseCase()

	_, err := uc.List(context.Background(), usecase.ListEntriesInput{})
	assert.ErrorIs(t, err, domain.ErrMissingCompany)

	_, err = uc.List(context.Background(), usecase.ListEntriesInput{CompanyID: "company-1", Status: "late"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = uc.List(context.Background(), usecase.ListEntriesInput{CompanyID: "company-1", Kind: "loan"})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestEntryUseCase_CancelEntry(t *testing.T) {
	f := newFixture(t)
	f.entries.Put(pendingEntry("e1", domain.EntryKindPayable, "100"))

	entry, err := f.entryUseCase().CancelEntry(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusCancelled, entry.Status)
	assert.Equal(t, domain.EntryStatusCancelled, f.entries.Get("e1").Status)

	events := f.outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeEntryCancelled, events[0].EventType)

	_, err = f.entryUseCase().CancelEntry(context.Background(), "e1")
	require.ErrorIs(t, err, domain.ErrEntryCancelled)
}

func TestEntryUseCase_CancelEntry_WithPayments(t *testing.T) {
	f := newFixture(t)
	f.entries.Put(pendingEntry("e1", domain.EntryKindPayable, "100"))

	_, err := f.settlement().ApplyPayment(context.Background(), usecase.ApplyPaymentInput{
		EntryIDs:    []string{"e1"},
		Amount:      domain.ExactAmount(dec("10")),
		PaymentDate: date(2024, 1, 18),
	})
	require.NoError(t, err)

	_, err = f.entryUseCase().CancelEntry(context.Background(), "e1")
	require.ErrorIs(t, err, domain.ErrEntryHasPayments)
	assert.Equal(t, domain.EntryStatusPending, f.entries.Get("e1").Status)
}

func TestEntryUseCase_ListLedgerLines(t *testing.T) {
	f := newFixture(t)
	f.entries.Put(pendingEntry("e1", domain.EntryKindPayable, "100"))
	uc := f.entryUseCase()

	lines, err := uc.ListLedgerLines(context.Background(), "e1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = uc.ListLedgerLines(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntryUseCase_ListAuditTrail(t *testing.T) {
	f := newFixture(t)
	f.entries.Put(pendingEntry("e1", domain.EntryKindPayable, "100"))
	f.entries.Put(pendingEntry("e2", domain.EntryKindPayable, "50"))
	uc := f.entryUseCase()

	_, err := f.settlement().SettleEntry(context.Background(), "e1", date(2024, 1, 18), nil)
	require.NoError(t, err)
	_, err = uc.CancelEntry(context.Background(), "e2")
	require.NoError(t, err)

	logs, err := uc.ListAuditTrail(context.Background(), "e1", 0, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, string(domain.AuditActionSettlementApply), logs[0].Action)
	assert.Equal(t, "pending", logs[0].BeforeState["Status"])
	assert.Equal(t, "settled", logs[0].AfterState["Status"])

	_, err = uc.ListAuditTrail(context.Background(), "missing", 0, 0)
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
}
