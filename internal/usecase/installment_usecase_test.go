package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
	"github.com/iho/settleledger/internal/usecase/mocks"
)

func planInput() usecase.CreatePlanInput {
	return usecase.CreatePlanInput{
		CompanyID:        "company-1",
		Kind:             domain.EntryKindReceivable,
		CounterpartyID:   "customer-1",
		Description:      "Annual licence",
		Total:            dec("100.00"),
		FirstDueDate:     date(2024, 1, 31),
		InstallmentCount: 3,
	}
}

func TestInstallmentUseCase_CreatePlan(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewInstallmentUseCase(f.txManager, f.repos(), nil, f.idGen, f.clock, zerolog.Nop(), f.metrics)

	plan, err := uc.CreatePlan(context.Background(), planInput())
	require.NoError(t, err)

	assert.Equal(t, "mock-id-1", plan.ID)
	require.Len(t, plan.Entries, 3)

	wantValues := []string{"33.33", "33.33", "33.34"}
	wantDue := []time.Time{date(2024, 1, 31), date(2024, 2, 29), date(2024, 3, 31)}
	for i, e := range plan.Entries {
		stored := f.entries.Get(e.ID)
		require.NotNil(t, stored)
		assert.Equal(t, plan.ID, stored.PlanID)
		assert.Equal(t, domain.EntryStatusPending, stored.Status)
		assertDecimal(t, wantValues[i], stored.Value)
		assert.Equal(t, wantDue[i], stored.DueDate)
	}

	assert.Empty(t, f.lines.Lines())
	assert.Empty(t, f.bankTxs.Transactions())

	events := f.outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypePlanCreated, events[0].EventType)
	require.Len(t, f.audit.Logs(), 1)
	assert.True(t, f.txManager.Transactions()[0].Committed)
}

func TestInstallmentUseCase_CreatePlan_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*usecase.CreatePlanInput)
		wantErr error
	}{
		{name: "zero installments", mutate: func(in *usecase.CreatePlanInput) { in.InstallmentCount = 0 }, wantErr: domain.ErrInvalidInstallmentCount},
		{name: "negative offset", mutate: func(in *usecase.CreatePlanInput) { in.DayOffset = intPtr(-1) }, wantErr: domain.ErrInvalidDayOffset},
		{name: "zero total", mutate: func(in *usecase.CreatePlanInput) { in.Total = dec("0") }, wantErr: domain.ErrValidation},
		{name: "sub-cent total", mutate: func(in *usecase.CreatePlanInput) { in.Total = dec("100.005") }, wantErr: domain.ErrInvalidAmount},
		{name: "unknown kind", mutate: func(in *usecase.CreatePlanInput) { in.Kind = "loan" }, wantErr: domain.ErrInvalidKind},
		{name: "missing due date", mutate: func(in *usecase.CreatePlanInput) { in.FirstDueDate = time.Time{} }, wantErr: domain.ErrMissingDueDate},
		{name: "total too small to split", mutate: func(in *usecase.CreatePlanInput) { in.Total = dec("0.02") }, wantErr: domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			uc := usecase.NewInstallmentUseCase(f.txManager, f.repos(), nil, f.idGen, f.clock, zerolog.Nop(), nil)

			in := planInput()
			tt.mutate(&in)
			_, err := uc.CreatePlan(context.Background(), in)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.txManager.Transactions())
		})
	}
}

func TestInstallmentUseCase_CreatePlan_PaymentMethodTerm(t *testing.T) {
	ctrl := gomock.NewController(t)
	methods := mocks.NewMockPaymentMethodRepository(ctrl)
	methods.EXPECT().
		GetByID(gomock.Any(), "pm-1").
		Return(&domain.PaymentMethod{ID: "pm-1", CompanyID: "company-1", Name: "Net 10", TermDays: 10}, nil)

	f := newFixture(t)
	pm := usecase.NewPaymentMethodUseCase(methods, nil, f.idGen, f.clock, zerolog.Nop(), nil)
	uc := usecase.NewInstallmentUseCase(f.txManager, f.repos(), pm, f.idGen, f.clock, zerolog.Nop(), nil)

	in := planInput()
	in.FirstDueDate = date(2024, 1, 10)
	in.InstallmentCount = 2
	in.PaymentMethodID = strPtr("pm-1")

	plan, err := uc.CreatePlan(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)
	assert.Equal(t, date(2024, 1, 20), plan.Entries[0].DueDate)
	assert.Equal(t, date(2024, 2, 20), plan.Entries[1].DueDate)
	assert.Equal(t, "pm-1", *plan.Entries[0].PaymentMethodID)
}

func TestInstallmentUseCase_CreatePlan_ExplicitOffsetWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	methods := mocks.NewMockPaymentMethodRepository(ctrl)

	f := newFixture(t)
	pm := usecase.NewPaymentMethodUseCase(methods, nil, f.idGen, f.clock, zerolog.Nop(), nil)
	uc := usecase.NewInstallmentUseCase(f.txManager, f.repos(), pm, f.idGen, f.clock, zerolog.Nop(), nil)

	in := planInput()
	in.FirstDueDate = date(2024, 1, 10)
	in.InstallmentCount = 1
	in.PaymentMethodID = strPtr("pm-1")
	in.DayOffset = intPtr(0)

	plan, err := uc.CreatePlan(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 10), plan.Entries[0].DueDate)
}

func TestInstallmentUseCase_CreatePlan_PaymentMethodOfAnotherCompany(t *testing.T) {
	ctrl := gomock.NewController(t)
	methods := mocks.NewMockPaymentMethodRepository(ctrl)
	methods.EXPECT().
		GetByID(gomock.Any(), "pm-1").
		Return(&domain.PaymentMethod{ID: "pm-1", CompanyID: "company-2", TermDays: 10}, nil)

	f := newFixture(t)
	pm := usecase.NewPaymentMethodUseCase(methods, nil, f.idGen, f.clock, zerolog.Nop(), nil)
	uc := usecase.NewInstallmentUseCase(f.txManager, f.repos(), pm, f.idGen, f.clock, zerolog.Nop(), nil)

	in := planInput()
	in.PaymentMethodID = strPtr("pm-1")

	_, err := uc.CreatePlan(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrPaymentMethodNotFound)
}

func TestInstallmentUseCase_CreatePlan_StoreFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	calls := 0
	f.entries.CreateTxFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
		calls++
		if calls == 2 {
			return errors.New("disk full")
		}
		return nil
	}
	uc := usecase.NewInstallmentUseCase(f.txManager, f.repos(), nil, f.idGen, f.clock, zerolog.Nop(), nil)

	_, err := uc.CreatePlan(context.Background(), planInput())
	require.Error(t, err)

	tx := f.txManager.Transactions()[0]
	assert.False(t, tx.Committed)
	assert.True(t, tx.RolledBack)
	assert.Empty(t, f.outbox.Events())
}

func intPtr(i int) *int {
	return &i
}
