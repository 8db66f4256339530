package usecase_test

import (
	"context"
	"encoding/json"
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

func TestPaymentMethodUseCase_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPaymentMethodRepository(ctrl)

	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *domain.PaymentMethod) error {
			assert.Equal(t, "company-1", m.CompanyID)
			assert.Equal(t, "Net 30", m.Name)
			assert.Equal(t, 30, m.TermDays)
			return nil
		})

	uc := usecase.NewPaymentMethodUseCase(repo, nil, mocks.NewMockIDGenerator(), mocks.NewMockClock(testNow), zerolog.Nop(), nil)
	method, err := uc.Create(context.Background(), usecase.CreatePaymentMethodInput{
		CompanyID: "company-1",
		Name:      "  Net 30 ",
		TermDays:  30,
	})
	require.NoError(t, err)
	assert.Equal(t, "mock-id-1", method.ID)
	assert.Equal(t, testNow, method.CreatedAt)
}

func TestPaymentMethodUseCase_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreatePaymentMethodInput
		wantErr error
	}{
		{name: "missing company", input: usecase.CreatePaymentMethodInput{Name: "Net 30"}, wantErr: domain.ErrMissingCompany},
		{name: "empty name", input: usecase.CreatePaymentMethodInput{CompanyID: "company-1"}, wantErr: domain.ErrValidation},
		{name: "negative term", input: usecase.CreatePaymentMethodInput{CompanyID: "company-1", Name: "Prepaid", TermDays: -1}, wantErr: domain.ErrInvalidDayOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockPaymentMethodRepository(ctrl)

			uc := usecase.NewPaymentMethodUseCase(repo, nil, mocks.NewMockIDGenerator(), nil, zerolog.Nop(), nil)
			_, err := uc.Create(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPaymentMethodUseCase_Get_CacheMissThenSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPaymentMethodRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)
	method := &domain.PaymentMethod{ID: "pm-1", CompanyID: "company-1", Name: "Net 15", TermDays: 15, CreatedAt: testNow}

	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), "payment_method:pm-1").Return(nil, nil),
		repo.EXPECT().GetByID(gomock.Any(), "pm-1").Return(method, nil),
		cache.EXPECT().
			Set(gomock.Any(), "payment_method:pm-1", gomock.Any(), usecase.PaymentMethodCacheTTL).
			DoAndReturn(func(_ context.Context, _ string, data []byte, _ time.Duration) error {
				var cached domain.PaymentMethod
				require.NoError(t, json.Unmarshal(data, &cached))
				assert.Equal(t, 15, cached.TermDays)
				return nil
			}),
	)

	uc := usecase.NewPaymentMethodUseCase(repo, cache, mocks.NewMockIDGenerator(), nil, zerolog.Nop(), nil)
	got, err := uc.Get(context.Background(), "pm-1")
	require.NoError(t, err)
	assert.Equal(t, method, got)
}

func TestPaymentMethodUseCase_Get_CustomCacheTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPaymentMethodRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)
	method := &domain.PaymentMethod{ID: "pm-2", CompanyID: "company-1", Name: "Net 30", TermDays: 30, CreatedAt: testNow}

	cache.EXPECT().Get(gomock.Any(), "payment_method:pm-2").Return(nil, nil)
	repo.EXPECT().GetByID(gomock.Any(), "pm-2").Return(method, nil)
	cache.EXPECT().Set(gomock.Any(), "payment_method:pm-2", gomock.Any(), time.Minute).Return(nil)

	uc := usecase.NewPaymentMethodUseCase(repo, cache, mocks.NewMockIDGenerator(), nil, zerolog.Nop(), nil).
		WithCacheTTL(time.Minute)
	_, err := uc.Get(context.Background(), "pm-2")
	require.NoError(t, err)
}

func TestPaymentMethodUseCase_Get_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPaymentMethodRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	data, err := json.Marshal(domain.PaymentMethod{ID: "pm-1", CompanyID: "company-1", Name: "Net 15", TermDays: 15})
	require.NoError(t, err)
	cache.EXPECT().Get(gomock.Any(), "payment_method:pm-1").Return(data, nil)

	uc := usecase.NewPaymentMethodUseCase(repo, cache, mocks.NewMockIDGenerator(), nil, zerolog.Nop(), nil)
	got, err := uc.Get(context.Background(), "pm-1")
	require.NoError(t, err)
	assert.Equal(t, 15, got.TermDays)
}

func TestPaymentMethodUseCase_Get_CacheErrorFallsBackToRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPaymentMethodRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)
	method := &domain.PaymentMethod{ID: "pm-1", CompanyID: "company-1", Name: "Net 15", TermDays: 15}

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
	repo.EXPECT().GetByID(gomock.Any(), "pm-1").Return(method, nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	uc := usecase.NewPaymentMethodUseCase(repo, cache, mocks.NewMockIDGenerator(), nil, zerolog.Nop(), nil)
	got, err := uc.Get(context.Background(), "pm-1")
	require.NoError(t, err)
	assert.Equal(t, "pm-1", got.ID)
}

func TestPaymentMethodUseCase_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPaymentMethodRepository(ctrl)
	repo.EXPECT().GetByID(gomock.Any(), "pm-404").Return(nil, domain.ErrPaymentMethodNotFound)

	uc := usecase.NewPaymentMethodUseCase(repo, nil, mocks.NewMockIDGenerator(), nil, zerolog.Nop(), nil)
	_, err := uc.Get(context.Background(), "pm-404")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
