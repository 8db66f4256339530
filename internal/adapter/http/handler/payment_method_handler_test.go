package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/settleledger/internal/adapter/http/dto"
	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
)

type paymentMethodServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreatePaymentMethodInput) (*domain.PaymentMethod, error)
	getFn    func(ctx context.Context, id string) (*domain.PaymentMethod, error)
	listFn   func(ctx context.Context, companyID string) ([]*domain.PaymentMethod, error)
}

func (s *paymentMethodServiceStub) Create(ctx context.Context, input usecase.CreatePaymentMethodInput) (*domain.PaymentMethod, error) {
	return s.createFn(ctx, input)
}

func (s *paymentMethodServiceStub) Get(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	return s.getFn(ctx, id)
}

func (s *paymentMethodServiceStub) List(ctx context.Context, companyID string) ([]*domain.PaymentMethod, error) {
	return s.listFn(ctx, companyID)
}

func TestPaymentMethodHandler_Create(t *testing.T) {
	handler := NewPaymentMethodHandler(&paymentMethodServiceStub{
		createFn: func(ctx context.Context, input usecase.CreatePaymentMethodInput) (*domain.PaymentMethod, error) {
			return &domain.PaymentMethod{ID: "pm-1", CompanyID: input.CompanyID, Name: input.Name, TermDays: input.TermDays}, nil
		},
	})

	body := `{"company_id":"company-1","name":"Boleto 30","term_days":30}`
	req := httptest.NewRequest(http.MethodPost, "/payment-methods", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp dto.PaymentMethodResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TermDays != 30 || resp.ID != "pm-1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestPaymentMethodHandler_Get_NotFound(t *testing.T) {
	handler := NewPaymentMethodHandler(&paymentMethodServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.PaymentMethod, error) {
			return nil, domain.ErrPaymentMethodNotFound
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/payment-methods/pm-9", nil), "id", "pm-9")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPaymentMethodHandler_List(t *testing.T) {
	handler := NewPaymentMethodHandler(&paymentMethodServiceStub{
		listFn: func(ctx context.Context, companyID string) ([]*domain.PaymentMethod, error) {
			if companyID != "company-1" {
				t.Fatalf("unexpected company %q", companyID)
			}
			return []*domain.PaymentMethod{{ID: "pm-1"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/payment-methods?company_id=company-1", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
