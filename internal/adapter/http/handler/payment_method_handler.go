package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/settleledger/internal/adapter/http/dto"
	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
)

// PaymentMethodService defines the behavior needed by PaymentMethodHandler.
type PaymentMethodService interface {
	Create(ctx context.Context, input usecase.CreatePaymentMethodInput) (*domain.PaymentMethod, error)
	Get(ctx context.Context, id string) (*domain.PaymentMethod, error)
	List(ctx context.Context, companyID string) ([]*domain.PaymentMethod, error)
}

// PaymentMethodHandler handles payment method HTTP requests.
type PaymentMethodHandler struct {
	methodUC PaymentMethodService
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler.
func NewPaymentMethodHandler(methodUC PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodUC: methodUC}
}

// Create creates a payment method.
func (h *PaymentMethodHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, domain.Role.CanAdminister) {
		return
	}

	var req dto.CreatePaymentMethodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	method, err := h.methodUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create payment method", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentMethodFromDomain(method))
}

// Get retrieves a payment method by ID.
func (h *PaymentMethodHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing payment method ID", "")
		return
	}

	method, err := h.methodUC.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get payment method", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentMethodFromDomain(method))
}

// List lists the payment methods of a company.
func (h *PaymentMethodHandler) List(w http.ResponseWriter, r *http.Request) {
	methods, err := h.methodUC.List(r.Context(), r.URL.Query().Get("company_id"))
	if err != nil {
		writeDomainError(w, "failed to list payment methods", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentMethodsFromDomain(methods))
}
