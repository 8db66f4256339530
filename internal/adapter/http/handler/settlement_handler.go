package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/settleledger/internal/adapter/http/dto"
	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
)

// SettlementService defines the behavior needed to record payments.
type SettlementService interface {
	ApplyPayment(ctx context.Context, input usecase.ApplyPaymentInput) (*usecase.SettlementResult, error)
}

// BatchService defines the behavior needed to settle batches.
type BatchService interface {
	SettleBatch(ctx context.Context, input usecase.BatchSettleInput) (*usecase.SettlementResult, error)
}

// ReversalService defines the behavior needed to undo settlements.
type ReversalService interface {
	UndoSettlement(ctx context.Context, entryID string) (*usecase.ReversalResult, error)
}

// SettlementHandler handles payment HTTP requests.
type SettlementHandler struct {
	settlementUC SettlementService
	batchUC      BatchService
	reversalUC   ReversalService
	clock        usecase.Clock
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(
	settlementUC SettlementService,
	batchUC BatchService,
	reversalUC ReversalService,
	clock usecase.Clock,
) *SettlementHandler {
	if clock == nil {
		clock = usecase.SystemClock()
	}
	return &SettlementHandler{
		settlementUC: settlementUC,
		batchUC:      batchUC,
		reversalUC:   reversalUC,
		clock:        clock,
	}
}

// Apply records a payment against one or more entries.
func (h *SettlementHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, domain.Role.CanSettle) {
		return
	}

	var req dto.ApplyPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := req.ToUseCaseInput()
	if input.IdempotencyKey == "" {
		input.IdempotencyKey = r.Header.Get(IdempotencyHeader)
	}

	result, err := h.settlementUC.ApplyPayment(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to apply payment", err)
		return
	}

	writeJSON(w, settlementStatus(result), dto.SettlementFromUseCase(result))
}

// Batch settles the remaining amount of every listed entry.
func (h *SettlementHandler) Batch(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, domain.Role.CanSettle) {
		return
	}

	var req dto.BatchSettleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := req.ToUseCaseInput()
	if input.IdempotencyKey == "" {
		input.IdempotencyKey = r.Header.Get(IdempotencyHeader)
	}

	result, err := h.batchUC.SettleBatch(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to settle batch", err)
		return
	}

	writeJSON(w, settlementStatus(result), dto.SettlementFromUseCase(result))
}

// Undo removes every payment of an entry and returns it to pending.
func (h *SettlementHandler) Undo(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, domain.Role.CanSettle) {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	result, err := h.reversalUC.UndoSettlement(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to undo settlement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReversalFromUseCase(result, h.clock.Now()))
}

// settlementStatus is 201 when every entry was paid and 207 when a batch
// settled only some of them.
func settlementStatus(result *usecase.SettlementResult) int {
	if result.Failed > 0 {
		return http.StatusMultiStatus
	}
	return http.StatusCreated
}
