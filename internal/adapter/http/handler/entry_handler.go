package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/settleledger/internal/adapter/http/dto"
	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
)

// PlanService defines the behavior needed to create installment plans.
type PlanService interface {
	CreatePlan(ctx context.Context, input usecase.CreatePlanInput) (*usecase.Plan, error)
}

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	Get(ctx context.Context, id string) (*usecase.EntryView, error)
	List(ctx context.Context, input usecase.ListEntriesInput) ([]*usecase.EntryView, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.Entry, error)
	ListLedgerLines(ctx context.Context, entryID string) ([]*domain.LedgerLine, error)
	ListAuditTrail(ctx context.Context, entryID string, limit, offset int) ([]*domain.AuditLog, error)
	CancelEntry(ctx context.Context, id string) (*domain.Entry, error)
}

// EntryHandler handles plan and entry HTTP requests.
type EntryHandler struct {
	planUC  PlanService
	entryUC EntryService
	clock   usecase.Clock
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(planUC PlanService, entryUC EntryService, clock usecase.Clock) *EntryHandler {
	if clock == nil {
		clock = usecase.SystemClock()
	}
	return &EntryHandler{planUC: planUC, entryUC: entryUC, clock: clock}
}

// CreatePlan creates an installment plan.
func (h *EntryHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.planUC.CreatePlan(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create plan", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PlanFromUseCase(plan, h.clock.Now()))
}

// GetPlan lists the installments of a plan.
func (h *EntryHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "id")
	if planID == "" {
		writeError(w, http.StatusBadRequest, "missing plan ID", "")
		return
	}

	entries, err := h.entryUC.ListByPlan(r.Context(), planID)
	if err != nil {
		writeDomainError(w, "failed to get plan", err)
		return
	}
	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, "plan not found", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.PlanFromUseCase(&usecase.Plan{ID: planID, Entries: entries}, h.clock.Now()))
}

// List lists entries with derived statuses.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := parseDateQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date", err.Error())
		return
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date", err.Error())
		return
	}
	asOf, err := parseDateQuery(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of date", err.Error())
		return
	}

	input := usecase.ListEntriesInput{
		CompanyID:      q.Get("company_id"),
		Kind:           domain.EntryKind(q.Get("kind")),
		CounterpartyID: q.Get("counterparty_id"),
		Status:         q.Get("status"),
		DueFrom:        from,
		DueTo:          to,
		Limit:          parseIntQuery(r, "limit", 20),
		Offset:         parseIntQuery(r, "offset", 0),
	}
	if asOf != nil {
		input.AsOf = *asOf
	}

	views, err := h.entryUC.List(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromViews(views),
		Total:   len(views),
	})
}

// Get retrieves an entry with its paid and remaining amounts.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	view, err := h.entryUC.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromView(view))
}

// ListLedgerLines lists the payments recorded against an entry.
func (h *EntryHandler) ListLedgerLines(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	lines, err := h.entryUC.ListLedgerLines(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to list ledger lines", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerLinesFromDomain(lines))
}

// ListAuditTrail lists the audit rows written for an entry.
func (h *EntryHandler) ListAuditTrail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	logs, err := h.entryUC.ListAuditTrail(r.Context(), id, parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list audit trail", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}

// Cancel administratively cancels an entry without payments.
func (h *EntryHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, domain.Role.CanAdminister) {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.entryUC.CancelEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to cancel entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry, h.clock.Now()))
}
