package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/settleledger/internal/adapter/http/dto"
	"github.com/iho/settleledger/internal/usecase"
)

// ReconciliationService defines the read-only ledger checks.
type ReconciliationService interface {
	ReconcileBankAccount(ctx context.Context, accountID string) (*usecase.BankAccountReconciliation, error)
	CheckEntry(ctx context.Context, entryID string) (*usecase.EntryReconciliation, error)
	ReconcileCompany(ctx context.Context, companyID string) (*usecase.CompanyReconciliation, error)
}

// SummaryService defines the company summary.
type SummaryService interface {
	CompanySummary(ctx context.Context, companyID string, dueFrom, dueTo *time.Time) (*usecase.CompanySummary, error)
}

// ReconciliationHandler serves reconciliation reports and company summaries.
// Reports that find drift still answer 200; the body says what is off.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
	summaryUC        SummaryService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC ReconciliationService, summaryUC SummaryService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC, summaryUC: summaryUC}
}

// BankAccount reconciles one bank account.
func (h *ReconciliationHandler) BankAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing bank account ID", "")
		return
	}

	result, err := h.reconciliationUC.ReconcileBankAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to reconcile bank account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BankReconciliationFromUseCase(result))
}

// Entry checks one entry against its ledger lines.
func (h *ReconciliationHandler) Entry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	result, err := h.reconciliationUC.CheckEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to check entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryReconciliationFromUseCase(result))
}

// Company reconciles every bank account and entry of a company.
func (h *ReconciliationHandler) Company(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing company ID", "")
		return
	}

	report, err := h.reconciliationUC.ReconcileCompany(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to reconcile company", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CompanyReconciliationFromUseCase(report))
}

// Summary returns the executive summary of a company.
func (h *ReconciliationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing company ID", "")
		return
	}

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

	summary, err := h.summaryUC.CompanySummary(r.Context(), id, from, to)
	if err != nil {
		writeDomainError(w, "failed to build summary", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromUseCase(summary))
}
