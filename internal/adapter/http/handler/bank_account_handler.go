package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/settleledger/internal/adapter/http/dto"
	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
)

// BankAccountService defines the behavior needed by BankAccountHandler.
type BankAccountService interface {
	CreateBankAccount(ctx context.Context, input usecase.CreateBankAccountInput) (*domain.BankAccount, error)
	GetBankAccount(ctx context.Context, id string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context, input usecase.ListBankAccountsInput) ([]*domain.BankAccount, error)
	ListTransactions(ctx context.Context, accountID string, limit, offset int) ([]*domain.BankTransaction, error)
}

// BankAccountHandler handles bank account HTTP requests.
type BankAccountHandler struct {
	bankAccountUC BankAccountService
}

// NewBankAccountHandler creates a new BankAccountHandler.
func NewBankAccountHandler(bankAccountUC BankAccountService) *BankAccountHandler {
	return &BankAccountHandler{bankAccountUC: bankAccountUC}
}

// Create opens a new bank account.
func (h *BankAccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, domain.Role.CanAdminister) {
		return
	}

	var req dto.CreateBankAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.bankAccountUC.CreateBankAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create bank account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BankAccountFromDomain(account))
}

// Get retrieves a bank account by ID.
func (h *BankAccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing bank account ID", "")
		return
	}

	account, err := h.bankAccountUC.GetBankAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get bank account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BankAccountFromDomain(account))
}

// List lists the bank accounts of a company.
func (h *BankAccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.bankAccountUC.ListBankAccounts(r.Context(), usecase.ListBankAccountsInput{
		CompanyID: r.URL.Query().Get("company_id"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list bank accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBankAccountsResponse{
		BankAccounts: dto.BankAccountsFromDomain(accounts),
		Total:        len(accounts),
	})
}

// ListTransactions lists the movements of a bank account, oldest first.
func (h *BankAccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing bank account ID", "")
		return
	}

	txs, err := h.bankAccountUC.ListTransactions(r.Context(), id, parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BankTransactionsFromDomain(txs))
}
