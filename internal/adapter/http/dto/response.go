package dto

import (
	"time"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
	"github.com/shopspring/decimal"
)

// EntryResponse represents an entry in API responses. Paid and Remaining are
// present when the ledger lines were read along with the entry.
type EntryResponse struct {
	ID               string           `json:"id"`
	CompanyID        string           `json:"company_id"`
	Kind             string           `json:"kind"`
	CounterpartyID   string           `json:"counterparty_id"`
	Description      string           `json:"description"`
	Value            decimal.Decimal  `json:"value"`
	DueDate          Date             `json:"due_date"`
	Status           string           `json:"status"`
	DisplayStatus    string           `json:"display_status"`
	Paid             *decimal.Decimal `json:"paid,omitempty"`
	Remaining        *decimal.Decimal `json:"remaining,omitempty"`
	PaymentDate      *Date            `json:"payment_date,omitempty"`
	BankAccountID    *string          `json:"bank_account_id,omitempty"`
	InstallmentIndex int              `json:"installment_index"`
	InstallmentCount int              `json:"installment_count"`
	PlanID           string           `json:"plan_id"`
	PaymentMethodID  *string          `json:"payment_method_id,omitempty"`
	IsRecurring      bool             `json:"is_recurring"`
	ApprovedBy       *string          `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time       `json:"approved_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// EntryFromDomain converts a domain entry to response, deriving the display
// status as of asOf.
func EntryFromDomain(e *domain.Entry, asOf time.Time) *EntryResponse {
	resp := &EntryResponse{
		ID:               e.ID,
		CompanyID:        e.CompanyID,
		Kind:             string(e.Kind),
		CounterpartyID:   e.CounterpartyID,
		Description:      e.Description,
		Value:            e.Value,
		DueDate:          NewDate(e.DueDate),
		Status:           string(e.Status),
		DisplayStatus:    string(e.DisplayStatus(asOf)),
		BankAccountID:    e.BankAccountID,
		InstallmentIndex: e.InstallmentIndex,
		InstallmentCount: e.InstallmentCount,
		PlanID:           e.PlanID,
		PaymentMethodID:  e.PaymentMethodID,
		IsRecurring:      e.IsRecurring,
		ApprovedBy:       e.ApprovedBy,
		ApprovedAt:       e.ApprovedAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if e.PaymentDate != nil {
		d := NewDate(*e.PaymentDate)
		resp.PaymentDate = &d
	}
	return resp
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry, asOf time.Time) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e, asOf)
	}
	return result
}

// EntryFromView converts an entry view to response.
func EntryFromView(v *usecase.EntryView) *EntryResponse {
	resp := EntryFromDomain(v.Entry, time.Time{})
	resp.DisplayStatus = string(v.DisplayStatus)
	paid, remaining := v.Paid, v.Remaining
	resp.Paid = &paid
	resp.Remaining = &remaining
	return resp
}

// EntriesFromViews converts entry views to responses.
func EntriesFromViews(views []*usecase.EntryView) []*EntryResponse {
	result := make([]*EntryResponse, len(views))
	for i, v := range views {
		result[i] = EntryFromView(v)
	}
	return result
}

// ListEntriesResponse represents a page of entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int              `json:"total"`
}

// PlanResponse represents a created installment plan.
type PlanResponse struct {
	PlanID  string           `json:"plan_id"`
	Entries []*EntryResponse `json:"entries"`
}

// PlanFromUseCase converts a plan to response.
func PlanFromUseCase(p *usecase.Plan, asOf time.Time) *PlanResponse {
	return &PlanResponse{
		PlanID:  p.ID,
		Entries: EntriesFromDomain(p.Entries, asOf),
	}
}

// LedgerLineResponse represents a ledger line in API responses.
type LedgerLineResponse struct {
	ID              string          `json:"id"`
	EntryID         string          `json:"entry_id"`
	Amount          decimal.Decimal `json:"amount"`
	BankAccountID   *string         `json:"bank_account_id,omitempty"`
	TransactionDate Date            `json:"transaction_date"`
	ActorID         string          `json:"actor_id"`
	AttachmentRef   string          `json:"attachment_ref,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	IdempotencyKey  *string         `json:"idempotency_key,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// LedgerLineFromDomain converts a domain ledger line to response.
func LedgerLineFromDomain(l *domain.LedgerLine) *LedgerLineResponse {
	return &LedgerLineResponse{
		ID:              l.ID,
		EntryID:         l.EntryID,
		Amount:          l.Amount,
		BankAccountID:   l.BankAccountID,
		TransactionDate: NewDate(l.TransactionDate),
		ActorID:         l.ActorID,
		AttachmentRef:   l.AttachmentRef,
		Notes:           l.Notes,
		IdempotencyKey:  l.IdempotencyKey,
		CreatedAt:       l.CreatedAt,
	}
}

// LedgerLinesFromDomain converts domain ledger lines to responses.
func LedgerLinesFromDomain(lines []*domain.LedgerLine) []*LedgerLineResponse {
	result := make([]*LedgerLineResponse, len(lines))
	for i, l := range lines {
		result[i] = LedgerLineFromDomain(l)
	}
	return result
}

// BankTransactionResponse represents a bank movement in API responses.
type BankTransactionResponse struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"account_id"`
	Direction       string          `json:"direction"`
	Value           decimal.Decimal `json:"value"`
	TransactionDate Date            `json:"transaction_date"`
	EntryRef        string          `json:"entry_ref"`
	LedgerLineID    string          `json:"ledger_line_id"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BankTransactionFromDomain converts a domain bank transaction to response.
func BankTransactionFromDomain(t *domain.BankTransaction) *BankTransactionResponse {
	return &BankTransactionResponse{
		ID:              t.ID,
		AccountID:       t.AccountID,
		Direction:       string(t.Direction),
		Value:           t.Value,
		TransactionDate: NewDate(t.TransactionDate),
		EntryRef:        t.EntryRef,
		LedgerLineID:    t.LedgerLineID,
		BalanceAfter:    t.BalanceAfter,
		CreatedAt:       t.CreatedAt,
	}
}

// BankTransactionsFromDomain converts domain bank transactions to responses.
func BankTransactionsFromDomain(txs []*domain.BankTransaction) []*BankTransactionResponse {
	result := make([]*BankTransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = BankTransactionFromDomain(t)
	}
	return result
}

// SettlementItemResponse is the outcome for one entry of a payment.
type SettlementItemResponse struct {
	EntryID         string                   `json:"entry_id"`
	Kind            string                   `json:"kind,omitempty"`
	Applied         decimal.Decimal          `json:"applied"`
	PreviouslyPaid  decimal.Decimal          `json:"previously_paid"`
	TotalPaid       decimal.Decimal          `json:"total_paid"`
	Remaining       decimal.Decimal          `json:"remaining"`
	Status          string                   `json:"status,omitempty"`
	Overpaid        bool                     `json:"overpaid,omitempty"`
	Replayed        bool                     `json:"replayed"`
	LedgerLine      *LedgerLineResponse      `json:"ledger_line,omitempty"`
	BankTransaction *BankTransactionResponse `json:"bank_transaction,omitempty"`
	Error           string                   `json:"error,omitempty"`
}

// SettlementResponse represents the result of a payment or batch settlement.
type SettlementResponse struct {
	Items         []*SettlementItemResponse  `json:"items"`
	TotalApplied  decimal.Decimal            `json:"total_applied"`
	BalanceDeltas map[string]decimal.Decimal `json:"balance_deltas,omitempty"`
	Succeeded     int                        `json:"succeeded"`
	Failed        int                        `json:"failed"`
}

// SettlementFromUseCase converts a settlement result to response.
func SettlementFromUseCase(r *usecase.SettlementResult) *SettlementResponse {
	resp := &SettlementResponse{
		Items:         make([]*SettlementItemResponse, len(r.Items)),
		TotalApplied:  r.TotalApplied,
		BalanceDeltas: r.BalanceDeltas,
		Succeeded:     r.Succeeded,
		Failed:        r.Failed,
	}
	for i, item := range r.Items {
		out := &SettlementItemResponse{
			EntryID:        item.EntryID,
			Kind:           string(item.Kind),
			Applied:        item.Applied,
			PreviouslyPaid: item.PreviouslyPaid,
			TotalPaid:      item.TotalPaid,
			Remaining:      item.Remaining,
			Status:         string(item.Status),
			Overpaid:       item.Overpaid,
			Replayed:       item.Replayed,
		}
		if item.LedgerLine != nil {
			out.LedgerLine = LedgerLineFromDomain(item.LedgerLine)
		}
		if item.BankTransaction != nil {
			out.BankTransaction = BankTransactionFromDomain(item.BankTransaction)
		}
		if item.Err != nil {
			out.Error = item.Err.Error()
		}
		resp.Items[i] = out
	}
	return resp
}

// ReversalResponse represents an undone settlement.
type ReversalResponse struct {
	EntryID             string                     `json:"entry_id"`
	RemovedLines        int64                      `json:"removed_lines"`
	RemovedTransactions int                        `json:"removed_transactions"`
	ReversedAmount      decimal.Decimal            `json:"reversed_amount"`
	BalanceDeltas       map[string]decimal.Decimal `json:"balance_deltas,omitempty"`
	Entry               *EntryResponse             `json:"entry"`
}

// ReversalFromUseCase converts a reversal result to response.
func ReversalFromUseCase(r *usecase.ReversalResult, asOf time.Time) *ReversalResponse {
	resp := &ReversalResponse{
		EntryID:             r.EntryID,
		RemovedLines:        r.RemovedLines,
		RemovedTransactions: r.RemovedTransactions,
		ReversedAmount:      r.ReversedAmount,
		BalanceDeltas:       r.BalanceDeltas,
	}
	if r.Entry != nil {
		resp.Entry = EntryFromDomain(r.Entry, asOf)
	}
	return resp
}

// BankAccountResponse represents a bank account in API responses.
type BankAccountResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BankAccountFromDomain converts a domain bank account to response.
func BankAccountFromDomain(a *domain.BankAccount) *BankAccountResponse {
	return &BankAccountResponse{
		ID:             a.ID,
		CompanyID:      a.CompanyID,
		Name:           a.Name,
		OpeningBalance: a.OpeningBalance,
		CurrentBalance: a.CurrentBalance,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// BankAccountsFromDomain converts domain bank accounts to responses.
func BankAccountsFromDomain(accounts []*domain.BankAccount) []*BankAccountResponse {
	result := make([]*BankAccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = BankAccountFromDomain(a)
	}
	return result
}

// ListBankAccountsResponse represents a page of bank accounts.
type ListBankAccountsResponse struct {
	BankAccounts []*BankAccountResponse `json:"bank_accounts"`
	Total        int                    `json:"total"`
}

// BankReconciliationResponse is the check of one bank account.
type BankReconciliationResponse struct {
	AccountID         string          `json:"account_id"`
	CompanyID         string          `json:"company_id"`
	OpeningBalance    decimal.Decimal `json:"opening_balance"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	TransactionCount  int             `json:"transaction_count"`
	IsReconciled      bool            `json:"is_reconciled"`
	CheckedAt         time.Time       `json:"checked_at"`
}

// BankReconciliationFromUseCase converts a bank account check to response.
func BankReconciliationFromUseCase(r *usecase.BankAccountReconciliation) *BankReconciliationResponse {
	return &BankReconciliationResponse{
		AccountID:         r.AccountID,
		CompanyID:         r.CompanyID,
		OpeningBalance:    r.OpeningBalance,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		TransactionCount:  r.TransactionCount,
		IsReconciled:      r.IsReconciled,
		CheckedAt:         r.CheckedAt,
	}
}

// EntryReconciliationResponse is the check of one entry.
type EntryReconciliationResponse struct {
	EntryID      string          `json:"entry_id"`
	Status       string          `json:"status"`
	Value        decimal.Decimal `json:"value"`
	Paid         decimal.Decimal `json:"paid"`
	IsReconciled bool            `json:"is_reconciled"`
	Reason       string          `json:"reason,omitempty"`
}

// EntryReconciliationFromUseCase converts an entry check to response.
func EntryReconciliationFromUseCase(r *usecase.EntryReconciliation) *EntryReconciliationResponse {
	return &EntryReconciliationResponse{
		EntryID:      r.EntryID,
		Status:       string(r.Status),
		Value:        r.Value,
		Paid:         r.Paid,
		IsReconciled: r.IsReconciled,
		Reason:       r.Reason,
	}
}

// CompanyReconciliationResponse is the reconciliation report of a company.
type CompanyReconciliationResponse struct {
	CompanyID           string                         `json:"company_id"`
	BankAccounts        []*BankReconciliationResponse  `json:"bank_accounts"`
	EntriesChecked      int                            `json:"entries_checked"`
	InconsistentEntries []*EntryReconciliationResponse `json:"inconsistent_entries"`
	IsReconciled        bool                           `json:"is_reconciled"`
	CheckedAt           time.Time                      `json:"checked_at"`
}

// CompanyReconciliationFromUseCase converts a company report to response.
func CompanyReconciliationFromUseCase(r *usecase.CompanyReconciliation) *CompanyReconciliationResponse {
	resp := &CompanyReconciliationResponse{
		CompanyID:           r.CompanyID,
		BankAccounts:        make([]*BankReconciliationResponse, len(r.BankAccounts)),
		EntriesChecked:      r.EntriesChecked,
		InconsistentEntries: make([]*EntryReconciliationResponse, len(r.InconsistentEntries)),
		IsReconciled:        r.IsReconciled,
		CheckedAt:           r.CheckedAt,
	}
	for i, b := range r.BankAccounts {
		resp.BankAccounts[i] = BankReconciliationFromUseCase(b)
	}
	for i, e := range r.InconsistentEntries {
		resp.InconsistentEntries[i] = EntryReconciliationFromUseCase(e)
	}
	return resp
}

// TotalsResponse aggregates the entries of one kind.
type TotalsResponse struct {
	PendingCount  int64           `json:"pending_count"`
	PendingValue  decimal.Decimal `json:"pending_value"`
	OverdueCount  int64           `json:"overdue_count"`
	OverdueValue  decimal.Decimal `json:"overdue_value"`
	SettledCount  int64           `json:"settled_count"`
	SettledValue  decimal.Decimal `json:"settled_value"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	OpenRemaining decimal.Decimal `json:"open_remaining"`
}

func totalsFromUseCase(t usecase.EntryTotals) TotalsResponse {
	return TotalsResponse{
		PendingCount:  t.PendingCount,
		PendingValue:  t.PendingValue,
		OverdueCount:  t.OverdueCount,
		OverdueValue:  t.OverdueValue,
		SettledCount:  t.SettledCount,
		SettledValue:  t.SettledValue,
		PaidAmount:    t.PaidAmount,
		OpenRemaining: t.OpenRemaining,
	}
}

// SummaryResponse is the executive summary of a company.
type SummaryResponse struct {
	CompanyID    string          `json:"company_id"`
	AsOf         Date            `json:"as_of"`
	DueFrom      *Date           `json:"due_from,omitempty"`
	DueTo        *Date           `json:"due_to,omitempty"`
	Payables     TotalsResponse  `json:"payables"`
	Receivables  TotalsResponse  `json:"receivables"`
	BankBalance  decimal.Decimal `json:"bank_balance"`
	BankAccounts int             `json:"bank_accounts"`
	NetPosition  decimal.Decimal `json:"net_position"`
}

// SummaryFromUseCase converts a company summary to response.
func SummaryFromUseCase(s *usecase.CompanySummary) *SummaryResponse {
	resp := &SummaryResponse{
		CompanyID:    s.CompanyID,
		AsOf:         NewDate(s.AsOf),
		Payables:     totalsFromUseCase(s.Payables),
		Receivables:  totalsFromUseCase(s.Receivables),
		BankBalance:  s.BankBalance,
		BankAccounts: s.BankAccounts,
		NetPosition:  s.NetPosition,
	}
	if s.DueFrom != nil {
		d := NewDate(*s.DueFrom)
		resp.DueFrom = &d
	}
	if s.DueTo != nil {
		d := NewDate(*s.DueTo)
		resp.DueTo = &d
	}
	return resp
}

// PaymentMethodResponse represents a payment method in API responses.
type PaymentMethodResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	TermDays  int       `json:"term_days"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentMethodFromDomain converts a domain payment method to response.
func PaymentMethodFromDomain(m *domain.PaymentMethod) *PaymentMethodResponse {
	return &PaymentMethodResponse{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		Name:      m.Name,
		TermDays:  m.TermDays,
		CreatedAt: m.CreatedAt,
	}
}

// PaymentMethodsFromDomain converts domain payment methods to responses.
func PaymentMethodsFromDomain(methods []*domain.PaymentMethod) []*PaymentMethodResponse {
	result := make([]*PaymentMethodResponse, len(methods))
	for i, m := range methods {
		result[i] = PaymentMethodFromDomain(m)
	}
	return result
}

// AuditLogResponse represents an audit row in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	RequestID    string         `json:"request_id,omitempty"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts audit rows to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			RequestID:    l.RequestID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       l.Status,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
