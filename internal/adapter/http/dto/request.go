package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day. It accepts "2006-01-02" and RFC 3339 timestamps.
type Date struct {
	time.Time
}

// NewDate returns d truncated to its calendar day.
func NewDate(t time.Time) Date {
	return Date{Time: domain.DateOf(t)}
}

// ParseDate parses a "2006-01-02" or RFC 3339 string.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return domain.DateOf(t), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// Amount is a payment amount: a decimal (string or number) or "remaining".
type Amount struct {
	domain.PaymentAmount
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		a.PaymentAmount = domain.RemainingAmount()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = raw
	}
	parsed, err := domain.ParsePaymentAmount(s)
	if err != nil {
		return err
	}
	a.PaymentAmount = parsed
	return nil
}

// CreatePlanRequest represents a request to create an installment plan.
type CreatePlanRequest struct {
	CompanyID        string          `json:"company_id"`
	Kind             string          `json:"kind"`
	CounterpartyID   string          `json:"counterparty_id"`
	Description      string          `json:"description"`
	Total            decimal.Decimal `json:"total"`
	FirstDueDate     Date            `json:"first_due_date"`
	InstallmentCount int             `json:"installment_count"`
	DayOffset        *int            `json:"day_offset,omitempty"`
	PaymentMethodID  *string         `json:"payment_method_id,omitempty"`
	IsRecurring      bool            `json:"is_recurring"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePlanRequest) ToUseCaseInput() usecase.CreatePlanInput {
	return usecase.CreatePlanInput{
		CompanyID:        r.CompanyID,
		Kind:             domain.EntryKind(r.Kind),
		CounterpartyID:   r.CounterpartyID,
		Description:      r.Description,
		Total:            r.Total,
		FirstDueDate:     r.FirstDueDate.Time,
		InstallmentCount: r.InstallmentCount,
		DayOffset:        r.DayOffset,
		PaymentMethodID:  r.PaymentMethodID,
		IsRecurring:      r.IsRecurring,
	}
}

// ApplyPaymentRequest represents a payment against one or more entries.
// An omitted amount pays what remains on each entry.
type ApplyPaymentRequest struct {
	CompanyID      string   `json:"company_id,omitempty"`
	EntryIDs       []string `json:"entry_ids"`
	Amount         *Amount  `json:"amount,omitempty"`
	PaymentDate    Date     `json:"payment_date"`
	BankAccountID  *string  `json:"bank_account_id,omitempty"`
	Approve        bool     `json:"approve"`
	AttachmentRef  string   `json:"attachment_ref,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	IdempotencyKey string   `json:"idempotency_key,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ApplyPaymentRequest) ToUseCaseInput() usecase.ApplyPaymentInput {
	amount := domain.RemainingAmount()
	if r.Amount != nil {
		amount = r.Amount.PaymentAmount
	}

	return usecase.ApplyPaymentInput{
		CompanyID:      r.CompanyID,
		EntryIDs:       r.EntryIDs,
		Amount:         amount,
		PaymentDate:    r.PaymentDate.Time,
		BankAccountID:  r.BankAccountID,
		Approve:        r.Approve,
		AttachmentRef:  r.AttachmentRef,
		Notes:          r.Notes,
		IdempotencyKey: r.IdempotencyKey,
	}
}

// BatchSettleRequest settles the remaining amount of every listed entry.
type BatchSettleRequest struct {
	CompanyID      string   `json:"company_id"`
	EntryIDs       []string `json:"entry_ids"`
	PaymentDate    Date     `json:"payment_date"`
	BankAccountID  *string  `json:"bank_account_id,omitempty"`
	Approve        bool     `json:"approve"`
	Notes          string   `json:"notes,omitempty"`
	IdempotencyKey string   `json:"idempotency_key,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *BatchSettleRequest) ToUseCaseInput() usecase.BatchSettleInput {
	return usecase.BatchSettleInput{
		CompanyID:      r.CompanyID,
		EntryIDs:       r.EntryIDs,
		PaymentDate:    r.PaymentDate.Time,
		BankAccountID:  r.BankAccountID,
		Approve:        r.Approve,
		Notes:          r.Notes,
		IdempotencyKey: r.IdempotencyKey,
	}
}

// CreateBankAccountRequest represents a request to open a bank account.
type CreateBankAccountRequest struct {
	CompanyID      string          `json:"company_id"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBankAccountRequest) ToUseCaseInput() usecase.CreateBankAccountInput {
	return usecase.CreateBankAccountInput{
		CompanyID:      r.CompanyID,
		Name:           r.Name,
		OpeningBalance: r.OpeningBalance,
	}
}

// CreatePaymentMethodRequest represents a request to create a payment method.
type CreatePaymentMethodRequest struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	TermDays  int    `json:"term_days"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePaymentMethodRequest) ToUseCaseInput() usecase.CreatePaymentMethodInput {
	return usecase.CreatePaymentMethodInput{
		CompanyID: r.CompanyID,
		Name:      r.Name,
		TermDays:  r.TermDays,
	}
}
