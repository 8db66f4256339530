package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind tells whether an entry is money owed by the company or to it.
type EntryKind string

const (
	EntryKindPayable    EntryKind = "payable"
	EntryKindReceivable EntryKind = "receivable"
)

// IsValid reports whether k is a known kind.
func (k EntryKind) IsValid() bool {
	return k == EntryKindPayable || k == EntryKindReceivable
}

// Direction returns the bank movement a payment on this kind produces.
func (k EntryKind) Direction() Direction {
	if k == EntryKindPayable {
		return DirectionOutflow
	}
	return DirectionInflow
}

// EntryStatus is the persisted lifecycle state of an entry.
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusSettled   EntryStatus = "settled"
	EntryStatusCancelled EntryStatus = "cancelled"
)

// IsValid reports whether s is a persisted status.
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusPending, EntryStatusSettled, EntryStatusCancelled:
		return true
	}
	return false
}

// Entry is one payable or receivable obligation. An installment plan produces
// one Entry per installment.
type Entry struct {
	ID               string
	CompanyID        string
	Kind             EntryKind
	CounterpartyID   string
	Description      string
	Value            decimal.Decimal
	DueDate          time.Time
	Status           EntryStatus
	PaymentDate      *time.Time
	BankAccountID    *string
	InstallmentIndex int
	InstallmentCount int
	PlanID           string
	PaymentMethodID  *string
	IsRecurring      bool
	ApprovedBy       *string
	ApprovedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DisplayStatus is the status shown to readers as of the given day.
func (e *Entry) DisplayStatus(asOf time.Time) DisplayStatus {
	return DeriveStatus(e.Status, e.DueDate, asOf)
}

// Remaining is what is still owed after paid has been applied. Never negative.
func (e *Entry) Remaining(paid decimal.Decimal) decimal.Decimal {
	rest := e.Value.Sub(paid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// IsSettledBy reports whether paid covers the entry value.
func (e *Entry) IsSettledBy(paid decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(e.Value)
}

// MarkPaid applies the outcome of a payment to the entry fields.
func (e *Entry) MarkPaid(paid decimal.Decimal, paymentDate time.Time, bankAccountID *string, now time.Time) {
	if e.IsSettledBy(paid) {
		e.Status = EntryStatusSettled
		d := DateOf(paymentDate)
		e.PaymentDate = &d
	} else {
		e.Status = EntryStatusPending
	}
	e.BankAccountID = bankAccountID
	e.UpdatedAt = now
}

// Approve records who approved the payable.
func (e *Entry) Approve(actorID string, at time.Time) error {
	if e.Kind != EntryKindPayable {
		return ErrApprovalNotApplicable
	}
	e.ApprovedBy = &actorID
	e.ApprovedAt = &at
	return nil
}

// Reset returns the entry to an unpaid pending state.
func (e *Entry) Reset(now time.Time) {
	e.Status = EntryStatusPending
	e.PaymentDate = nil
	e.BankAccountID = nil
	e.ApprovedBy = nil
	e.ApprovedAt = nil
	e.UpdatedAt = now
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
