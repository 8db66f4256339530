package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error categories. Every concrete error below wraps exactly one of them so
// callers can classify with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrConsistency    = errors.New("ledger inconsistency")
	ErrPartialFailure = errors.New("operation partially applied")
)

var (
	// Lookup errors
	ErrEntryNotFound         = fmt.Errorf("%w: entry", ErrNotFound)
	ErrBankAccountNotFound   = fmt.Errorf("%w: bank account", ErrNotFound)
	ErrPaymentMethodNotFound = fmt.Errorf("%w: payment method", ErrNotFound)

	// Payment errors
	ErrInvalidAmount         = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrNoEntries             = fmt.Errorf("%w: at least one entry is required", ErrValidation)
	ErrDuplicateEntry        = fmt.Errorf("%w: entry listed more than once", ErrValidation)
	ErrExplicitAmountBatch   = fmt.Errorf("%w: an explicit amount applies to exactly one entry", ErrValidation)
	ErrMissingPaymentDate    = fmt.Errorf("%w: payment date is required", ErrValidation)
	ErrNothingToPay          = fmt.Errorf("%w: nothing to pay", ErrValidation)
	ErrNothingToUndo         = fmt.Errorf("%w: entry has no recorded payments", ErrValidation)
	ErrEntryCancelled        = fmt.Errorf("%w: entry is cancelled", ErrValidation)
	ErrApprovalNotApplicable = fmt.Errorf("%w: approval applies to payables only", ErrValidation)
	ErrEntryHasPayments      = fmt.Errorf("%w: entry has recorded payments", ErrValidation)
	ErrDuplicatePayment      = fmt.Errorf("%w: payment already recorded", ErrValidation)

	// Batch errors
	ErrCompanyMismatch      = fmt.Errorf("%w: entries belong to different companies", ErrValidation)
	ErrKindMismatch         = fmt.Errorf("%w: payables and receivables cannot be settled together", ErrValidation)
	ErrCounterpartyMismatch = fmt.Errorf("%w: receivables belong to different counterparties", ErrValidation)
	ErrBankAccountCompany   = fmt.Errorf("%w: bank account belongs to another company", ErrValidation)

	// Plan errors
	ErrInvalidInstallmentCount = fmt.Errorf("%w: installment count out of range", ErrValidation)
	ErrInvalidDayOffset        = fmt.Errorf("%w: day offset cannot be negative", ErrValidation)
	ErrMissingDueDate          = fmt.Errorf("%w: due date is required", ErrValidation)
	ErrInvalidKind             = fmt.Errorf("%w: kind must be payable or receivable", ErrValidation)
	ErrInvalidStatus           = fmt.Errorf("%w: unknown status", ErrValidation)
	ErrMissingCompany          = fmt.Errorf("%w: company is required", ErrValidation)
	ErrMissingCounterparty     = fmt.Errorf("%w: counterparty is required", ErrValidation)
)

// ConsistencyError reports a stored total that disagrees with the rows it is
// derived from.
type ConsistencyError struct {
	Resource string
	ID       string
	Expected decimal.Decimal
	Actual   decimal.Decimal
	Reason   string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s %s: %s (expected %s, actual %s)",
		e.Resource, e.ID, e.Reason, e.Expected.String(), e.Actual.String())
}

func (e *ConsistencyError) Unwrap() error {
	return ErrConsistency
}

// PartialFailureError wraps a failure that happened after writes were issued
// inside a transaction. The transaction is rolled back; the error tells the
// caller the operation must be checked before retrying.
type PartialFailureError struct {
	Operation string
	EntryID   string
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s on entry %s failed after writes: %v", e.Operation, e.EntryID, e.Err)
}

func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Err}
}
