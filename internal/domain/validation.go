package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidName        = fmt.Errorf("%w: invalid name", ErrValidation)
	ErrInvalidDescription = fmt.Errorf("%w: invalid description", ErrValidation)
	ErrAmountTooLarge     = fmt.Errorf("%w: amount exceeds maximum allowed", ErrValidation)
	ErrAmountTooSmall     = fmt.Errorf("%w: amount below minimum allowed", ErrValidation)
	ErrNotesTooLong       = fmt.Errorf("%w: notes exceed limit", ErrValidation)
)

// Validation constants
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 500
	MaxNotesLength       = 2000
	MaxInstallments      = 360
	MaxPaymentAmount     = "1000000000000" // 1 trillion
	MinPaymentAmount     = "0.01"
	MoneyScale           = 2
)

// ValidateName validates bank account and payment method names.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateDescription validates an entry description. Empty is allowed.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}
	return nil
}

// ValidateNotes validates free-text payment notes.
func ValidateNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return fmt.Errorf("%w: %d characters allowed", ErrNotesTooLong, MaxNotesLength)
	}
	return nil
}

// ValidateAmount validates an entry value or payment amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinPaymentAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinPaymentAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxPaymentAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxPaymentAmount)
	}

	return ValidateMoneyScale(amount)
}

// ValidateMoneyScale rejects values the NUMERIC(20,2) columns would round.
func ValidateMoneyScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(MoneyScale)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MoneyScale)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
