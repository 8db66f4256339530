package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const remainingLiteral = "remaining"

// PaymentAmount is either an explicit amount or "whatever is still owed".
type PaymentAmount struct {
	value     decimal.Decimal
	remaining bool
}

// RemainingAmount pays off what is left on each entry.
func RemainingAmount() PaymentAmount {
	return PaymentAmount{remaining: true}
}

// ExactAmount pays exactly d.
func ExactAmount(d decimal.Decimal) PaymentAmount {
	return PaymentAmount{value: d}
}

// ParsePaymentAmount accepts "remaining" (or an empty string) and decimal
// literals.
func ParsePaymentAmount(s string) (PaymentAmount, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, remainingLiteral) {
		return RemainingAmount(), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return PaymentAmount{}, ErrInvalidAmount
	}
	return ExactAmount(d), nil
}

// IsRemaining reports whether the amount is computed per entry.
func (a PaymentAmount) IsRemaining() bool {
	return a.remaining
}

// Value is the explicit amount; zero for RemainingAmount.
func (a PaymentAmount) Value() decimal.Decimal {
	return a.value
}

// Resolve returns what to apply to an entry worth value that already
// received paid.
func (a PaymentAmount) Resolve(value, paid decimal.Decimal) decimal.Decimal {
	if !a.remaining {
		return a.value
	}
	rest := value.Sub(paid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

func (a PaymentAmount) String() string {
	if a.remaining {
		return remainingLiteral
	}
	return a.value.String()
}
