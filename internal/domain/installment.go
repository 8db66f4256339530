package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PlanInput describes an installment plan to generate.
type PlanInput struct {
	PlanID           string
	CompanyID        string
	Kind             EntryKind
	CounterpartyID   string
	Description      string
	Total            decimal.Decimal
	FirstDueDate     time.Time
	InstallmentCount int
	DayOffset        int
	PaymentMethodID  *string
	IsRecurring      bool
}

// Validate checks the plan input.
func (p PlanInput) Validate() error {
	if !p.Kind.IsValid() {
		return ErrInvalidKind
	}
	if p.InstallmentCount < 1 || p.InstallmentCount > MaxInstallments {
		return ErrInvalidInstallmentCount
	}
	if p.DayOffset < 0 {
		return ErrInvalidDayOffset
	}
	if p.FirstDueDate.IsZero() {
		return ErrMissingDueDate
	}
	if strings.TrimSpace(p.CompanyID) == "" {
		return ErrMissingCompany
	}
	if strings.TrimSpace(p.CounterpartyID) == "" {
		return ErrMissingCounterparty
	}
	if err := ValidateDescription(p.Description); err != nil {
		return err
	}
	return ValidateAmount(p.Total)
}

// PlanInstallments splits a total into InstallmentCount pending entries.
// Each installment gets total/N rounded down to cents and the last one takes
// the remainder, so the values always add up to the total. IDs are left
// for the caller to assign.
func PlanInstallments(in PlanInput, now time.Time) ([]*Entry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	n := int64(in.InstallmentCount)
	share := in.Total.Div(decimal.NewFromInt(n)).RoundFloor(2)
	if !share.IsPositive() {
		return nil, fmt.Errorf("%w: %s cannot be split into %d installments", ErrInvalidAmount, in.Total, n)
	}
	anchor := DateOf(in.FirstDueDate).AddDate(0, 0, in.DayOffset)

	entries := make([]*Entry, 0, in.InstallmentCount)
	allocated := decimal.Zero
	for i := 0; i < in.InstallmentCount; i++ {
		value := share
		if i == in.InstallmentCount-1 {
			value = in.Total.Sub(allocated)
		}
		allocated = allocated.Add(value)

		entries = append(entries, &Entry{
			CompanyID:        in.CompanyID,
			Kind:             in.Kind,
			CounterpartyID:   in.CounterpartyID,
			Description:      in.Description,
			Value:            value,
			DueDate:          AddMonthsClamped(anchor, i),
			Status:           EntryStatusPending,
			InstallmentIndex: i + 1,
			InstallmentCount: in.InstallmentCount,
			PlanID:           in.PlanID,
			PaymentMethodID:  in.PaymentMethodID,
			IsRecurring:      in.IsRecurring,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	return entries, nil
}

// AddMonthsClamped moves d forward by months calendar months. A day that does
// not exist in the target month becomes that month's last day (Jan 31 + 1 is
// Feb 28/29), instead of overflowing into the following month.
func AddMonthsClamped(d time.Time, months int) time.Time {
	y, m, day := d.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
