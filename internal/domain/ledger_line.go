package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerLine is one application of money toward an entry. An entry may have
// several lines when it is paid in parts.
type LedgerLine struct {
	ID              string
	EntryID         string
	Amount          decimal.Decimal
	BankAccountID   *string
	TransactionDate time.Time
	ActorID         string
	AttachmentRef   string
	Notes           string
	IdempotencyKey  *string
	CreatedAt       time.Time
}

// SumLines adds up the amounts of lines.
func SumLines(lines []*LedgerLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
