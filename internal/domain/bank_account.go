package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount holds a running balance shared by every entry paid through it.
// CurrentBalance must equal OpeningBalance plus the signed sum of its
// transactions.
type BankAccount struct {
	ID             string
	CompanyID      string
	Name           string
	OpeningBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ExpectedBalance recomputes the balance from the opening balance and the
// given transactions.
func (a *BankAccount) ExpectedBalance(txs []*BankTransaction) decimal.Decimal {
	balance := a.OpeningBalance
	for _, tx := range txs {
		balance = balance.Add(tx.SignedValue())
	}
	return balance
}
