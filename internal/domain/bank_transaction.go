package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction of a bank movement.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// Signed returns amount with the sign this direction applies to a balance.
func (d Direction) Signed(amount decimal.Decimal) decimal.Decimal {
	if d == DirectionOutflow {
		return amount.Neg()
	}
	return amount
}

// BankTransaction records one balance-affecting settlement action.
type BankTransaction struct {
	ID              string
	AccountID       string
	Direction       Direction
	Value           decimal.Decimal
	TransactionDate time.Time
	EntryRef        string
	LedgerLineID    string
	BalanceAfter    decimal.Decimal
	CreatedAt       time.Time
}

// SignedValue is the delta this transaction applied to its account.
func (t *BankTransaction) SignedValue() decimal.Decimal {
	return t.Direction.Signed(t.Value)
}
