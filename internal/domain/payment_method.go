package domain

import "time"

// PaymentMethod carries the payment terms used when planning installments.
// TermDays is added once to the first due date before month stepping.
type PaymentMethod struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	TermDays  int       `json:"term_days"`
	CreatedAt time.Time `json:"created_at"`
}
