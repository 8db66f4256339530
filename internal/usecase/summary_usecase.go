package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/settleledger/internal/domain"
)

// SummaryUseCase builds the read-only executive summary of a company.
type SummaryUseCase struct {
	entryRepo       EntryRepository
	bankAccountRepo BankAccountRepository
	clock           Clock
}

// NewSummaryUseCase creates a new SummaryUseCase.
func NewSummaryUseCase(repos Repositories, clock Clock) *SummaryUseCase {
	if clock == nil {
		clock = SystemClock()
	}

	return &SummaryUseCase{
		entryRepo:       repos.Entries,
		bankAccountRepo: repos.BankAccounts,
		clock:           clock,
	}
}

// CompanySummary holds per-kind totals and the combined bank balance.
type CompanySummary struct {
	CompanyID    string
	AsOf         time.Time
	DueFrom      *time.Time
	DueTo        *time.Time
	Payables     EntryTotals
	Receivables  EntryTotals
	BankBalance  decimal.Decimal
	BankAccounts int
	// NetPosition is open receivables minus open payables.
	NetPosition decimal.Decimal
}

// CompanySummary recomputes the summary from current rows on every call.
func (uc *SummaryUseCase) CompanySummary(ctx context.Context, companyID string, dueFrom, dueTo *time.Time) (*CompanySummary, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, domain.ErrMissingCompany
	}

	asOf := domain.DateOf(uc.clock.Now())
	summary := &CompanySummary{
		CompanyID:   companyID,
		AsOf:        asOf,
		DueFrom:     dueFrom,
		DueTo:       dueTo,
		Payables:    emptyTotals(domain.EntryKindPayable),
		Receivables: emptyTotals(domain.EntryKindReceivable),
	}

	totals, err := uc.entryRepo.Totals(ctx, companyID, dueFrom, dueTo, asOf)
	if err != nil {
		return nil, err
	}
	for _, t := range totals {
		switch t.Kind {
		case domain.EntryKindPayable:
			summary.Payables = t
		case domain.EntryKindReceivable:
			summary.Receivables = t
		}
	}

	accounts, err := uc.bankAccountRepo.ListByCompany(ctx, companyID, reconciliationPageSize, 0)
	if err != nil {
		return nil, err
	}
	summary.BankBalance = decimal.Zero
	for _, a := range accounts {
		summary.BankBalance = summary.BankBalance.Add(a.CurrentBalance)
	}
	summary.BankAccounts = len(accounts)
	summary.NetPosition = summary.Receivables.OpenRemaining.Sub(summary.Payables.OpenRemaining)

	return summary, nil
}

func emptyTotals(kind domain.EntryKind) EntryTotals {
	return EntryTotals{
		Kind:          kind,
		PendingValue:  decimal.Zero,
		OverdueValue:  decimal.Zero,
		SettledValue:  decimal.Zero,
		PaidAmount:    decimal.Zero,
		OpenRemaining: decimal.Zero,
	}
}
