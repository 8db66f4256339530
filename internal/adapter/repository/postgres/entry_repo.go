package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/postgres/generated"
	"github.com/iho/settleledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// CreateTx inserts an entry within a transaction.
func (r *EntryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	return txQueries(tx).CreateEntry(ctx, generated.CreateEntryParams{
		ID:               entry.ID,
		CompanyID:        entry.CompanyID,
		Kind:             string(entry.Kind),
		CounterpartyID:   entry.CounterpartyID,
		Description:      entry.Description,
		Value:            decimalToNumeric(entry.Value),
		DueDate:          dateToPgDate(entry.DueDate),
		Status:           string(entry.Status),
		PaymentDate:      datePtrToPgDate(entry.PaymentDate),
		BankAccountID:    stringPtrToText(entry.BankAccountID),
		InstallmentIndex: int32(entry.InstallmentIndex),
		InstallmentCount: int32(entry.InstallmentCount),
		PlanID:           entry.PlanID,
		PaymentMethodID:  stringPtrToText(entry.PaymentMethodID),
		IsRecurring:      entry.IsRecurring,
		ApprovedBy:       stringPtrToText(entry.ApprovedBy),
		ApprovedAt:       timePtrToPgTimestamptz(entry.ApprovedAt),
		CreatedAt:        timeToPgTimestamptz(entry.CreatedAt),
		UpdatedAt:        timeToPgTimestamptz(entry.UpdatedAt),
	})
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	row, err := r.queries.GetEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToEntry(row), nil
}

// GetByIDs retrieves the entries that exist among ids.
func (r *EntryRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Entry, error) {
	rows, err := r.queries.GetEntriesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// GetByIDForUpdate retrieves an entry by ID with a FOR UPDATE lock.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	row, err := txQueries(tx).GetEntryByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToEntry(row), nil
}

// UpdateSettlement writes the fields a payment or reversal changes.
func (r *EntryRepository) UpdateSettlement(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	n, err := txQueries(tx).UpdateEntrySettlement(ctx, generated.UpdateEntrySettlementParams{
		ID:            entry.ID,
		Status:        string(entry.Status),
		PaymentDate:   datePtrToPgDate(entry.PaymentDate),
		BankAccountID: stringPtrToText(entry.BankAccountID),
		ApprovedBy:    stringPtrToText(entry.ApprovedBy),
		ApprovedAt:    timePtrToPgTimestamptz(entry.ApprovedAt),
		UpdatedAt:     timeToPgTimestamptz(entry.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// UpdateStatus sets the persisted status of an entry.
func (r *EntryRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus, updatedAt time.Time) error {
	n, err := txQueries(tx).UpdateEntryStatus(ctx, generated.UpdateEntryStatusParams{
		ID:        id,
		Status:    string(status),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// List lists entries matching filter, ordered by due date.
func (r *EntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntries(ctx, listParams(filter))
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// listParams turns a filter into query arguments. The derived overdue status
// becomes a pending status plus a due-date bound relative to AsOf.
func listParams(filter usecase.EntryFilter) generated.ListEntriesParams {
	params := generated.ListEntriesParams{
		CompanyID:      filter.CompanyID,
		Kind:           stringToText(string(filter.Kind)),
		CounterpartyID: stringToText(filter.CounterpartyID),
		DueFrom:        datePtrToPgDate(filter.DueFrom),
		DueTo:          datePtrToPgDate(filter.DueTo),
		Lim:            int32(filter.Limit),
		Off:            int32(filter.Offset),
	}

	switch filter.Status {
	case "":
	case domain.DisplayStatusOverdue:
		params.Status = stringToText(string(domain.EntryStatusPending))
		params.DueBefore = dateToPgDate(filter.AsOf)
	case domain.DisplayStatusPending:
		params.Status = stringToText(string(domain.EntryStatusPending))
		params.DueOnOrAfter = dateToPgDate(filter.AsOf)
	default:
		params.Status = stringToText(string(filter.Status))
	}

	return params
}

// ListByPlan lists the installments of a plan in order.
func (r *EntryRepository) ListByPlan(ctx context.Context, planID string) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntriesByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// Totals aggregates entries per kind for the summary.
func (r *EntryRepository) Totals(ctx context.Context, companyID string, dueFrom, dueTo *time.Time, asOf time.Time) ([]usecase.EntryTotals, error) {
	rows, err := r.queries.EntryTotals(ctx, generated.EntryTotalsParams{
		AsOf:      dateToPgDate(asOf),
		CompanyID: companyID,
		DueFrom:   datePtrToPgDate(dueFrom),
		DueTo:     datePtrToPgDate(dueTo),
	})
	if err != nil {
		return nil, err
	}

	totals := make([]usecase.EntryTotals, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, usecase.EntryTotals{
			Kind:          domain.EntryKind(row.Kind),
			PendingCount:  row.PendingCount,
			PendingValue:  numericToDecimal(row.PendingValue),
			OverdueCount:  row.OverdueCount,
			OverdueValue:  numericToDecimal(row.OverdueValue),
			SettledCount:  row.SettledCount,
			SettledValue:  numericToDecimal(row.SettledValue),
			PaidAmount:    numericToDecimal(row.PaidAmount),
			OpenRemaining: numericToDecimal(row.OpenRemaining),
		})
	}

	return totals, nil
}

func rowsToEntries(rows []generated.Entry) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries
}

func rowToEntry(row generated.Entry) *domain.Entry {
	return &domain.Entry{
		ID:               row.ID,
		CompanyID:        row.CompanyID,
		Kind:             domain.EntryKind(row.Kind),
		CounterpartyID:   row.CounterpartyID,
		Description:      row.Description,
		Value:            numericToDecimal(row.Value),
		DueDate:          pgDateToTime(row.DueDate),
		Status:           domain.EntryStatus(row.Status),
		PaymentDate:      pgDateToPtr(row.PaymentDate),
		BankAccountID:    textToStringPtr(row.BankAccountID),
		InstallmentIndex: int(row.InstallmentIndex),
		InstallmentCount: int(row.InstallmentCount),
		PlanID:           row.PlanID,
		PaymentMethodID:  textToStringPtr(row.PaymentMethodID),
		IsRecurring:      row.IsRecurring,
		ApprovedBy:       textToStringPtr(row.ApprovedBy),
		ApprovedAt:       pgTimestamptzToPtr(row.ApprovedAt),
		CreatedAt:        row.CreatedAt.Time,
		UpdatedAt:        row.UpdatedAt.Time,
	}
}
