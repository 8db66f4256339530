package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/postgres/generated"
)

// PaymentMethodRepository implements usecase.PaymentMethodRepository.
type PaymentMethodRepository struct {
	queries *generated.Queries
}

// NewPaymentMethodRepository creates a new PaymentMethodRepository.
func NewPaymentMethodRepository(db generated.DBTX) *PaymentMethodRepository {
	return &PaymentMethodRepository{
		queries: generated.New(db),
	}
}

// Create creates a new payment method.
func (r *PaymentMethodRepository) Create(ctx context.Context, method *domain.PaymentMethod) error {
	_, err := r.queries.CreatePaymentMethod(ctx, generated.CreatePaymentMethodParams{
		ID:        method.ID,
		CompanyID: method.CompanyID,
		Name:      method.Name,
		TermDays:  int32(method.TermDays),
		CreatedAt: timeToPgTimestamptz(method.CreatedAt),
	})

	return err
}

// GetByID retrieves a payment method by ID.
func (r *PaymentMethodRepository) GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	row, err := r.queries.GetPaymentMethodByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentMethodNotFound
		}

		return nil, err
	}

	return rowToPaymentMethod(row), nil
}

// ListByCompany lists the payment methods of a company by name.
func (r *PaymentMethodRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.PaymentMethod, error) {
	rows, err := r.queries.ListPaymentMethodsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	methods := make([]*domain.PaymentMethod, 0, len(rows))
	for _, row := range rows {
		methods = append(methods, rowToPaymentMethod(row))
	}

	return methods, nil
}

func rowToPaymentMethod(row generated.PaymentMethod) *domain.PaymentMethod {
	return &domain.PaymentMethod{
		ID:        row.ID,
		CompanyID: row.CompanyID,
		Name:      row.Name,
		TermDays:  int(row.TermDays),
		CreatedAt: row.CreatedAt.Time,
	}
}
