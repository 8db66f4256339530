package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/metrics"
)

// BatchUseCase settles a user-selected set of entries of one company.
type BatchUseCase struct {
	settlement *SettlementUseCase
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// NewBatchUseCase creates a new BatchUseCase.
func NewBatchUseCase(settlement *SettlementUseCase, logger zerolog.Logger, metrics *metrics.Metrics) *BatchUseCase {
	return &BatchUseCase{
		settlement: settlement,
		logger:     logger.With().Str("component", "batch").Logger(),
		metrics:    metrics,
	}
}

// BatchSettleInput represents input for a batch settlement.
type BatchSettleInput struct {
	CompanyID      string
	EntryIDs       []string
	PaymentDate    time.Time
	BankAccountID  *string
	Approve        bool
	Notes          string
	IdempotencyKey string
}

// SettleBatch pays the remaining amount of every selected entry. The
// selection is validated as a whole before anything is written; after that
// each entry succeeds or fails on its own and the result lists both.
func (uc *BatchUseCase) SettleBatch(ctx context.Context, input BatchSettleInput) (*SettlementResult, error) {
	if strings.TrimSpace(input.CompanyID) == "" {
		return nil, domain.ErrMissingCompany
	}

	result, err := uc.settlement.ApplyBatch(ctx, ApplyPaymentInput{
		CompanyID:      input.CompanyID,
		EntryIDs:       input.EntryIDs,
		Amount:         domain.RemainingAmount(),
		PaymentDate:    input.PaymentDate,
		BankAccountID:  input.BankAccountID,
		Approve:        input.Approve,
		Notes:          input.Notes,
		IdempotencyKey: input.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BatchSize.Observe(float64(len(input.EntryIDs)))
		uc.metrics.BatchResults.WithLabelValues("succeeded").Add(float64(result.Succeeded))
		uc.metrics.BatchResults.WithLabelValues("failed").Add(float64(result.Failed))
	}

	uc.logger.Info().
		Str("company_id", input.CompanyID).
		Int("entries", len(input.EntryIDs)).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Str("total_applied", result.TotalApplied.String()).
		Msg("batch settled")

	return result, nil
}
