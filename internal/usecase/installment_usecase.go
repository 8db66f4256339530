package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/metrics"
)

// InstallmentUseCase creates installment plans.
type InstallmentUseCase struct {
	txManager TransactionManager
	entryRepo EntryRepository
	terms     termLookup
	journal   journal
	idGen     IDGenerator
	clock     Clock
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewInstallmentUseCase creates a new InstallmentUseCase. paymentMethods
// resolves payment terms and may be nil when plans never reference one.
func NewInstallmentUseCase(
	txManager TransactionManager,
	repos Repositories,
	paymentMethods *PaymentMethodUseCase,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *InstallmentUseCase {
	if clock == nil {
		clock = SystemClock()
	}

	uc := &InstallmentUseCase{
		txManager: txManager,
		entryRepo: repos.Entries,
		journal:   newJournal(repos, idGen, metrics),
		idGen:     idGen,
		clock:     clock,
		logger:    logger.With().Str("component", "installment").Logger(),
		metrics:   metrics,
	}
	if paymentMethods != nil {
		uc.terms = paymentMethods
	}

	return uc
}

// CreatePlanInput represents input for creating an installment plan.
type CreatePlanInput struct {
	CompanyID        string
	Kind             domain.EntryKind
	CounterpartyID   string
	Description      string
	Total            decimal.Decimal
	FirstDueDate     time.Time
	InstallmentCount int
	// DayOffset wins over the payment method's term when both are given.
	DayOffset       *int
	PaymentMethodID *string
	IsRecurring     bool
}

// Plan is a created installment plan.
type Plan struct {
	ID      string
	Entries []*domain.Entry
}

// CreatePlan generates the installments of a plan and stores them in one
// transaction. No ledger line or bank movement is created.
func (uc *InstallmentUseCase) CreatePlan(ctx context.Context, input CreatePlanInput) (*Plan, error) {
	offset, err := uc.resolveOffset(ctx, input)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	planID := uc.idGen.Generate()

	entries, err := domain.PlanInstallments(domain.PlanInput{
		PlanID:           planID,
		CompanyID:        input.CompanyID,
		Kind:             input.Kind,
		CounterpartyID:   input.CounterpartyID,
		Description:      input.Description,
		Total:            input.Total,
		FirstDueDate:     input.FirstDueDate,
		InstallmentCount: input.InstallmentCount,
		DayOffset:        offset,
		PaymentMethodID:  input.PaymentMethodID,
		IsRecurring:      input.IsRecurring,
	}, now)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		e.ID = uc.idGen.Generate()
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	for _, e := range entries {
		if err := uc.entryRepo.CreateTx(txCtx, tx, e); err != nil {
			return nil, err
		}
	}

	entryIDs := make([]string, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.ID
	}

	payload := map[string]any{
		"plan_id":           planID,
		"company_id":        input.CompanyID,
		"kind":              string(input.Kind),
		"total":             input.Total.String(),
		"installment_count": len(entries),
		"entry_ids":         entryIDs,
	}
	if err := uc.journal.event(txCtx, tx, domain.AggregateTypePlan, planID, domain.EventTypePlanCreated, payload, now); err != nil {
		return nil, err
	}
	if err := uc.journal.audit(txCtx, tx, domain.AuditActionPlanCreate, domain.ResourceTypePlan, planID, nil, payload, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PlansCreated.WithLabelValues(string(input.Kind)).Inc()
		uc.metrics.InstallmentsCreated.Add(float64(len(entries)))
	}

	uc.logger.Info().
		Str("plan_id", planID).
		Str("company_id", input.CompanyID).
		Int("installments", len(entries)).
		Msg("plan created")

	return &Plan{ID: planID, Entries: entries}, nil
}

func (uc *InstallmentUseCase) resolveOffset(ctx context.Context, input CreatePlanInput) (int, error) {
	if input.DayOffset != nil {
		return *input.DayOffset, nil
	}
	if input.PaymentMethodID == nil || uc.terms == nil {
		return 0, nil
	}

	method, err := uc.terms.Get(ctx, *input.PaymentMethodID)
	if err != nil {
		return 0, err
	}
	if method.CompanyID != input.CompanyID {
		return 0, domain.ErrPaymentMethodNotFound
	}

	return method.TermDays, nil
}
