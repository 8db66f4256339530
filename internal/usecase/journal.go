package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/metrics"
)

// Repositories bundles the ledger store. Every use case takes the same set
// so the server wires it once.
type Repositories struct {
	Entries          EntryRepository
	LedgerLines      LedgerLineRepository
	BankAccounts     BankAccountRepository
	BankTransactions BankTransactionRepository
	PaymentMethods   PaymentMethodRepository
	Outbox           OutboxRepository
	Audit            AuditRepository
}

// journal writes the outbox event and audit row that accompany every
// mutating operation, inside the caller's transaction.
type journal struct {
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

func newJournal(repos Repositories, idGen IDGenerator, m *metrics.Metrics) journal {
	return journal{
		outboxRepo: repos.Outbox,
		auditRepo:  repos.Audit,
		idGen:      idGen,
		metrics:    m,
	}
}

func (j journal) event(
	ctx context.Context,
	tx Transaction,
	aggregateType, aggregateID, eventType string,
	payload map[string]any,
	now time.Time,
) error {
	if j.outboxRepo == nil {
		return nil
	}

	return j.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            j.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
	})
}

func (j journal) audit(
	ctx context.Context,
	tx Transaction,
	action domain.AuditAction,
	resourceType, resourceID string,
	before, after any,
	now time.Time,
) error {
	if j.auditRepo == nil {
		return nil
	}

	requestID := domain.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	log := &domain.AuditLog{
		ID:           j.idGen.Generate(),
		UserID:       domain.ActorID(ctx),
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    requestID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	}
	if err := j.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return err
	}

	if j.metrics != nil {
		j.metrics.AuditLogsCreated.WithLabelValues(log.Action, log.Status).Inc()
	}

	return nil
}
