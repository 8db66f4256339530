package domain

import "time"

// Event types
const (
	EventTypePlanCreated        = "plan.created"
	EventTypeEntryCancelled     = "entry.cancelled"
	EventTypeSettlementApplied  = "settlement.applied"
	EventTypeSettlementReversed = "settlement.reversed"
)

// Aggregate types
const (
	AggregateTypeEntry = "entry"
	AggregateTypePlan  = "plan"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
