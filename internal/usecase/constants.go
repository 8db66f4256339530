package usecase

import (
	"context"
	"time"
)

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// PaymentMethodCacheTTL is how long payment method terms are cached
	PaymentMethodCacheTTL = 10 * time.Minute

	// MaxBatchSize caps how many entries one batch settlement may touch
	MaxBatchSize = 500
)

// systemClock is the wall clock in UTC.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the production clock.
func SystemClock() Clock { return systemClock{} }

// noRetry runs the operation once.
type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error { return operation() }
