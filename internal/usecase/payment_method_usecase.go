package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/metrics"
)

const paymentMethodCachePrefix = "payment_method:"

// PaymentMethodUseCase manages payment methods and their payment terms.
type PaymentMethodUseCase struct {
	repo    PaymentMethodRepository
	cache   Cache
	ttl     time.Duration
	idGen   IDGenerator
	clock   Clock
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewPaymentMethodUseCase creates a new PaymentMethodUseCase. cache may be nil.
func NewPaymentMethodUseCase(
	repo PaymentMethodRepository,
	cache Cache,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *PaymentMethodUseCase {
	if clock == nil {
		clock = SystemClock()
	}

	return &PaymentMethodUseCase{
		repo:    repo,
		cache:   cache,
		ttl:     PaymentMethodCacheTTL,
		idGen:   idGen,
		clock:   clock,
		logger:  logger.With().Str("component", "payment_method").Logger(),
		metrics: metrics,
	}
}

// WithCacheTTL overrides how long looked-up payment methods stay cached.
func (uc *PaymentMethodUseCase) WithCacheTTL(ttl time.Duration) *PaymentMethodUseCase {
	if ttl > 0 {
		uc.ttl = ttl
	}
	return uc
}

// CreatePaymentMethodInput represents input for creating a payment method.
type CreatePaymentMethodInput struct {
	CompanyID string
	Name      string
	TermDays  int
}

// Create creates a payment method.
func (uc *PaymentMethodUseCase) Create(ctx context.Context, input CreatePaymentMethodInput) (*domain.PaymentMethod, error) {
	if strings.TrimSpace(input.CompanyID) == "" {
		return nil, domain.ErrMissingCompany
	}
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}
	if input.TermDays < 0 {
		return nil, fmt.Errorf("%w: term days cannot be negative", domain.ErrInvalidDayOffset)
	}

	method := &domain.PaymentMethod{
		ID:        uc.idGen.Generate(),
		CompanyID: input.CompanyID,
		Name:      strings.TrimSpace(input.Name),
		TermDays:  input.TermDays,
		CreatedAt: uc.clock.Now(),
	}
	if err := uc.repo.Create(ctx, method); err != nil {
		return nil, err
	}

	return method, nil
}

// Get returns a payment method, served from the cache when possible.
func (uc *PaymentMethodUseCase) Get(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	key := paymentMethodCachePrefix + id

	if uc.cache != nil {
		data, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.logger.Warn().Err(err).Str("payment_method_id", id).Msg("cache read failed")
		} else if data != nil {
			var method domain.PaymentMethod
			if err := json.Unmarshal(data, &method); err == nil {
				uc.countLookup("hit")
				return &method, nil
			}
		}
		uc.countLookup("miss")
	}

	method, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		data, err := json.Marshal(method)
		if err == nil {
			if err := uc.cache.Set(ctx, key, data, uc.ttl); err != nil {
				uc.logger.Warn().Err(err).Str("payment_method_id", id).Msg("cache write failed")
			}
		}
	}

	return method, nil
}

// List returns the payment methods of a company.
func (uc *PaymentMethodUseCase) List(ctx context.Context, companyID string) ([]*domain.PaymentMethod, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, domain.ErrMissingCompany
	}

	return uc.repo.ListByCompany(ctx, companyID)
}

func (uc *PaymentMethodUseCase) countLookup(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheLookups.WithLabelValues("payment_method", result).Inc()
	}
}

// termLookup resolves a payment method into its day offset.
type termLookup interface {
	Get(ctx context.Context, id string) (*domain.PaymentMethod, error)
}

var _ termLookup = (*PaymentMethodUseCase)(nil)
