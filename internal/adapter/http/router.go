package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/settleledger/internal/adapter/http/handler"
	"github.com/iho/settleledger/internal/adapter/http/middleware"
	"github.com/iho/settleledger/internal/infrastructure/metrics"
	"github.com/iho/settleledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EntryHandler          *handler.EntryHandler
	SettlementHandler     *handler.SettlementHandler
	BankAccountHandler    *handler.BankAccountHandler
	ReconciliationHandler *handler.ReconciliationHandler
	PaymentMethodHandler  *handler.PaymentMethodHandler
	HealthHandler         *handler.HealthHandler

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Metrics        *metrics.Metrics

	// TokenVerifier enables bearer authentication on /api/v1 when set.
	TokenVerifier    middleware.TokenVerifier
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.TokenVerifier != nil {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		// Installment plans
		r.Route("/plans", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.CreatePlan)
			r.Get("/{id}", cfg.EntryHandler.GetPlan)
		})

		// Entries
		r.Route("/entries", func(r chi.Router) {
			r.Get("/", cfg.EntryHandler.List)
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Get("/{id}/ledger-lines", cfg.EntryHandler.ListLedgerLines)
			r.Get("/{id}/audit", cfg.EntryHandler.ListAuditTrail)
			r.Get("/{id}/reconciliation", cfg.ReconciliationHandler.Entry)
			r.Post("/{id}/cancel", cfg.EntryHandler.Cancel)
			r.Post("/{id}/undo", cfg.SettlementHandler.Undo)
		})

		// Settlements
		r.Route("/settlements", func(r chi.Router) {
			r.Post("/", cfg.SettlementHandler.Apply)
			r.Post("/batch", cfg.SettlementHandler.Batch)
		})

		// Bank accounts
		r.Route("/bank-accounts", func(r chi.Router) {
			r.Post("/", cfg.BankAccountHandler.Create)
			r.Get("/", cfg.BankAccountHandler.List)
			r.Get("/{id}", cfg.BankAccountHandler.Get)
			r.Get("/{id}/transactions", cfg.BankAccountHandler.ListTransactions)
			r.Get("/{id}/reconciliation", cfg.ReconciliationHandler.BankAccount)
		})

		// Companies
		r.Route("/companies/{id}", func(r chi.Router) {
			r.Get("/summary", cfg.ReconciliationHandler.Summary)
			r.Get("/reconciliation", cfg.ReconciliationHandler.Company)
		})

		// Payment methods
		r.Route("/payment-methods", func(r chi.Router) {
			r.Post("/", cfg.PaymentMethodHandler.Create)
			r.Get("/", cfg.PaymentMethodHandler.List)
			r.Get("/{id}", cfg.PaymentMethodHandler.Get)
		})
	})

	return r
}
