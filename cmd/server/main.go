package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/settleledger/internal/adapter/http"
	"github.com/iho/settleledger/internal/adapter/http/handler"
	"github.com/iho/settleledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/settleledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/settleledger/internal/adapter/repository/redis"
	"github.com/iho/settleledger/internal/infrastructure/auth"
	"github.com/iho/settleledger/internal/infrastructure/config"
	"github.com/iho/settleledger/internal/infrastructure/eventpublisher"
	"github.com/iho/settleledger/internal/infrastructure/logger"
	"github.com/iho/settleledger/internal/infrastructure/metrics"
	"github.com/iho/settleledger/internal/infrastructure/postgres"
	"github.com/iho/settleledger/internal/infrastructure/redis"
	"github.com/iho/settleledger/internal/usecase"
)

const (
	serviceName = "settleledger"

	tokenDuration       = 24 * time.Hour
	limiterCleanupEvery = time.Minute
	limiterMaxIdle      = 3 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(loggerConfig(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func loggerConfig(cfg *config.Config) logger.Config {
	return logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		return errors.New("AUTH_ENABLED requires JWT_SECRET")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	if cfg.AutoMigrate {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:     cfg.DatabaseURL,
		MaxConns:        cfg.DatabaseMaxConns,
		MinConns:        cfg.DatabaseMinConns,
		MaxConnLifetime: cfg.DatabaseMaxConnLifetime,
		MaxConnIdleTime: cfg.DatabaseMaxConnIdleTime,
		ConnectTimeout:  cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, redis.ClientConfig{
			URL:         cfg.RedisURL,
			PoolSize:    cfg.RedisPoolSize,
			DialTimeout: cfg.RedisDialTimeout,
			Name:        serviceName,
		})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	} else {
		log.Warn().Msg("redis disabled: no idempotency store, cache or stream publishing")
	}

	// Repositories
	repos := usecase.Repositories{
		Entries:          postgresRepo.NewEntryRepository(pool),
		LedgerLines:      postgresRepo.NewLedgerLineRepository(pool),
		BankAccounts:     postgresRepo.NewBankAccountRepository(pool),
		BankTransactions: postgresRepo.NewBankTransactionRepository(pool),
		PaymentMethods:   postgresRepo.NewPaymentMethodRepository(pool),
		Audit:            postgresRepo.NewAuditRepository(pool),
	}
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	if cfg.OutboxEnabled {
		repos.Outbox = outboxRepo
	} else {
		repos.Outbox = postgresRepo.NewNullOutboxRepository()
	}

	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(log, m)
	idGen := postgresRepo.NewULIDGenerator()
	clock := usecase.SystemClock()

	var cache usecase.Cache
	var idempotencyStore usecase.IdempotencyStore
	if redisClient != nil {
		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}

	// Use cases
	paymentMethodUC := usecase.NewPaymentMethodUseCase(repos.PaymentMethods, cache, idGen, clock, log, m).
		WithCacheTTL(cfg.PaymentMethodCacheTTL)
	installmentUC := usecase.NewInstallmentUseCase(txManager, repos, paymentMethodUC, idGen, clock, log, m)
	entryUC := usecase.NewEntryUseCase(txManager, repos, idGen, clock, log, m)
	settlementUC := usecase.NewSettlementUseCase(txManager, repos, idGen, retrier, clock, log, m)
	batchUC := usecase.NewBatchUseCase(settlementUC, log, m)
	reversalUC := usecase.NewReversalUseCase(txManager, repos, idGen, retrier, clock, log, m)
	bankAccountUC := usecase.NewBankAccountUseCase(repos, idGen, clock)
	reconciliationUC := usecase.NewReconciliationUseCase(repos, clock, m)
	summaryUC := usecase.NewSummaryUseCase(repos, clock)

	// Outbox relay
	if cfg.OutboxEnabled {
		publishers := eventpublisher.MultiPublisher{eventpublisher.NewLogPublisher(log)}
		if redisClient != nil {
			publishers = append(publishers, redisRepo.NewStreamPublisher(redisClient, cfg.OutboxStream))
		}

		relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  publishers,
			Logger:     log,
			Metrics:    m,
			Clock:      clock,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxPollInterval,
			Retention:  cfg.OutboxRetention,
		})
		go func() {
			if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	var healthRedis handler.Pinger
	if redisClient != nil {
		healthRedis = handler.RedisPinger{Client: redisClient}
	}

	routerCfg := httpAdapter.RouterConfig{
		EntryHandler:          handler.NewEntryHandler(installmentUC, entryUC, clock),
		SettlementHandler:     handler.NewSettlementHandler(settlementUC, batchUC, reversalUC, clock),
		BankAccountHandler:    handler.NewBankAccountHandler(bankAccountUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC, summaryUC),
		PaymentMethodHandler:  handler.NewPaymentMethodHandler(paymentMethodUC),
		HealthHandler:         handler.NewHealthHandler(pool, healthRedis),
		MetricsHandler:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Metrics:               m,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		Logger:                log,
	}
	if cfg.AuthEnabled {
		routerCfg.TokenVerifier = auth.NewJWTManager(cfg.JWTSecret, tokenDuration)
	}
	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
		routerCfg.RateLimiter = limiter
		go cleanupLimiters(ctx, limiter, log)
	}

	server := newHTTPServer(cfg, httpAdapter.NewRouter(routerCfg))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

func cleanupLimiters(ctx context.Context, limiter *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(limiterCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.CleanupLimiters(limiterMaxIdle); n > 0 {
				log.Debug().Int("removed", n).Msg("dropped idle rate limiters")
			}
		}
	}
}
