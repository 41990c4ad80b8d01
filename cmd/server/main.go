package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/inspi-writer001/feesplit/internal/adapter/http"
	"github.com/inspi-writer001/feesplit/internal/adapter/http/handler"
	"github.com/inspi-writer001/feesplit/internal/adapter/http/middleware"
	postgresRepo "github.com/inspi-writer001/feesplit/internal/adapter/repository/postgres"
	redisRepo "github.com/inspi-writer001/feesplit/internal/adapter/repository/redis"
	"github.com/inspi-writer001/feesplit/internal/infrastructure/auth"
	"github.com/inspi-writer001/feesplit/internal/infrastructure/config"
	"github.com/inspi-writer001/feesplit/internal/infrastructure/eventpublisher"
	"github.com/inspi-writer001/feesplit/internal/infrastructure/logger"
	"github.com/inspi-writer001/feesplit/internal/infrastructure/metrics"
	"github.com/inspi-writer001/feesplit/internal/infrastructure/postgres"
	"github.com/inspi-writer001/feesplit/internal/infrastructure/redis"
	"github.com/inspi-writer001/feesplit/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	// Migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Initialize repositories
	idGen := postgresRepo.NewULIDGenerator()
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	feeSplitRepo := postgresRepo.NewFeeSplitRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	ledgers := postgresRepo.NewLedgerRepository(idGen)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, outboxRepo, idGen)
	transferUC := usecase.NewTransferUseCase(usecase.TransferUseCaseConfig{
		TxManager:    txManager,
		Ledgers:      ledgers,
		FeeSplitRepo: feeSplitRepo,
		OutboxRepo:   outboxRepo,
		IDGen:        idGen,
		Retrier:      postgresRepo.NewRetrier(appLogger),
		Metrics:      appMetrics,
		Cache:        cache,
		CacheTTL:     cfg.FeeSplitCacheTTL,
		Logger:       &appLogger,
	})

	// Outbox publisher
	publisher, closePublisher := newPublisher(cfg, appLogger)
	defer closePublisher()

	outbox := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Cleaner:    outboxRepo,
		Observer:   appMetrics,
		Logger:     &appLogger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	go func() {
		if err := outbox.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			appLogger.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go rateLimiter.RunCleanup(workerCtx, time.Minute)
	}

	jwtManager, err := newJWTManager(cfg, appLogger)
	if err != nil {
		return err
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		FeeSplitHandler:  handler.NewFeeSplitHandler(transferUC),
		AccountHandler:   handler.NewAccountHandler(accountUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		JWTManager:       jwtManager,
		RateLimiter:      rateLimiter,
		Metrics:          appMetrics,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:           appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         serverAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info().Str("addr", server.Addr).Bool("auth", jwtManager != nil).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down server...")
	cancelWorkers()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info().Msg("server stopped")
	return nil
}

// newPublisher picks the outbox sink: Kafka when brokers are configured,
// otherwise the log.
func newPublisher(cfg *config.Config, appLogger zerolog.Logger) (eventpublisher.Publisher, func()) {
	if !cfg.PublishingEnabled() {
		appLogger.Warn().Msg("KAFKA_BROKERS not set, outbox events are logged only")
		return eventpublisher.NewLogPublisher(appLogger), func() {}
	}

	kafkaPublisher := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	return kafkaPublisher, func() {
		if err := kafkaPublisher.Close(); err != nil {
			appLogger.Error().Err(err).Msg("failed to close kafka writer")
		}
	}
}

// newJWTManager returns nil when auth is disabled. Without auth the body
// authority of a fee split is taken on trust, so that mode is logged loudly.
func newJWTManager(cfg *config.Config, appLogger zerolog.Logger) (*auth.JWTManager, error) {
	if !cfg.AuthEnabled {
		appLogger.Warn().
			Bool("auth", false).
			Msg("AUTH_ENABLED=false: fee-split authority and account owner are unauthenticated request fields")
		return nil, nil
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("AUTH_ENABLED requires JWT_SECRET")
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration), nil
}

func serverAddr(port string) string {
	return fmt.Sprintf(":%s", port)
}
