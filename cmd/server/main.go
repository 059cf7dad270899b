package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/aurora/txnstream/internal/adapter/http"
	"github.com/aurora/txnstream/internal/adapter/http/handler"
	postgresRepo "github.com/aurora/txnstream/internal/adapter/repository/postgres"
	"github.com/aurora/txnstream/internal/adapter/stream/kafka"
	"github.com/aurora/txnstream/internal/infrastructure/config"
	"github.com/aurora/txnstream/internal/infrastructure/logging"
	"github.com/aurora/txnstream/internal/infrastructure/metrics"
	"github.com/aurora/txnstream/internal/infrastructure/postgres"
	"github.com/aurora/txnstream/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Optional .env for local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, resolveMigrationsPath()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Kafka publisher
	publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	// Ingest use case
	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	repo := postgresRepo.NewTransactionRepository(pool)
	ingestUC := usecase.NewIngestUseCase(usecase.Config{
		Repo:             repo,
		Publisher:        publisher,
		IDGen:            postgresRepo.NewUUIDGenerator(),
		Metrics:          m,
		Logger:           slogger.Logger,
		PublishQueueSize: cfg.PublishQueueSize,
		PublishWorkers:   cfg.PublishWorkers,
		PublishTimeout:   cfg.PublishTimeout,
	})

	// Initialize handlers
	transactionHandler := handler.NewTransactionHandler(ingestUC)
	healthHandler := handler.NewHealthHandler(pool)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: transactionHandler,
		HealthHandler:      healthHandler,
		Metrics:            m,
		Gatherer:           registry,
		Logger:             log.Logger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop accepting requests first so no ingest races the queue close.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Then drain the publish queue.
	if err := ingestUC.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("publish queue not fully drained")
	}

	log.Info().Msg("server stopped")
}

// resolveMigrationsPath returns the migrations directory, overridable for
// container images that bake it elsewhere.
func resolveMigrationsPath() string {
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		return path
	}
	return "migrations"
}
