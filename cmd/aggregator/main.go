package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	clickhouseSink "github.com/aurora/txnstream/internal/adapter/sink/clickhouse"
	redisSink "github.com/aurora/txnstream/internal/adapter/sink/redis"
	"github.com/aurora/txnstream/internal/adapter/stream/kafka"
	"github.com/aurora/txnstream/internal/aggregation"
	"github.com/aurora/txnstream/internal/infrastructure/clickhouse"
	"github.com/aurora/txnstream/internal/infrastructure/config"
	"github.com/aurora/txnstream/internal/infrastructure/logging"
	"github.com/aurora/txnstream/internal/infrastructure/metrics"
	"github.com/aurora/txnstream/internal/infrastructure/redis"
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

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Metrics
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Aggregate sink
	sink, cleanup, err := buildSink(ctx, cfg, slogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build aggregate sink")
	}
	defer cleanup()

	retrying := aggregation.NewRetrySink(sink, slogger.Logger)
	idGen := aggregation.NewULIDGenerator()

	// One pipeline per grouping dimension, each on its own consumer group
	// so every pipeline sees the full stream.
	dimensions := []aggregation.Dimension{
		aggregation.CurrencyDimension(aggregation.WindowConfig{
			Length:   cfg.CurrencyWindowLength,
			Slide:    cfg.CurrencyWindowSlide,
			Lateness: cfg.AllowedLateness,
		}),
		aggregation.AccountDimension(aggregation.WindowConfig{
			Length:   cfg.AccountWindowLength,
			Slide:    cfg.AccountWindowSlide,
			Lateness: cfg.AllowedLateness,
		}),
		aggregation.MerchantCategoryDimension(aggregation.WindowConfig{
			Length:   cfg.MerchantWindowLength,
			Slide:    cfg.MerchantWindowSlide,
			Lateness: cfg.AllowedLateness,
		}),
	}

	engine := aggregation.NewEngine(slogger.Logger)
	for _, dim := range dimensions {
		reader := kafka.NewReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupIDPrefix+"-"+dim.Name)
		pipeline := aggregation.NewPipeline(dim, retrying, idGen, m, slogger.Logger)
		engine.Add(pipeline, reader)
	}

	// Metrics endpoint
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("serving metrics")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	log.Info().
		Strs("brokers", cfg.KafkaBrokers).
		Str("topic", cfg.KafkaTopic).
		Str("sink", cfg.SinkKind).
		Msg("starting aggregation engine")

	if err := engine.Run(ctx); err != nil {
		log.Error().Err(err).Msg("aggregation engine stopped with error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)

	log.Info().Msg("aggregator stopped")
}

// buildSink constructs the configured aggregate sink and returns a cleanup
// for its connections.
func buildSink(ctx context.Context, cfg *config.Config, slogger *logging.Logger) (aggregation.Sink, func(), error) {
	noop := func() {}

	switch cfg.SinkKind {
	case "log":
		return aggregation.NewLogSink(slogger.Logger), noop, nil

	case "clickhouse":
		client, err := clickhouse.NewClient(ctx, cfg.ClickHouseAddr, cfg.ClickHouseDatabase, cfg.ClickHouseUsername, cfg.ClickHousePassword)
		if err != nil {
			return nil, nil, err
		}
		return clickhouseSink.NewSink(client.Conn()), func() { client.Close() }, nil

	case "redis":
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redisSink.NewSink(client, cfg.RedisAggregateTTL), func() { client.Close() }, nil

	case "all":
		chClient, err := clickhouse.NewClient(ctx, cfg.ClickHouseAddr, cfg.ClickHouseDatabase, cfg.ClickHouseUsername, cfg.ClickHousePassword)
		if err != nil {
			return nil, nil, err
		}
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			chClient.Close()
			return nil, nil, err
		}
		sink := aggregation.NewMultiSink(
			clickhouseSink.NewSink(chClient.Conn()),
			redisSink.NewSink(redisClient, cfg.RedisAggregateTTL),
		)
		return sink, func() {
			chClient.Close()
			redisClient.Close()
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown sink kind %q", cfg.SinkKind)
	}
}
