package aggregation

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/aurora/txnstream/internal/domain"
)

// Sink receives finalized window aggregates. Delivery is at-least-once: a
// sink must tolerate duplicate delivery of the same finalized aggregate.
type Sink interface {
	Deliver(ctx context.Context, agg *domain.WindowAggregate) error
}

// RetrySink wraps a sink with exponential-backoff retry. A delivery failure
// is a retryable local condition; it never stops the pipeline.
type RetrySink struct {
	sink            Sink
	logger          *slog.Logger
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
}

// NewRetrySink creates a RetrySink with default backoff settings.
func NewRetrySink(sink Sink, logger *slog.Logger) *RetrySink {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetrySink{
		sink:            sink,
		logger:          logger,
		initialInterval: 100 * time.Millisecond,
		maxInterval:     2 * time.Second,
		maxElapsedTime:  15 * time.Second,
	}
}

// Deliver delivers the aggregate, retrying transient failures.
func (s *RetrySink) Deliver(ctx context.Context, agg *domain.WindowAggregate) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialInterval
	b.MaxInterval = s.maxInterval
	b.MaxElapsedTime = s.maxElapsedTime

	return backoff.Retry(func() error {
		err := s.sink.Deliver(ctx, agg)
		if err != nil {
			s.logger.Warn("aggregate delivery failed, retrying",
				slog.String("dimension", agg.Dimension),
				slog.String("group_key", agg.GroupKey),
				slog.String("error", err.Error()))
		}
		return err
	}, backoff.WithContext(b, ctx))
}

// MultiSink delivers each aggregate to every wrapped sink in order. It stops
// at the first failure so the caller's retry replays the whole fan-out;
// downstream sinks must tolerate the resulting duplicates.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a MultiSink over the given sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Deliver delivers the aggregate to all sinks.
func (s *MultiSink) Deliver(ctx context.Context, agg *domain.WindowAggregate) error {
	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, agg); err != nil {
			return err
		}
	}
	return nil
}

// LogSink writes aggregates to the log. Useful for local development.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a new LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Deliver logs the aggregate.
func (s *LogSink) Deliver(ctx context.Context, agg *domain.WindowAggregate) error {
	payload, err := json.Marshal(agg)
	if err != nil {
		return err
	}

	s.logger.Info("WINDOW AGGREGATE",
		slog.String("dimension", agg.Dimension),
		slog.String("group_key", agg.GroupKey),
		slog.Time("window_start", agg.WindowStart),
		slog.Time("window_end", agg.WindowEnd),
		slog.String("payload", string(payload)))

	return nil
}
