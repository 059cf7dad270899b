package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aurora/txnstream/internal/domain"
)

// IngestUseCase coordinates the dual-write ingestion path: a synchronous
// durable write followed by an asynchronous publish onto the event stream.
// The durable write blocks the caller; the publish runs on a bounded worker
// pool and its outcome never reaches the caller. The two stores are not
// linked by a transaction: a failed publish after a successful save leaves
// them drifted until an operator intervenes, which is why publish failures
// are first-class metrics.
type IngestUseCase struct {
	repo      TransactionRepository
	publisher EventPublisher
	idGen     IDGenerator
	metrics   MetricsCollector
	logger    *slog.Logger

	publishTimeout time.Duration
	queue          chan *domain.TransactionRecord
	workers        sync.WaitGroup
	closeOnce      sync.Once
}

// Config for IngestUseCase.
type Config struct {
	Repo      TransactionRepository
	Publisher EventPublisher
	IDGen     IDGenerator
	Metrics   MetricsCollector
	Logger    *slog.Logger

	// PublishQueueSize bounds the number of queued publishes. A full queue
	// makes Ingest wait rather than drop the publish.
	PublishQueueSize int
	// PublishWorkers is the number of concurrent publish workers.
	PublishWorkers int
	// PublishTimeout bounds a single publish attempt.
	PublishTimeout time.Duration
}

// NewIngestUseCase creates the coordinator and starts its publish workers.
func NewIngestUseCase(cfg Config) *IngestUseCase {
	if cfg.PublishQueueSize <= 0 {
		cfg.PublishQueueSize = 1024
	}
	if cfg.PublishWorkers <= 0 {
		cfg.PublishWorkers = 4
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	uc := &IngestUseCase{
		repo:           cfg.Repo,
		publisher:      cfg.Publisher,
		idGen:          cfg.IDGen,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
		publishTimeout: cfg.PublishTimeout,
		queue:          make(chan *domain.TransactionRecord, cfg.PublishQueueSize),
	}

	for i := 0; i < cfg.PublishWorkers; i++ {
		uc.workers.Add(1)
		go uc.publishWorker()
	}

	return uc
}

// IngestInput represents a submitted transaction.
type IngestInput struct {
	Account     string
	Amount      decimal.Decimal
	Currency    string
	Timestamp   *time.Time
	Description string
	Merchant    string
	Category    string
}

// Ingest validates and enriches the submission, persists it synchronously,
// then queues the event-stream publish. A validation failure writes
// nothing; a durable-write failure surfaces as *domain.PersistenceError and
// the publish is never attempted.
func (uc *IngestUseCase) Ingest(ctx context.Context, input IngestInput) (*domain.TransactionRecord, error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveIngestDuration(time.Since(start)) }()

	record := uc.buildRecord(input)

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Save(ctx, record); err != nil {
		uc.metrics.TransactionFailed()
		uc.logger.Error("durable write failed",
			slog.String("transaction_id", record.ID),
			slog.String("error", err.Error()))
		return nil, &domain.PersistenceError{Err: err}
	}

	uc.logger.Debug("transaction persisted", slog.String("transaction_id", record.ID))

	// Blocks when the queue is full: backpressure instead of dropping.
	uc.queue <- record

	amount, _ := record.Amount.Float64()
	uc.metrics.TransactionIngested(amount)
	uc.logger.Info("transaction ingested",
		slog.String("transaction_id", record.ID),
		slog.String("account", record.Account),
		slog.String("amount", record.Amount.String()),
		slog.String("currency", record.Currency))

	return record, nil
}

// GetTransaction retrieves a transaction by id. Returns
// domain.ErrTransactionNotFound when absent; no caching, no side effects.
func (uc *IngestUseCase) GetTransaction(ctx context.Context, id string) (*domain.TransactionRecord, error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveLookupDuration(time.Since(start)) }()

	return uc.repo.GetByID(ctx, id)
}

// Close stops accepting publishes and drains queued ones until the context
// expires, after which the remainder is abandoned and counted as dropped.
// Ingest must not be called after Close; shut the request boundary down
// first.
func (uc *IngestUseCase) Close(ctx context.Context) error {
	uc.closeOnce.Do(func() { close(uc.queue) })

	done := make(chan struct{})
	go func() {
		uc.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		uc.logger.Info("publish queue drained")
		return nil
	case <-ctx.Done():
		remaining := len(uc.queue)
		uc.metrics.PublishDropped(remaining)
		uc.logger.Warn("abandoning queued publishes on shutdown",
			slog.Int("remaining", remaining))
		return ctx.Err()
	}
}

func (uc *IngestUseCase) buildRecord(input IngestInput) *domain.TransactionRecord {
	ts := time.Now().UTC()
	if input.Timestamp != nil {
		ts = input.Timestamp.UTC()
	}

	return &domain.TransactionRecord{
		ID:          uc.idGen.Generate(),
		Account:     strings.TrimSpace(input.Account),
		Amount:      input.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(input.Currency)),
		Timestamp:   ts,
		Description: input.Description,
		Merchant:    input.Merchant,
		Category:    input.Category,
	}
}

// publishWorker drains the queue until it is closed. Publish failures are
// recorded and logged, never retried and never surfaced to the ingest
// caller.
func (uc *IngestUseCase) publishWorker() {
	defer uc.workers.Done()

	for record := range uc.queue {
		ctx, cancel := context.WithTimeout(context.Background(), uc.publishTimeout)
		err := uc.publisher.Publish(ctx, record.ID, record)
		cancel()

		if err != nil {
			uc.metrics.PublishFailed()
			perr := &domain.PublishError{TransactionID: record.ID, Err: err}
			uc.logger.Error("event publish failed, store and stream have drifted",
				slog.String("transaction_id", record.ID),
				slog.String("error", perr.Error()))
			continue
		}

		uc.metrics.PublishSucceeded()
		uc.logger.Debug("transaction published", slog.String("transaction_id", record.ID))
	}
}
