package usecase

import (
	"context"
	"time"

	"github.com/aurora/txnstream/internal/domain"
)

// TransactionRepository defines the durable keyed store capability.
type TransactionRepository interface {
	Save(ctx context.Context, record *domain.TransactionRecord) error
	GetByID(ctx context.Context, id string) (*domain.TransactionRecord, error)
}

// EventPublisher appends a record onto the event stream under the given key.
type EventPublisher interface {
	Publish(ctx context.Context, key string, record *domain.TransactionRecord) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsCollector is the metrics capability the ingest path reports into.
type MetricsCollector interface {
	TransactionIngested(amount float64)
	TransactionFailed()
	PublishSucceeded()
	PublishFailed()
	PublishDropped(count int)
	ObserveIngestDuration(d time.Duration)
	ObserveLookupDuration(d time.Duration)
}
