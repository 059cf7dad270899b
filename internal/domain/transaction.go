package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord represents a financial transaction accepted by the
// ingestion path. Once the durable write succeeds the record is immutable.
type TransactionRecord struct {
	ID          string          `json:"id"`
	Account     string          `json:"account"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description,omitempty"`
	Merchant    string          `json:"merchant,omitempty"`
	Category    string          `json:"category,omitempty"`
}

// StreamRecord is a TransactionRecord as it travels on the event stream,
// plus the processing-time stamp set when the record enters an aggregation
// pipeline. ProcessedAt is observability only; windowing uses Timestamp.
type StreamRecord struct {
	TransactionRecord

	ProcessedAt time.Time `json:"processed_at,omitempty"`
}
