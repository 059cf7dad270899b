package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Grouping dimensions
const (
	DimensionCurrency         = "currency"
	DimensionAccount          = "account"
	DimensionMerchantCategory = "merchant_category"
)

// WindowAggregate is one finalized window's statistics for a single group
// key within a dimension, emitted exactly once when the watermark passes
// the window end.
type WindowAggregate struct {
	ID          string          `json:"id"`
	Dimension   string          `json:"dimension"`
	GroupKey    string          `json:"group_key"`
	WindowStart time.Time       `json:"window_start"`
	WindowEnd   time.Time       `json:"window_end"`
	Sum         decimal.Decimal `json:"sum"`
	Count       int64           `json:"count"`
	Average     decimal.Decimal `json:"average"`
	Min         decimal.Decimal `json:"min"`
	Max         decimal.Decimal `json:"max"`

	// Dimension-specific distinct counts, keyed by field name
	// (e.g. "accounts", "merchants", "currencies").
	DistinctCounts map[string]int64 `json:"distinct_counts,omitempty"`

	EmittedAt time.Time `json:"emitted_at"`
}
