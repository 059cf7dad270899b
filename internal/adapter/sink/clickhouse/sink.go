package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/aurora/txnstream/internal/aggregation"
	"github.com/aurora/txnstream/internal/domain"
)

const insertQuery = `
	INSERT INTO window_aggregates (
		id, dimension, group_key,
		window_start, window_end,
		sum, count, average, min, max,
		distinct_accounts, distinct_merchants, distinct_currencies,
		emitted_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Sink writes finalized window aggregates into ClickHouse,
// one row per aggregate.
type Sink struct {
	conn driver.Conn
}

var _ aggregation.Sink = (*Sink)(nil)

func NewSink(conn driver.Conn) *Sink {
	return &Sink{conn: conn}
}

// Deliver inserts a single aggregate row.
func (s *Sink) Deliver(ctx context.Context, agg *domain.WindowAggregate) error {
	err := s.conn.Exec(ctx, insertQuery,
		agg.ID,
		agg.Dimension,
		agg.GroupKey,
		agg.WindowStart,
		agg.WindowEnd,
		agg.Sum.String(),
		uint64(agg.Count),
		agg.Average.String(),
		agg.Min.String(),
		agg.Max.String(),
		uint64(agg.DistinctCounts[aggregation.DistinctAccounts]),
		uint64(agg.DistinctCounts[aggregation.DistinctMerchants]),
		uint64(agg.DistinctCounts[aggregation.DistinctCurrencies]),
		agg.EmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert window aggregate: %w", err)
	}
	return nil
}
