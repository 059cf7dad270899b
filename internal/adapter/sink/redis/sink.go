package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aurora/txnstream/internal/aggregation"
	"github.com/aurora/txnstream/internal/domain"
)

// Sink keeps the latest finalized aggregate per group in Redis so
// dashboards can read current window results without touching the
// analytic store. Each delivery overwrites the previous value for
// the same dimension and group.
type Sink struct {
	client *redis.Client
	ttl    time.Duration
}

var _ aggregation.Sink = (*Sink)(nil)

func NewSink(client *redis.Client, ttl time.Duration) *Sink {
	return &Sink{client: client, ttl: ttl}
}

func (s *Sink) Deliver(ctx context.Context, agg *domain.WindowAggregate) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("failed to marshal window aggregate: %w", err)
	}

	key := fmt.Sprintf("agg:%s:%s", agg.Dimension, agg.GroupKey)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store window aggregate: %w", err)
	}
	return nil
}
