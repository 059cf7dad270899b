package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/aurora/txnstream/internal/aggregation"
)

// Reader implements aggregation.StreamReader on a Kafka consumer group.
// Each aggregation pipeline uses its own group so every pipeline sees the
// full stream.
type Reader struct {
	reader *kafka.Reader
}

// NewReader creates a reader for the given brokers, topic and group.
func NewReader(brokers []string, topic, groupID string) *Reader {
	return &Reader{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
	}
}

// Fetch blocks until the next record is available.
func (r *Reader) Fetch(ctx context.Context) (aggregation.Message, error) {
	msg, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return aggregation.Message{}, err
	}

	return aggregation.Message{
		Key:       msg.Key,
		Value:     msg.Value,
		Partition: msg.Partition,
		Offset:    msg.Offset,
	}, nil
}

// Commit marks the message as consumed.
func (r *Reader) Commit(ctx context.Context, msg aggregation.Message) error {
	return r.reader.CommitMessages(ctx, kafka.Message{
		Topic:     r.reader.Config().Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
	})
}

// Close closes the underlying reader.
func (r *Reader) Close() error {
	return r.reader.Close()
}
