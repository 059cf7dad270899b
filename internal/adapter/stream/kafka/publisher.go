package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/aurora/txnstream/internal/domain"
)

// Publisher implements usecase.EventPublisher on a Kafka topic. Messages
// are keyed by transaction id so all events for one transaction land on
// the same partition in order.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Lz4,
			BatchTimeout: 5 * time.Millisecond,
		},
	}
}

// Publish appends one record to the stream.
func (p *Publisher) Publish(ctx context.Context, key string, record *domain.TransactionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
