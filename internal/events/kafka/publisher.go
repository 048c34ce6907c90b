// Package kafka publishes ledger events to a kafka topic.
package kafka

import (
	"context"
	"encoding/json"

	"github.com/go-petr/wallet-ledger/internal/events"

	"github.com/segmentio/kafka-go"
)

// Publisher writes TransactionCompleted events to a single topic.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns a Publisher connected to the given brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish implements events.Publisher. Events for the same account share a
// message key so they stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, event events.TransactionCompleted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AccountID),
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
