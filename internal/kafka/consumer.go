package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"

	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/models"
)

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Handlers receive decoded messages. A nil handler skips its topic.
type Handlers struct {
	Sale       func(ctx context.Context, event models.SaleEvent)
	SeatStatus func(ctx context.Context, event models.SeatStatusChangeEvent)
}

type Consumer struct {
	reader MessageReader
	topics map[string]string
	retry  backoff.BackOff
	logger *logger.Logger
}

// NewReadBackOff is the wait policy between failed reads: exponential from
// 200ms up to 10s, never giving up.
func NewReadBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// NewConsumer creates a group consumer over the sale and seat status topics.
func NewConsumer(brokers []string, groupID string, salesTopic, seatStatusTopic string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: []string{salesTopic, seatStatusTopic},
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
	})
	return NewConsumerWithReader(reader, salesTopic, seatStatusTopic, log)
}

func NewConsumerWithReader(reader MessageReader, salesTopic, seatStatusTopic string, log *logger.Logger) *Consumer {
	return &Consumer{
		reader: reader,
		topics: map[string]string{salesTopic: "sale", seatStatusTopic: "seat_status"},
		retry:  NewReadBackOff(),
		logger: log,
	}
}

// WithRetry replaces the wait policy applied after a failed read.
func (c *Consumer) WithRetry(b backoff.BackOff) *Consumer {
	c.retry = b
	return c
}

// Start consumes until ctx is cancelled. Undecodable messages are logged and
// skipped.
func (c *Consumer) Start(ctx context.Context, handlers Handlers) error {
	c.logger.Info("KAFKA", "Kafka consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info("KAFKA", "Kafka consumer stopped")
				return nil
			}
			if errors.Is(err, io.EOF) {
				c.logger.Error("KAFKA", fmt.Sprintf("Error reading message: %v", err))
				return err
			}
			wait := c.retry.NextBackOff()
			if wait == backoff.Stop {
				return fmt.Errorf("kafka read retries exhausted: %w", err)
			}
			c.logger.Error("KAFKA", fmt.Sprintf("Error reading message, retrying in %s: %v", wait, err))
			select {
			case <-ctx.Done():
				c.logger.Info("KAFKA", "Kafka consumer stopped")
				return nil
			case <-time.After(wait):
			}
			continue
		}
		c.retry.Reset()

		if err := c.dispatch(ctx, msg, handlers); err != nil {
			c.logger.Warn("KAFKA", fmt.Sprintf("Skipping message at %s/%d offset %d: %v", msg.Topic, msg.Partition, msg.Offset, err))
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg kafka.Message, handlers Handlers) error {
	switch c.topics[msg.Topic] {
	case "sale":
		if handlers.Sale == nil {
			return nil
		}
		var event models.SaleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("decode sale event: %w", err)
		}
		c.logger.LogKafka("RECEIVED", msg.Topic, fmt.Sprintf("sale %s for event %d", event.CorrelationID, event.EventID))
		handlers.Sale(ctx, event)
	case "seat_status":
		if handlers.SeatStatus == nil {
			return nil
		}
		var event models.SeatStatusChangeEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("decode seat status event: %w", err)
		}
		c.logger.LogKafka("RECEIVED", msg.Topic, fmt.Sprintf("%d seats %s for event %d", len(event.SeatIDs), event.Status, event.EventID))
		handlers.SeatStatus(ctx, event)
	default:
		return fmt.Errorf("unexpected topic %q", msg.Topic)
	}
	return nil
}

// Close gracefully shuts down the Kafka reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
