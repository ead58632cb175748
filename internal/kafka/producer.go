package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"ms-boxoffice/internal/config"
	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/models"
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes sale and seat status events. Messages are keyed by
// event id so that all updates of one event land on the same partition.
type Producer struct {
	Writer MessageWriter
	Topics config.TopicConfig
	Logger *logger.Logger
}

// NewProducer writes synchronously with a short batch window so one sale is
// not held back waiting for a full batch.
func NewProducer(brokers []string, topics config.TopicConfig, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           2 * time.Second,
		MaxAttempts:            3,
	}
	return &Producer{Writer: writer, Topics: topics, Logger: log}
}

// PublishSale streams a completed or partially completed sale to Kafka
func (p *Producer) PublishSale(ctx context.Context, event models.SaleEvent) error {
	return p.publish(ctx, p.Topics.Sales, event.EventID, event)
}

// PublishSeatStatus streams a seat status change to Kafka
func (p *Producer) PublishSeatStatus(ctx context.Context, event models.SeatStatusChangeEvent) error {
	return p.publish(ctx, p.Topics.SeatStatus, event.EventID, event)
}

func (p *Producer) publish(ctx context.Context, topic string, eventID int64, payload interface{}) error {
	msgBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode message for %s: %w", topic, err)
	}

	p.Logger.LogKafka("PUBLISH", topic, string(msgBytes))

	err = p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.FormatInt(eventID, 10)),
		Value: msgBytes,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
