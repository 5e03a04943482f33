package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/talent-identity/internal/application/service"
	"github.com/khoahotran/talent-identity/internal/config"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

const TopicIdentityEvents = "identity.events"

type KafkaProducerClient struct {
	IdentityEventsWriter *kafka.Writer
	logger               logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        TopicIdentityEvents,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	log.Info("Initialize Kafka Producer successfully.")
	return &KafkaProducerClient{IdentityEventsWriter: writer, logger: log}, nil
}

// PublishUserEvent keys messages by user id so one account's events stay ordered.
func (c *KafkaProducerClient) PublishUserEvent(ctx context.Context, payload service.UserEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal identity event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(payload.UserID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(payload.EventType)},
		},
	}
	if err := c.IdentityEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write identity event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.IdentityEventsWriter != nil {
		if err := c.IdentityEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close Kafka writer")
		}
	}
	c.logger.Info("Closed Kafka Producer")
}
