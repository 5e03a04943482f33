package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-identity/internal/application/service"
	"github.com/khoahotran/talent-identity/internal/config"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

const (
	defaultMaxAttempts = 5
	defaultBackoff     = 500 * time.Millisecond
	maxBackoff         = 30 * time.Second
)

// MessageReader is the part of *kafka.Reader the consumer drives.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type UserEventHandler func(ctx context.Context, payload service.UserEventPayload) error

// KafkaConsumer handles identity events one at a time. A failing event is
// retried in place, so nothing behind it is committed before it is settled.
type KafkaConsumer struct {
	reader      MessageReader
	handle      UserEventHandler
	logger      logger.Logger
	MaxAttempts int
	Backoff     time.Duration
}

func NewKafkaConsumer(reader MessageReader, handle UserEventHandler, log logger.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader:      reader,
		handle:      handle,
		logger:      log,
		MaxAttempts: defaultMaxAttempts,
		Backoff:     defaultBackoff,
	}
}

func NewIdentityEventsReader(cfg config.Config, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    TopicIdentityEvents,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// Run blocks until ctx is cancelled.
func (c *KafkaConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			if !sleepCtx(ctx, c.Backoff) {
				return nil
			}
			continue
		}

		var payload service.UserEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			c.logger.Warn("Skipping malformed event", zap.ByteString("key", msg.Key), zap.Error(err))
		} else if !c.process(ctx, msg, payload) {
			return nil
		}

		if err := c.reader.CommitMessages(context.Background(), msg); err != nil {
			c.logger.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
		}
	}
}

// process reports false when ctx ended before the event was settled; the
// message then stays uncommitted.
func (c *KafkaConsumer) process(ctx context.Context, msg kafka.Message, payload service.UserEventPayload) bool {
	policy := &backoff.ExponentialBackOff{
		InitialInterval:     c.Backoff,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          2,
		MaxInterval:         maxBackoff,
	}

	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		return struct{}{}, c.handle(ctx, payload)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Warn("Retrying identity event",
				zap.String("user_id", payload.UserID.String()),
				zap.Int("attempt", attempts),
				zap.Duration("backoff", next),
				zap.Error(err))
		}),
	)
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		c.logger.Error("Giving up on identity event", err,
			zap.String("user_id", payload.UserID.String()),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempts", attempts))
	}
	return true
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
