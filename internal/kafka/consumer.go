package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// CheckoutHandler receives each decoded checkout event.
type CheckoutHandler func(ctx context.Context, event CheckoutEvent) error

// messageReader is the part of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads checkout events from one topic as part of a consumer group.
type Consumer struct {
	reader messageReader
	log    logrus.FieldLogger
}

func NewConsumer(brokers []string, groupID, topic string, log logrus.FieldLogger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			MinBytes:          1,
			MaxBytes:          1 << 20,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// ConsumeCheckouts hands every event to handler and commits it afterwards.
// Messages that do not decode are logged, committed and skipped. A handler
// error stops the loop without committing, so the event is redelivered.
func (c *Consumer) ConsumeCheckouts(ctx context.Context, handler CheckoutHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		event, err := DecodeCheckoutEvent(msg)
		if err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{"topic": msg.Topic, "offset": msg.Offset}).Warn("skipping undecodable checkout event")
		} else if err := handler(ctx, event); err != nil {
			return fmt.Errorf("handle checkout event at offset %d: %w", msg.Offset, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

// DecodeCheckoutEvent parses a message value published by Producer.
func DecodeCheckoutEvent(msg kafka.Message) (CheckoutEvent, error) {
	var event CheckoutEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return CheckoutEvent{}, fmt.Errorf("decode checkout event: %w", err)
	}
	return event, nil
}
