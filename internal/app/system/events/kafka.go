package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON, keyed by profile id so one profile's
// events stay ordered within a partition.
type KafkaPublisher struct {
	w   messageWriter
	log *zap.Logger
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafka creates an async writer: Publish returns once the message is
// buffered and delivery failures are logged from the completion callback.
func NewKafka(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Async:    true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				logger.Warn("profile events not delivered",
					zap.String("topic", topic),
					zap.Int("count", len(msgs)),
					zap.Error(err))
			}
		},
	}
	return &KafkaPublisher{w: w, log: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.ProfileID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	})
}

// Close flushes buffered messages.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
