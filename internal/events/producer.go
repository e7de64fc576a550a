package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fathima-sithara/chatroom-service/internal/core"
)

// Producer mirrors every accepted chat event to Kafka for downstream
// consumers (archival, notifications). The writer is async so a slow broker
// never sits on the chat path; delivery failures only get logged.
type Producer struct {
	writer *kafkago.Writer
}

func NewProducer(brokers []string, topic string, log *zap.SugaredLogger) *Producer {
	w := &kafkago.Writer{
		Addr:     kafkago.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafkago.LeastBytes{},
		Async:    true,
		Completion: func(msgs []kafkago.Message, err error) {
			if err != nil {
				log.Warnw("kafka delivery failed", "count", len(msgs), "err", err)
			}
		},
	}
	return &Producer{writer: w}
}

func (p *Producer) Publish(ctx context.Context, ev core.ChatEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(ev.Room),
		Value: b,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
