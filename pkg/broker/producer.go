package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// Message is one keyed payload bound for the producer's topic.
type Message struct {
	Key   string
	Value any
}

type Producer struct {
	l       *slog.Logger
	w       *kafka.Writer
	topic   string
	brokers []string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:       l,
		w:       w,
		topic:   topic,
		brokers: brokers,
	}
}

// Send writes every message in one batch. Messages sharing a key land on the
// same partition.
func (p *Producer) Send(ctx context.Context, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	out := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m.Value)
		if err != nil {
			return fmt.Errorf("marshal message %s: %w", m.Key, err)
		}
		out = append(out, kafka.Message{
			Topic: p.topic,
			Key:   []byte(m.Key),
			Value: b,
		})
	}

	if err := p.w.WriteMessages(ctx, out...); err != nil {
		return fmt.Errorf("write kafka messages: %w", err)
	}
	return nil
}

func (p *Producer) Close() {
	if err := p.w.Close(); err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}

// Ping succeeds when any configured broker accepts a connection.
func (p *Producer) Ping(ctx context.Context) error {
	var lastErr error
	for _, addr := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		_ = conn.Close()
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no kafka brokers configured")
	}
	return fmt.Errorf("dial kafka: %w", lastErr)
}
