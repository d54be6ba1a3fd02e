package envelope

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/ncrud/ctxutil"
	"github.com/ncobase/ncrud/typebuf"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
)

// Publisher sends payloads framed with their type name.
type Publisher interface {
	Publish(ctx context.Context, typeName string, payload []byte) error
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes frames to kafka, keyed by type name so messages of one
// type keep their order.
type KafkaPublisher struct {
	w        MessageWriter
	attempts int
	backoff  time.Duration
}

// NewKafkaPublisher wraps w. attempts below one mean one.
func NewKafkaPublisher(w MessageWriter, attempts int) *KafkaPublisher {
	return &KafkaPublisher{w: w, attempts: max(attempts, 1), backoff: 100 * time.Millisecond}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, typeName string, payload []byte) error {
	frame, err := typebuf.Prefix(typeName, payload)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(typeName),
		Value: frame,
		Time:  time.Now(),
	}
	if traceID := ctxutil.GetTraceID(ctx); traceID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: ctxutil.TraceIDHeader, Value: []byte(traceID)})
	}

	backoff := p.backoff
	for attempt := 1; ; attempt++ {
		err = p.w.WriteMessages(ctx, msg)
		if err == nil {
			return nil
		}
		if attempt >= p.attempts || ctx.Err() != nil {
			return fmt.Errorf("kafka: publish %s after %d attempts: %w", typeName, attempt, err)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("kafka: publish %s: %w", typeName, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher publishes frames to an exchange with the type name as the
// routing key.
type AMQPPublisher struct {
	ch       Channel
	exchange string
}

// NewAMQPPublisher wraps ch.
func NewAMQPPublisher(ch Channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange}
}

// Publish implements Publisher.
func (p *AMQPPublisher) Publish(ctx context.Context, typeName string, payload []byte) error {
	if p.ch == nil {
		return errors.New("rabbitmq: channel is nil")
	}
	frame, err := typebuf.Prefix(typeName, payload)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/octet-stream",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         typeName,
		Body:         frame,
	}
	if traceID := ctxutil.GetTraceID(ctx); traceID != "" {
		msg.Headers = amqp.Table{ctxutil.TraceIDHeader: traceID}
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, typeName, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", typeName, err)
	}
	return nil
}
