package envelope

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/ncobase/ncrud/ctxutil"
	"github.com/ncobase/ncrud/logging/logger"
	"github.com/ncobase/ncrud/typebuf"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// HandlerTimeout bounds a single dispatch. Handlers keep running through
// shutdown until it expires.
var HandlerTimeout = ctxutil.DefaultAsyncTimeout

// poison reports errors that retrying cannot fix.
func poison(err error) bool {
	return errors.Is(err, ErrNoHandler) || errors.Is(err, typebuf.ErrInvalidArgument)
}

func dispatch(ctx context.Context, r *Router, traceID string, body []byte) error {
	hctx, cancel := ctxutil.WithAsyncContext(ctx, HandlerTimeout)
	defer cancel()
	if traceID != "" {
		hctx = ctxutil.SetTraceID(hctx, traceID)
	}
	hctx, _ = ctxutil.EnsureTraceID(hctx)
	return r.Dispatch(hctx, body)
}

// ConsumeKafka fetches messages until ctx is done or the reader is closed.
// Handled and poison messages are committed; messages whose handler fails are
// left uncommitted so the group redelivers them.
func ConsumeKafka(ctx context.Context, reader MessageReader, r *Router) error {
	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			logger.Errorf(ctx, "kafka: fetch: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		var traceID string
		for _, h := range m.Headers {
			if h.Key == ctxutil.TraceIDHeader {
				traceID = string(h.Value)
			}
		}

		if err := dispatch(ctx, r, traceID, m.Value); err != nil {
			if !poison(err) {
				logger.Errorf(ctx, "kafka: %s/%d@%d: %v", m.Topic, m.Partition, m.Offset, err)
				continue
			}
			logger.Warnf(ctx, "kafka: dropping %s/%d@%d: %v", m.Topic, m.Partition, m.Offset, err)
		}
		if err := reader.CommitMessages(context.WithoutCancel(ctx), m); err != nil {
			logger.Errorf(ctx, "kafka: commit: %v", err)
		}
	}
}

// ConsumeAMQP handles deliveries until ctx is done or the channel closes.
// Poison messages are rejected without requeue; handler failures are requeued.
func ConsumeAMQP(ctx context.Context, deliveries <-chan amqp.Delivery, r *Router) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			traceID, _ := d.Headers[ctxutil.TraceIDHeader].(string)
			err := dispatch(ctx, r, traceID, d.Body)
			switch {
			case err == nil:
				err = d.Ack(false)
			case poison(err):
				logger.Warnf(ctx, "rabbitmq: dropping %s: %v", d.RoutingKey, err)
				err = d.Reject(false)
			default:
				logger.Errorf(ctx, "rabbitmq: %s: %v", d.RoutingKey, err)
				err = d.Nack(false, true)
			}
			if err != nil {
				logger.Errorf(ctx, "rabbitmq: acknowledge: %v", err)
			}
		}
	}
}
