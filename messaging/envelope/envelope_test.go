package envelope

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ncobase/ncrud/ctxutil"
	"github.com/ncobase/ncrud/typebuf"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type created struct {
	ID int64 `json:"id"`
}

func TestRouterDispatch(t *testing.T) {
	r := NewRouter()
	var got []string
	record := func(tag string) Handler {
		return func(_ context.Context, payload []byte) error {
			got = append(got, tag+":"+string(payload))
			return nil
		}
	}
	require.NoError(t, r.Handle("order.created", record("exact")))
	require.NoError(t, r.HandlePattern("order.*", record("any-order")))
	require.NoError(t, r.HandlePattern("*", record("fallback")))
	assert.ErrorIs(t, r.Handle("", record("x")), ErrEmptyRoute)
	assert.Error(t, r.HandlePattern("[bad", record("x")))

	for _, name := range []string{"order.created", "order.paid", "user.created"} {
		frame, err := typebuf.Prefix(name, []byte("p"))
		require.NoError(t, err)
		require.NoError(t, r.Dispatch(context.Background(), frame))
	}
	assert.Equal(t, []string{"exact:p", "any-order:p", "fallback:p"}, got)
}

func TestDispatchErrors(t *testing.T) {
	r := NewRouter()
	frame, err := typebuf.Prefix("nobody", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, r.Dispatch(context.Background(), frame), ErrNoHandler)
	assert.ErrorIs(t, r.Dispatch(context.Background(), []byte{0, 0}), typebuf.ErrInvalidArgument)
}

func TestMarshalJSON(t *testing.T) {
	r := NewRouter()
	var got created
	require.NoError(t, r.Handle("order.created", JSON(func(_ context.Context, v created) error {
		got = v
		return nil
	})))

	frame, err := Marshal("order.created", created{ID: 9})
	require.NoError(t, err)
	require.NoError(t, r.Dispatch(context.Background(), frame))
	assert.Equal(t, int64(9), got.ID)

	bad, err := typebuf.Prefix("order.created", []byte("{"))
	require.NoError(t, err)
	assert.Error(t, r.Dispatch(context.Background(), bad))
}

type fakeWriter struct {
	fails int
	msgs  []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.fails > 0 {
		w.fails--
		return errors.New("leader not available")
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{fails: 1}
	p := NewKafkaPublisher(w, 2)
	p.backoff = time.Millisecond

	ctx := ctxutil.SetTraceID(context.Background(), "t-1")
	require.NoError(t, p.Publish(ctx, "order.created", []byte("x")))
	require.Len(t, w.msgs, 1)
	m := w.msgs[0]
	assert.Equal(t, "order.created", string(m.Key))
	name, payload, err := typebuf.Extract(m.Value)
	require.NoError(t, err)
	assert.Equal(t, "order.created", name)
	assert.Equal(t, []byte("x"), payload)
	require.Len(t, m.Headers, 1)
	assert.Equal(t, "t-1", string(m.Headers[0].Value))

	w.fails = 5
	assert.Error(t, p.Publish(context.Background(), "order.created", nil))
	assert.ErrorIs(t, p.Publish(context.Background(), "", nil), typebuf.ErrInvalidArgument)
}

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return nil
}

func TestAMQPPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p := NewAMQPPublisher(ch, "events")
	require.NoError(t, p.Publish(context.Background(), "order.paid", []byte("{}")))

	assert.Equal(t, "events", ch.exchange)
	assert.Equal(t, "order.paid", ch.key)
	assert.Equal(t, "order.paid", ch.msg.Type)
	name, err := typebuf.Peek(ch.msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "order.paid", name)
}

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	done      chan struct{}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	close(r.done)
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func TestConsumeKafka(t *testing.T) {
	ok, _ := Marshal("order.created", created{ID: 1})
	failing, _ := Marshal("order.failing", created{ID: 2})
	unrouted, _ := Marshal("user.created", created{ID: 3})

	reader := &fakeReader{
		queue: []kafka.Message{
			{Offset: 1, Value: ok, Headers: []kafka.Header{{Key: ctxutil.TraceIDHeader, Value: []byte("abc")}}},
			{Offset: 2, Value: failing},
			{Offset: 3, Value: unrouted},
			{Offset: 4, Value: []byte{1}},
		},
		done: make(chan struct{}),
	}

	var trace string
	r := NewRouter()
	require.NoError(t, r.Handle("order.created", func(ctx context.Context, _ []byte) error {
		trace = ctxutil.GetTraceID(ctx)
		return nil
	}))
	require.NoError(t, r.Handle("order.failing", func(context.Context, []byte) error {
		return errors.New("db down")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- ConsumeKafka(ctx, reader, r) }()
	<-reader.done
	cancel()
	require.NoError(t, <-errc)

	assert.Equal(t, "abc", trace)
	assert.Equal(t, []int64{1, 3, 4}, reader.committed)
}

type ackRecorder struct {
	acks, nacks, rejects []uint64
}

func (a *ackRecorder) Ack(tag uint64, _ bool) error { a.acks = append(a.acks, tag); return nil }
func (a *ackRecorder) Nack(tag uint64, _ bool, _ bool) error {
	a.nacks = append(a.nacks, tag)
	return nil
}
func (a *ackRecorder) Reject(tag uint64, _ bool) error { a.rejects = append(a.rejects, tag); return nil }

func TestConsumeAMQP(t *testing.T) {
	ok, _ := Marshal("order.created", created{ID: 1})
	failing, _ := Marshal("order.failing", created{ID: 2})

	r := NewRouter()
	require.NoError(t, r.Handle("order.created", func(context.Context, []byte) error { return nil }))
	require.NoError(t, r.Handle("order.failing", func(context.Context, []byte) error { return errors.New("retry") }))

	acks := &ackRecorder{}
	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 1, Body: ok}
	deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 2, Body: failing}
	deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 3, Body: []byte("junk")}
	close(deliveries)

	require.NoError(t, ConsumeAMQP(context.Background(), deliveries, r))
	assert.Equal(t, []uint64{1}, acks.acks)
	assert.Equal(t, []uint64{2}, acks.nacks)
	assert.Equal(t, []uint64{3}, acks.rejects)
}
