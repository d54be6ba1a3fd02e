package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/ncrud/config"
	"github.com/ncobase/ncrud/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestMiddleware(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ctxutil.Trace(), Middleware("ncrud"))
	var inner trace.SpanContext
	r.GET("/orders", func(c *gin.Context) {
		inner = trace.SpanContextFromContext(c.Request.Context())
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set(ctxutil.TraceIDHeader, "req-1")
	r.ServeHTTP(w, req)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "GET /orders", s.Name())
	assert.Equal(t, trace.SpanKindServer, s.SpanKind())
	assert.Equal(t, s.SpanContext().SpanID(), inner.SpanID())
	assert.Contains(t, s.Attributes(), attribute.String(ctxutil.TraceIDKey, "req-1"))
	assert.Contains(t, s.Attributes(), attribute.Int("http.response.status_code", 500))
}

func TestInitWithoutEndpoint(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := Init(context.Background(), &config.Tracing{SamplingRate: 1}, "ncrud", "test")
	require.NoError(t, err)
	_, span := otel.Tracer("t").Start(context.Background(), "x")
	assert.True(t, span.SpanContext().IsSampled())
	span.End()
	require.NoError(t, shutdown(context.Background()))

	shutdown, err = Init(context.Background(), nil, "ncrud", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
