package ctxutil

import (
	"context"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type ctxKey string

const (
	ginContextKey ctxKey = "gin_context"
	// TraceIDKey is the key trace ids are stored under, in both context.Context
	// and gin.Context.
	TraceIDKey = "trace_id"
	// TraceIDHeader carries the trace id across HTTP hops.
	TraceIDHeader = "X-Trace-Id"

	traceIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	traceIDSize     = 21
)

// FromGinContext extracts the context.Context from *gin.Context and keeps a
// back reference so values set later are visible to both.
func FromGinContext(c *gin.Context) context.Context {
	return WithGinContext(c.Request.Context(), c)
}

// WithGinContext returns a context.Context that embeds the *gin.Context.
func WithGinContext(ctx context.Context, c *gin.Context) context.Context {
	return context.WithValue(ctx, ginContextKey, c)
}

// GetGinContext extracts *gin.Context from context.Context if it exists.
func GetGinContext(ctx context.Context) (*gin.Context, bool) {
	if c, ok := ctx.Value(ginContextKey).(*gin.Context); ok {
		return c, ok
	}
	return nil, false
}

// GetValue retrieves a value from the context.
func GetValue(ctx context.Context, key string) any {
	if c, ok := GetGinContext(ctx); ok {
		if val, exists := c.Get(key); exists {
			return val
		}
	}
	return ctx.Value(ctxKey(key))
}

// SetValue sets a value to the context.
func SetValue(ctx context.Context, key string, val any) context.Context {
	if c, ok := GetGinContext(ctx); ok {
		c.Set(key, val)
	}
	return context.WithValue(ctx, ctxKey(key), val)
}

// GetTraceID gets trace id from context.Context or gin.Context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := GetValue(ctx, TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// SetTraceID sets trace id to context.Context and gin.Context if available.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return SetValue(ctx, TraceIDKey, traceID)
}

// NewTraceID returns a fresh lowercase nanoid.
func NewTraceID() string {
	return gonanoid.MustGenerate(traceIDAlphabet, traceIDSize)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := NewTraceID()
	return SetTraceID(ctx, traceID), traceID
}

// Trace is a gin middleware that adopts the inbound trace header or creates
// one, then echoes it on the response.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = NewTraceID()
		}
		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxKey(TraceIDKey), traceID))
		c.Next()
	}
}
