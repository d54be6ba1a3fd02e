package ctxutil

import (
	"context"
	"time"
)

// DefaultAsyncTimeout bounds detached work such as message handlers and cache
// invalidation that outlives the request.
const DefaultAsyncTimeout = 5 * time.Second

// WithAsyncContext detaches from the parent's cancellation but keeps its values,
// so trace ids survive.
func WithAsyncContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultAsyncTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
