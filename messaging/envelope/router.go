// Package envelope routes type-framed messages. Each message body is a
// typebuf frame, the type name followed by the payload, so consumers can pick
// a handler before touching the payload.
//
//	r := envelope.NewRouter()
//	_ = r.Handle("order.created", onCreated)
//	_ = r.HandlePattern("order.*", audit)
//	go envelope.ConsumeKafka(ctx, reader, r)
package envelope

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ncobase/ncrud/glob"
	"github.com/ncobase/ncrud/typebuf"
)

var (
	// ErrNoHandler is returned by Dispatch when no route matches the frame's
	// type name.
	ErrNoHandler = errors.New("envelope: no handler")
	// ErrEmptyRoute is returned when registering an empty type name.
	ErrEmptyRoute = errors.New("envelope: empty route")
)

// Handler processes the payload of one message.
type Handler func(ctx context.Context, payload []byte) error

type patternRoute struct {
	matcher *glob.Matcher
	handler Handler
}

// Router maps type names to handlers. Exact routes win over patterns;
// patterns are tried in registration order.
type Router struct {
	mu       sync.RWMutex
	exact    map[string]Handler
	patterns []patternRoute
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{exact: make(map[string]Handler)}
}

// Handle routes typeName to h, replacing any previous handler.
func (r *Router) Handle(typeName string, h Handler) error {
	if typeName == "" {
		return ErrEmptyRoute
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exact[typeName] = h
	return nil
}

// HandlePattern routes every type name matching the glob pattern to h.
func (r *Router) HandlePattern(pattern string, h Handler) error {
	m, err := glob.Compile(pattern)
	if err != nil {
		return err
	}
	if m.IsLiteral() {
		return r.Handle(pattern, h)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = append(r.patterns, patternRoute{matcher: m, handler: h})
	return nil
}

// Route returns the handler for typeName.
func (r *Router) Route(typeName string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.exact[typeName]; ok {
		return h, true
	}
	for _, p := range r.patterns {
		if p.matcher.Match(typeName) {
			return p.handler, true
		}
	}
	return nil, false
}

// Dispatch reads the type name of a frame and hands the payload to its
// handler. The payload is a copy the handler may keep.
func (r *Router) Dispatch(ctx context.Context, frame []byte) error {
	name, err := typebuf.Peek(frame)
	if err != nil {
		return err
	}
	h, ok := r.Route(name)
	if !ok {
		return fmt.Errorf("%w for %q", ErrNoHandler, name)
	}
	_, payload, err := typebuf.Extract(frame)
	if err != nil {
		return err
	}
	return h(ctx, payload)
}

// Marshal JSON encodes v and frames it under typeName.
func Marshal(typeName string, v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("envelope: marshal %s: %w", typeName, err)
	}
	return typebuf.Prefix(typeName, payload)
}

// JSON adapts a typed function into a Handler that decodes JSON payloads.
func JSON[T any](fn func(ctx context.Context, v T) error) Handler {
	return func(ctx context.Context, payload []byte) error {
		var v T
		if err := json.Unmarshal(payload, &v); err != nil {
			return fmt.Errorf("envelope: unmarshal: %w", err)
		}
		return fn(ctx, v)
	}
}
