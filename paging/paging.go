package paging

import (
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/ncobase/ncrud/cursor"
)

const (
	// DefaultLimit is used when a request carries no usable limit.
	DefaultLimit = 256
	// MaxLimit caps page sizes.
	MaxLimit = 1024
)

var (
	defaultLimit atomic.Int64
	maxLimit     atomic.Int64
)

func init() {
	defaultLimit.Store(DefaultLimit)
	maxLimit.Store(MaxLimit)
}

// SetLimits replaces the default and maximum page sizes. Non-positive values
// leave the current setting in place.
func SetLimits(def, max int) {
	if max > 0 {
		maxLimit.Store(int64(max))
	}
	if def > 0 {
		defaultLimit.Store(int64(def))
	}
}

// Limits returns the current default and maximum page sizes.
func Limits() (def, max int) {
	return int(defaultLimit.Load()), int(maxLimit.Load())
}

// Params holds the unified pagination parameters
type Params struct {
	Cursor string `json:"cursor,omitempty" form:"cursor" url:"cursor,omitempty" validate:"omitempty,cursor"`
	Limit  int    `json:"limit,omitempty" form:"limit" url:"limit,omitempty"`
}

// Result holds the pagination result
type Result[T any] struct {
	Items       []T    `json:"items"`
	Total       int    `json:"total,omitempty"`
	NextCursor  string `json:"next,omitempty"`
	HasNextPage bool   `json:"has_next"`
}

// NormalizeParams ensures that Limit is within an acceptable range. Missing
// limits take the default and oversized ones are capped.
func NormalizeParams(params Params) Params {
	def, max := Limits()
	switch {
	case params.Limit <= 0:
		params.Limit = min(def, max)
	case params.Limit > max:
		params.Limit = max
	}
	return params
}

// EncodeCursor encodes a row key, and optionally its timestamp, as a
// continuation token.
func EncodeCursor[K cursor.Key](id K, ts *time.Time) string {
	return cursor.New(id, ts).String()
}

// DecodeCursor parses a continuation token produced by EncodeCursor with the
// same key type. It reports false for empty, malformed or foreign tokens.
func DecodeCursor[K cursor.Key](s string) (cursor.Cursor[K], bool) {
	if s == "" {
		return cursor.Cursor[K]{}, false
	}
	return cursor.Parse[K](s)
}

// PagingFunc fetches up to limit items after cursor.
type PagingFunc[T any] func(cursor string, limit int) (items []T, total int, err error)

// CursorFunc derives the continuation token that resumes after item.
type CursorFunc[T any] func(item T) (string, error)

// Paginate applies pagination using the provided PagingFunc. It asks for one
// extra item to learn whether another page exists, and only then calls next
// on the last item kept.
func Paginate[T any](params Params, fetch PagingFunc[T], next CursorFunc[T]) (*Result[T], error) {
	params = NormalizeParams(params)
	items, total, err := fetch(params.Cursor, params.Limit+1)
	if err != nil {
		return nil, fmt.Errorf("pagination error: %w", err)
	}

	result := &Result[T]{Total: total}
	if len(items) > params.Limit {
		result.HasNextPage = true
		items = items[:params.Limit]
	}
	if items == nil {
		items = make([]T, 0)
	}
	result.Items = items

	if result.HasNextPage && next != nil {
		result.NextCursor, err = next(items[len(items)-1])
		if err != nil {
			return nil, fmt.Errorf("pagination cursor: %w", err)
		}
	}
	return result, nil
}

// NextQuery returns the query values that request the page after r. The
// limit is carried over so the next page has the same size.
func NextQuery[T any](params Params, r *Result[T]) (url.Values, error) {
	if r == nil || !r.HasNextPage || r.NextCursor == "" {
		return nil, nil
	}
	return query.Values(Params{Cursor: r.NextCursor, Limit: params.Limit})
}

// NoopPagingFunc is a noop paging function
func NoopPagingFunc[T any](string, int) ([]T, int, error) {
	return nil, 0, nil
}
