package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncobase/ncrud/config"
	"github.com/ncobase/ncrud/glob"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

var (
	// ErrNoClient is returned when the cache has no redis client.
	ErrNoClient = errors.New("cache: redis client is nil")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("cache: unavailable")
)

const (
	tagSegment = "#tag:"
	scanCount  = 256
)

// matchEscaper quotes the redis MATCH metacharacters of a literal prefix.
var matchEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// Collector observes redis commands.
type Collector interface {
	RedisCommand(command string, err error)
}

type noopCollector struct{}

func (noopCollector) RedisCommand(string, error) {}

// ICache defines a general caching interface
type ICache[T any] interface {
	Get(context.Context, string) (*T, error)
	Set(context.Context, string, *T, ...time.Duration) error
	Delete(context.Context, ...string) error
	SetTagged(context.Context, string, *T, []string, ...time.Duration) error
	InvalidateTags(context.Context, ...string) (int64, error)
	InvalidatePattern(context.Context, string) (int64, error)
}

var _ ICache[struct{}] = (*Cache[struct{}])(nil)

// Cache stores JSON encoded values of T under prefix. Every redis round trip
// goes through a circuit breaker, so an unreachable redis degrades to misses
// and ErrUnavailable instead of piling up timeouts.
type Cache[T any] struct {
	rc        redis.UniversalClient
	prefix    string
	ttl       time.Duration
	cb        *gobreaker.CircuitBreaker
	collector Collector
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	ttl       time.Duration
	breaker   *config.Breaker
	collector Collector
}

// WithTTL sets the default expiry.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithBreaker sets the circuit breaker settings.
func WithBreaker(b *config.Breaker) Option {
	return func(o *options) { o.breaker = b }
}

// WithCollector sets a command observer.
func WithCollector(c Collector) Option {
	return func(o *options) { o.collector = c }
}

// NewCache creates a new Cache instance
func NewCache[T any](rc redis.UniversalClient, prefix string, opts ...Option) *Cache[T] {
	o := options{
		breaker:   &config.Breaker{MaxRequests: 5, Interval: time.Minute, Timeout: 30 * time.Second, FailureThreshold: 5},
		collector: noopCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	threshold := o.breaker.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	return &Cache[T]{
		rc:        rc,
		prefix:    prefix,
		ttl:       o.ttl,
		collector: o.collector,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "cache:" + prefix,
			MaxRequests: o.breaker.MaxRequests,
			Interval:    o.breaker.Interval,
			Timeout:     o.breaker.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, redis.Nil)
			},
		}),
	}
}

// FromConfig creates a Cache using the cache section of the configuration.
func FromConfig[T any](rc redis.UniversalClient, cfg *config.Cache, name string, opts ...Option) *Cache[T] {
	base := []Option{WithTTL(cfg.TTL)}
	if cfg.Breaker != nil {
		base = append(base, WithBreaker(cfg.Breaker))
	}
	return NewCache[T](rc, Key(cfg.Prefix, name), append(base, opts...)...)
}

// Key returns the full redis key for field.
// Fields are kept verbatim so InvalidatePattern can match them.
func (c *Cache[T]) Key(field string) string {
	return c.prefix + string(Separator) + field
}

// TagKey returns the redis set holding the keys tagged with tag. Tag sets
// live outside the field namespace, so no field collides with them and
// InvalidatePattern never removes them.
func (c *Cache[T]) TagKey(tag string) string {
	return c.prefix + tagSegment + tag
}

// State reports the circuit breaker state.
func (c *Cache[T]) State() gobreaker.State {
	return c.cb.State()
}

func (c *Cache[T]) do(command string, fn func() error) error {
	if c.rc == nil {
		c.collector.RedisCommand(command, ErrNoClient)
		return ErrNoClient
	}
	_, err := c.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if errors.Is(err, redis.Nil) {
		c.collector.RedisCommand(command, nil)
	} else {
		c.collector.RedisCommand(command, err)
	}
	return err
}

func (c *Cache[T]) expiry(expire []time.Duration) time.Duration {
	if len(expire) > 0 {
		return expire[0]
	}
	return c.ttl
}

// Get retrieves a single item. A miss returns nil, nil.
func (c *Cache[T]) Get(ctx context.Context, field string) (*T, error) {
	var raw []byte
	err := c.do("get", func() (err error) {
		raw, err = c.rc.Get(ctx, c.Key(field)).Bytes()
		return err
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var row T
	if err = json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &row, nil
}

// Set saves a single item.
func (c *Cache[T]) Set(ctx context.Context, field string, data *T, expire ...time.Duration) error {
	bytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	err = c.do("set", func() error {
		return c.rc.Set(ctx, c.Key(field), bytes, c.expiry(expire)).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete removes items.
func (c *Cache[T]) Delete(ctx context.Context, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = c.Key(f)
	}
	err := c.do("del", func() error {
		return c.rc.Del(ctx, keys...).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// SetTagged saves an item and records its key under each tag, so a later
// InvalidateTags drops it. Tag sets live at least as long as their members.
func (c *Cache[T]) SetTagged(ctx context.Context, field string, data *T, tags []string, expire ...time.Duration) error {
	bytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	key := c.Key(field)
	ttl := c.expiry(expire)
	err = c.do("set_tagged", func() error {
		_, err := c.rc.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, bytes, ttl)
			for _, tag := range tags {
				tk := c.TagKey(tag)
				p.SAdd(ctx, tk, key)
				if ttl > 0 {
					p.ExpireGT(ctx, tk, ttl)
					p.ExpireNX(ctx, tk, ttl)
				}
			}
			return nil
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set tagged cache: %w", err)
	}
	return nil
}

// InvalidateTags deletes every key recorded under the tags, and the tag sets
// themselves. It returns the number of keys removed.
func (c *Cache[T]) InvalidateTags(ctx context.Context, tags ...string) (int64, error) {
	var removed int64
	for _, tag := range tags {
		tk := c.TagKey(tag)
		var members []string
		err := c.do("smembers", func() (err error) {
			members, err = c.rc.SMembers(ctx, tk).Result()
			return err
		})
		if err != nil {
			return removed, fmt.Errorf("failed to read tag %q: %w", tag, err)
		}
		var n int64
		err = c.do("del", func() (err error) {
			n, err = c.rc.Del(ctx, append(members, tk)...).Result()
			return err
		})
		if err != nil {
			return removed, fmt.Errorf("failed to invalidate tag %q: %w", tag, err)
		}
		// the tag set itself is not counted
		removed += min(n, int64(len(members)))
	}
	return removed, nil
}

// InvalidatePattern deletes the keys under this cache's prefix whose field
// matches the glob pattern. Keys are enumerated with SCAN and filtered
// locally, so the pattern syntax does not depend on redis's MATCH dialect.
func (c *Cache[T]) InvalidatePattern(ctx context.Context, pattern string) (int64, error) {
	m, err := glob.Compile(pattern)
	if err != nil {
		return 0, err
	}
	if m.IsLiteral() {
		var n int64
		err := c.do("del", func() (err error) {
			n, err = c.rc.Del(ctx, c.Key(pattern)).Result()
			return err
		})
		return n, err
	}

	scope := c.Key("")
	var (
		removed int64
		cursor  uint64
	)
	for {
		var keys []string
		err := c.do("scan", func() (err error) {
			keys, cursor, err = c.rc.Scan(ctx, cursor, matchEscaper.Replace(scope)+"*", scanCount).Result()
			return err
		})
		if err != nil {
			return removed, fmt.Errorf("failed to scan cache: %w", err)
		}

		matched := keys[:0]
		for _, k := range keys {
			if m.Match(k[len(scope):]) {
				matched = append(matched, k)
			}
		}
		if len(matched) > 0 {
			var n int64
			err := c.do("del", func() (err error) {
				n, err = c.rc.Del(ctx, matched...).Result()
				return err
			})
			if err != nil {
				return removed, fmt.Errorf("failed to invalidate pattern: %w", err)
			}
			removed += n
		}
		if cursor == 0 {
			return removed, nil
		}
	}
}
