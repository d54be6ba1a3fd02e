// Package metrics keeps in-process counters for the listing service: HTTP
// requests per route and redis commands per name. Snapshots are served as
// JSON by the serve command.
package metrics

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// counter tracks totals, errors and cumulative latency.
type counter struct {
	total    atomic.Int64
	errors   atomic.Int64
	duration atomic.Int64 // nanoseconds
}

func (c *counter) record(d time.Duration, failed bool) {
	c.total.Add(1)
	if failed {
		c.errors.Add(1)
	}
	c.duration.Add(int64(d))
}

func (c *counter) snapshot() map[string]any {
	total := c.total.Load()
	m := map[string]any{
		"total":  total,
		"errors": c.errors.Load(),
	}
	if total > 0 {
		m["avg_ms"] = float64(c.duration.Load()) / float64(total) / float64(time.Millisecond)
	}
	return m
}

// Collector aggregates counters. The zero value is not usable; call
// NewCollector.
type Collector struct {
	mu       sync.RWMutex
	requests map[string]*counter
	redis    map[string]*counter
	started  time.Time
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{
		requests: make(map[string]*counter),
		redis:    make(map[string]*counter),
		started:  time.Now(),
	}
}

func (c *Collector) get(m map[string]*counter, name string) *counter {
	c.mu.RLock()
	ct, ok := m[name]
	c.mu.RUnlock()
	if ok {
		return ct
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ct, ok = m[name]; !ok {
		ct = &counter{}
		m[name] = ct
	}
	return ct
}

// RedisCommand counts one redis command. It satisfies cache.Collector.
func (c *Collector) RedisCommand(command string, err error) {
	c.get(c.redis, command).record(0, err != nil)
}

// RecordRequest counts one HTTP request. Statuses of 500 and above are errors.
func (c *Collector) RecordRequest(route string, status int, d time.Duration) {
	c.get(c.requests, route).record(d, status >= 500)
}

// Middleware records every request under "METHOD route".
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.RecordRequest(ctx.Request.Method+" "+route, ctx.Writer.Status(), time.Since(start))
	}
}

// GetMetrics returns a snapshot keyed by section and name.
func (c *Collector) GetMetrics() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return map[string]any{
		"uptime_s": strconv.FormatFloat(time.Since(c.started).Seconds(), 'f', 0, 64),
		"requests": snapshotAll(c.requests),
		"redis":    snapshotAll(c.redis),
	}
}

func snapshotAll(m map[string]*counter) map[string]any {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(map[string]any, len(m))
	for _, name := range names {
		out[name] = m[name].snapshot()
	}
	return out
}
