package logger

import (
	"fmt"
	"strings"

	"github.com/ncobase/ncrud/glob"
	"github.com/sirupsen/logrus"
)

const redactMask = "******"

// RedactHook masks entry fields whose lowercased names match any pattern.
// Continuation tokens are opaque but still leak keys, so they are masked by
// default.
type RedactHook struct {
	matchers []*glob.Matcher
}

// NewRedactHook compiles the field patterns.
func NewRedactHook(patterns []string) (*RedactHook, error) {
	h := &RedactHook{}
	for _, p := range patterns {
		m, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("redact field %q: %w", p, err)
		}
		h.matchers = append(h.matchers, m)
	}
	return h, nil
}

// Levels implements logrus.Hook.
func (h *RedactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *RedactHook) Fire(entry *logrus.Entry) error {
	for key, value := range entry.Data {
		if h.sensitive(key) && !isEmpty(value) {
			entry.Data[key] = redactMask
		}
	}
	return nil
}

func (h *RedactHook) sensitive(field string) bool {
	lower := strings.ToLower(field)
	for _, m := range h.matchers {
		if m.Match(lower) {
			return true
		}
	}
	return false
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []byte:
		return len(x) == 0
	}
	return false
}
