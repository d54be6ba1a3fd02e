// Package cursor encodes the common "last id [+ timestamp]" keyset cursor
// into a compact URL-safe token.
//
// Unlike package token, a cursor carries no type tag: the layout is the raw
// little-endian id, one flag byte, and optionally 8 bytes of UTC ticks. The
// caller must parse with the same id type it encoded with. Parse never fails
// loudly; a false result means "no usable cursor, start from the first page",
// since cursors usually come straight from client input.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/ncrud/token"
)

// Key lists the id types a cursor can carry. Composite structs are not
// supported because their in-memory layout has no portable byte order.
type Key interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64 | uuid.UUID
}

var (
	// ErrInvalid is returned by UnmarshalText for tokens Parse rejects.
	ErrInvalid = errors.New("cursor: invalid token")
	// ErrTimestampRange is returned by MarshalText for timestamps outside
	// 0001-01-01 through 9999-12-31 UTC.
	ErrTimestampRange = errors.New("cursor: timestamp out of range")
)

const (
	flagNone      byte = 0
	flagTimestamp byte = 1
	timestampSize      = 8
)

var le = binary.LittleEndian

// Cursor is the position after the last row of a page.
type Cursor[T Key] struct {
	ID        T
	Timestamp *time.Time
}

// New returns a cursor for id with an optional timestamp.
func New[T Key](id T, ts *time.Time) Cursor[T] {
	return Cursor[T]{ID: id, Timestamp: ts}
}

// At returns a cursor for id with a timestamp.
func At[T Key](id T, ts time.Time) Cursor[T] {
	return Cursor[T]{ID: id, Timestamp: &ts}
}

// HasTimestamp reports whether the cursor carries a timestamp.
func (c Cursor[T]) HasTimestamp() bool {
	return c.Timestamp != nil
}

// String returns the Base64URL token. Only the UTC instant of the timestamp
// is kept, truncated to 100ns. Timestamps outside the tick range are clamped
// to its nearest end; MarshalText rejects them instead.
func (c Cursor[T]) String() string {
	size := idSize[T]() + 1
	if c.Timestamp != nil {
		size += timestampSize
	}
	buf := appendID(make([]byte, 0, size), c.ID)
	if c.Timestamp == nil {
		buf = append(buf, flagNone)
	} else {
		buf = append(buf, flagTimestamp)
		buf = le.AppendUint64(buf, uint64(token.Ticks(*c.Timestamp)))
	}
	return token.EncodeBase64URL(buf)
}

// MarshalText implements encoding.TextMarshaler.
func (c Cursor[T]) MarshalText() ([]byte, error) {
	if c.Timestamp != nil && !token.TimeInRange(*c.Timestamp) {
		return nil, fmt.Errorf("%w: %s", ErrTimestampRange, c.Timestamp)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cursor[T]) UnmarshalText(text []byte) error {
	parsed, ok := Parse[T](string(text))
	if !ok {
		return ErrInvalid
	}
	*c = parsed
	return nil
}

// Parse decodes a token produced by Cursor.String. It reports false for
// undecodable input, inputs shorter than the id plus flag, unknown flags,
// and any length other than the one implied by the flag byte.
func Parse[T Key](s string) (Cursor[T], bool) {
	var c Cursor[T]
	if s == "" {
		return c, false
	}
	data, err := token.DecodeBase64URL(s)
	if err != nil {
		return c, false
	}

	n := idSize[T]()
	if len(data) < n+1 {
		return c, false
	}
	switch data[n] {
	case flagNone:
		if len(data) != n+1 {
			return c, false
		}
	case flagTimestamp:
		if len(data) != n+1+timestampSize {
			return c, false
		}
		ticks := int64(le.Uint64(data[n+1:]))
		if !token.ValidTicks(ticks) {
			return c, false
		}
		ts := token.FromTicks(ticks)
		c.Timestamp = &ts
	default:
		return c, false
	}

	c.ID = readID[T](data[:n])
	return c, true
}

func idSize[T Key]() int {
	var zero T
	switch any(zero).(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	case int64, uint64, float64:
		return 8
	default: // uuid.UUID
		return 16
	}
}

func appendID[T Key](dst []byte, id T) []byte {
	switch v := any(id).(type) {
	case int8:
		return append(dst, byte(v))
	case uint8:
		return append(dst, v)
	case int16:
		return le.AppendUint16(dst, uint16(v))
	case uint16:
		return le.AppendUint16(dst, v)
	case int32:
		return le.AppendUint32(dst, uint32(v))
	case uint32:
		return le.AppendUint32(dst, v)
	case float32:
		return le.AppendUint32(dst, math.Float32bits(v))
	case int64:
		return le.AppendUint64(dst, uint64(v))
	case uint64:
		return le.AppendUint64(dst, v)
	case float64:
		return le.AppendUint64(dst, math.Float64bits(v))
	case uuid.UUID:
		b := token.GUIDBytes(v)
		return append(dst, b[:]...)
	}
	return dst
}

func readID[T Key](src []byte) T {
	var id any
	var zero T
	switch any(zero).(type) {
	case int8:
		id = int8(src[0])
	case uint8:
		id = src[0]
	case int16:
		id = int16(le.Uint16(src))
	case uint16:
		id = le.Uint16(src)
	case int32:
		id = int32(le.Uint32(src))
	case uint32:
		id = le.Uint32(src)
	case float32:
		id = math.Float32frombits(le.Uint32(src))
	case int64:
		id = int64(le.Uint64(src))
	case uint64:
		id = le.Uint64(src)
	case float64:
		id = math.Float64frombits(le.Uint64(src))
	case uuid.UUID:
		id = token.GUIDFromBytes(src)
	}
	return id.(T)
}
