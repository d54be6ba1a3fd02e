// Package textbuf provides a low-allocation text builder over pooled or
// caller-supplied storage.
//
// A Builder starts on a scratch slice or a slice rented from a Pool and grows
// geometrically. Every slice it rents is returned to the pool, either when it
// grows past it or when the builder is disposed. String materializes the
// result and disposes the builder; any use after that panics with
// ErrDisposed, the same way misuse of strings.Builder panics.
package textbuf

import (
	"errors"
	"strconv"
	"time"
	"unicode/utf8"
)

var (
	// ErrDisposed is the panic value for using a Builder after String or Dispose.
	ErrDisposed = errors.New("textbuf: builder used after dispose")
	// ErrFormatOverflow is the panic value when a SpanFormatter does not fit
	// even after the builder grew for it.
	ErrFormatOverflow = errors.New("textbuf: formatted value does not fit")
)

// formatGrowth is how much extra room AppendValue asks for when a value does
// not fit the remaining space.
const formatGrowth = 256

// SpanFormatter formats itself directly into dst. It reports the number of
// bytes written, or false when dst is too small.
type SpanFormatter interface {
	TryFormat(dst []byte) (int, bool)
}

// Builder accumulates text. The zero value is not usable; create one with New
// or NewFrom.
type Builder struct {
	buf      []byte
	pos      int
	pool     Pool
	rented   bool
	disposed bool
}

// New returns a builder on a slice of at least capacity bytes rented from
// pool. A nil pool means SharedPool.
func New(pool Pool, capacity int) *Builder {
	if pool == nil {
		pool = SharedPool
	}
	return &Builder{buf: pool.Rent(capacity), pool: pool, rented: true}
}

// NewFrom returns a builder that writes into scratch until it runs out of
// room, then moves to storage rented from pool. scratch itself is never
// handed to the pool.
func NewFrom(pool Pool, scratch []byte) *Builder {
	if pool == nil {
		pool = SharedPool
	}
	return &Builder{buf: scratch[:cap(scratch)], pool: pool}
}

// Len returns the number of bytes written.
func (b *Builder) Len() int { return b.pos }

// Cap returns the size of the current storage.
func (b *Builder) Cap() int { return len(b.buf) }

// Bytes returns the written bytes. The slice is only valid until the next
// mutating call.
func (b *Builder) Bytes() []byte {
	b.checkDisposed()
	return b.buf[:b.pos]
}

// AppendByte appends a single byte.
func (b *Builder) AppendByte(c byte) *Builder {
	b.ensure(1)
	b.buf[b.pos] = c
	b.pos++
	return b
}

// AppendRune appends the UTF-8 encoding of r.
func (b *Builder) AppendRune(r rune) *Builder {
	n := utf8.RuneLen(r)
	if n < 0 {
		n = utf8.RuneLen(utf8.RuneError)
	}
	b.ensure(n)
	b.pos += utf8.EncodeRune(b.buf[b.pos:], r)
	return b
}

// AppendString appends s.
func (b *Builder) AppendString(s string) *Builder {
	b.ensure(len(s))
	b.pos += copy(b.buf[b.pos:], s)
	return b
}

// AppendBytes appends p.
func (b *Builder) AppendBytes(p []byte) *Builder {
	b.ensure(len(p))
	b.pos += copy(b.buf[b.pos:], p)
	return b
}

// AppendRepeat appends c n times.
func (b *Builder) AppendRepeat(c byte, n int) *Builder {
	if n <= 0 {
		b.checkDisposed()
		return b
	}
	b.ensure(n)
	seg := b.buf[b.pos : b.pos+n]
	for i := range seg {
		seg[i] = c
	}
	b.pos += n
	return b
}

// AppendValue formats v in place. If v does not fit, the builder grows once
// and retries; a second failure panics with ErrFormatOverflow.
func (b *Builder) AppendValue(v SpanFormatter) *Builder {
	b.checkDisposed()
	n, ok := v.TryFormat(b.buf[b.pos:])
	if !ok {
		b.grow(len(b.buf) + formatGrowth)
		if n, ok = v.TryFormat(b.buf[b.pos:]); !ok {
			panic(ErrFormatOverflow)
		}
	}
	b.pos += n
	return b
}

// AppendInt appends the decimal form of v.
func (b *Builder) AppendInt(v int64) *Builder {
	return b.AppendValue(appendFunc(func(dst []byte) []byte { return strconv.AppendInt(dst, v, 10) }))
}

// AppendUint appends the decimal form of v.
func (b *Builder) AppendUint(v uint64) *Builder {
	return b.AppendValue(appendFunc(func(dst []byte) []byte { return strconv.AppendUint(dst, v, 10) }))
}

// AppendFloat appends v using strconv.FormatFloat rules.
func (b *Builder) AppendFloat(v float64, format byte, prec int) *Builder {
	return b.AppendValue(appendFunc(func(dst []byte) []byte { return strconv.AppendFloat(dst, v, format, prec, 64) }))
}

// AppendBool appends "true" or "false".
func (b *Builder) AppendBool(v bool) *Builder {
	return b.AppendValue(appendFunc(func(dst []byte) []byte { return strconv.AppendBool(dst, v) }))
}

// AppendTime appends t formatted with layout.
func (b *Builder) AppendTime(t time.Time, layout string) *Builder {
	return b.AppendValue(appendFunc(func(dst []byte) []byte { return t.AppendFormat(dst, layout) }))
}

// AppendLine appends a line terminator.
func (b *Builder) AppendLine() *Builder {
	return b.AppendByte('\n')
}

// AppendLineString appends s and a line terminator.
func (b *Builder) AppendLineString(s string) *Builder {
	return b.AppendString(s).AppendLine()
}

// AppendLineBytes appends p and a line terminator.
func (b *Builder) AppendLineBytes(p []byte) *Builder {
	return b.AppendBytes(p).AppendLine()
}

// AppendLineValue appends v and a line terminator.
func (b *Builder) AppendLineValue(v SpanFormatter) *Builder {
	return b.AppendValue(v).AppendLine()
}

// Write implements io.Writer so the builder can be used with fmt.Fprintf.
func (b *Builder) Write(p []byte) (int, error) {
	b.AppendBytes(p)
	return len(p), nil
}

// Clear resets the length to zero and keeps the storage.
func (b *Builder) Clear() {
	b.checkDisposed()
	b.pos = 0
}

// String returns the accumulated text and disposes the builder.
func (b *Builder) String() string {
	b.checkDisposed()
	s := string(b.buf[:b.pos])
	b.Dispose()
	return s
}

// Dispose returns rented storage to the pool. It is safe to call more than once.
func (b *Builder) Dispose() {
	if b.disposed {
		return
	}
	if b.rented {
		b.pool.Return(b.buf)
	}
	b.buf = nil
	b.pos = 0
	b.rented = false
	b.disposed = true
}

func (b *Builder) checkDisposed() {
	if b.disposed {
		panic(ErrDisposed)
	}
}

func (b *Builder) ensure(n int) {
	b.checkDisposed()
	if b.pos+n > len(b.buf) {
		b.grow(b.pos + n)
	}
}

// grow moves the content to storage of at least max(required, 2*cap) bytes.
func (b *Builder) grow(required int) {
	size := max(required, len(b.buf)*2)
	next := b.pool.Rent(size)
	copy(next, b.buf[:b.pos])
	if b.rented {
		b.pool.Return(b.buf)
	}
	b.buf = next
	b.rented = true
}

// appendFunc adapts an append-style formatter to SpanFormatter.
type appendFunc func(dst []byte) []byte

func (f appendFunc) TryFormat(dst []byte) (int, bool) {
	out := f(dst[:0:len(dst)])
	if len(out) > len(dst) {
		return 0, false
	}
	return len(out), true
}
