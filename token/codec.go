package token

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

var le = binary.LittleEndian

// Codec writes and reads one tagged value of type T.
type Codec[T any] interface {
	// Tag returns the marker byte written in front of the value.
	Tag() Tag
	// Size returns an upper bound on the encoded size of v, tag included.
	Size(v T) int
	// Append appends the tagged encoding of v to dst.
	Append(dst []byte, v T) ([]byte, error)
	// Read decodes one tagged value from the front of src and returns it with
	// the number of bytes consumed.
	Read(src []byte) (T, int, error)
}

// fixedCodec handles every type whose payload has a constant width.
type fixedCodec[T any] struct {
	tag   Tag
	width int
	put   func(dst []byte, v T) ([]byte, error)
	get   func(src []byte) (T, error)
}

func (c fixedCodec[T]) Tag() Tag { return c.tag }

func (c fixedCodec[T]) Size(T) int { return 1 + c.width }

func (c fixedCodec[T]) Append(dst []byte, v T) ([]byte, error) {
	return c.put(append(dst, byte(c.tag)), v)
}

func (c fixedCodec[T]) Read(src []byte) (T, int, error) {
	var zero T
	if err := checkTag(src, c.tag); err != nil {
		return zero, 0, err
	}
	if len(src) < 1+c.width {
		return zero, 0, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrMalformed, c.tag, c.width, len(src)-1)
	}
	v, err := c.get(src[1 : 1+c.width])
	if err != nil {
		return zero, 0, err
	}
	return v, 1 + c.width, nil
}

func checkTag(src []byte, want Tag) error {
	if len(src) == 0 {
		return fmt.Errorf("%w: missing %s value", ErrMalformed, want)
	}
	if got := Tag(src[0]); got != want {
		return fmt.Errorf("%w: expected %s, got %s", ErrTypeMismatch, want, got)
	}
	return nil
}

// stringCodec writes a 4-byte length followed by the UTF-8 bytes.
type stringCodec struct{}

func (stringCodec) Tag() Tag { return TagString }

func (stringCodec) Size(v string) int { return 5 + len(v) }

func (stringCodec) Append(dst []byte, v string) ([]byte, error) {
	if len(v) > math.MaxInt32 {
		return dst, fmt.Errorf("%w: string of %d bytes", ErrUnsupportedType, len(v))
	}
	dst = append(dst, byte(TagString))
	dst = le.AppendUint32(dst, uint32(len(v)))
	return append(dst, v...), nil
}

func (stringCodec) Read(src []byte) (string, int, error) {
	if err := checkTag(src, TagString); err != nil {
		return "", 0, err
	}
	if len(src) < 5 {
		return "", 0, fmt.Errorf("%w: truncated string length", ErrMalformed)
	}
	n := int32(le.Uint32(src[1:5]))
	if n < 0 || int(n) > len(src)-5 {
		return "", 0, fmt.Errorf("%w: string length %d exceeds %d remaining bytes", ErrMalformed, n, len(src)-5)
	}
	return string(src[5 : 5+int(n)]), 5 + int(n), nil
}

var (
	// Bool encodes a boolean as one byte.
	Bool Codec[bool] = fixedCodec[bool]{
		tag: TagBool, width: 1,
		put: func(dst []byte, v bool) ([]byte, error) {
			if v {
				return append(dst, 1), nil
			}
			return append(dst, 0), nil
		},
		get: func(src []byte) (bool, error) { return src[0] != 0, nil },
	}

	// Byte encodes an unsigned byte.
	Byte Codec[uint8] = fixedCodec[uint8]{
		tag: TagByte, width: 1,
		put: func(dst []byte, v uint8) ([]byte, error) { return append(dst, v), nil },
		get: func(src []byte) (uint8, error) { return src[0], nil },
	}

	// Int16 encodes a signed 16-bit integer.
	Int16 Codec[int16] = fixedCodec[int16]{
		tag: TagInt16, width: 2,
		put: func(dst []byte, v int16) ([]byte, error) { return le.AppendUint16(dst, uint16(v)), nil },
		get: func(src []byte) (int16, error) { return int16(le.Uint16(src)), nil },
	}

	// Int32 encodes a signed 32-bit integer.
	Int32 Codec[int32] = fixedCodec[int32]{
		tag: TagInt32, width: 4,
		put: func(dst []byte, v int32) ([]byte, error) { return le.AppendUint32(dst, uint32(v)), nil },
		get: func(src []byte) (int32, error) { return int32(le.Uint32(src)), nil },
	}

	// Int64 encodes a signed 64-bit integer.
	Int64 Codec[int64] = fixedCodec[int64]{
		tag: TagInt64, width: 8,
		put: func(dst []byte, v int64) ([]byte, error) { return le.AppendUint64(dst, uint64(v)), nil },
		get: func(src []byte) (int64, error) { return int64(le.Uint64(src)), nil },
	}

	// Dec encodes a Decimal as four 32-bit words: lo, mid, hi, flags.
	Dec Codec[Decimal] = fixedCodec[Decimal]{
		tag: TagDecimal, width: 16,
		put: func(dst []byte, v Decimal) ([]byte, error) {
			if !v.Valid() {
				return dst, fmt.Errorf("%w: flags 0x%08x", ErrInvalidDecimal, v.Flags)
			}
			dst = le.AppendUint32(dst, v.Lo)
			dst = le.AppendUint32(dst, v.Mid)
			dst = le.AppendUint32(dst, v.Hi)
			return le.AppendUint32(dst, v.Flags), nil
		},
		get: func(src []byte) (Decimal, error) {
			d := Decimal{
				Lo:    le.Uint32(src[0:4]),
				Mid:   le.Uint32(src[4:8]),
				Hi:    le.Uint32(src[8:12]),
				Flags: le.Uint32(src[12:16]),
			}
			if !d.Valid() {
				return Decimal{}, fmt.Errorf("%w: decimal flags 0x%08x", ErrMalformed, d.Flags)
			}
			return d, nil
		},
	}

	// Float64 encodes an IEEE-754 double.
	Float64 Codec[float64] = fixedCodec[float64]{
		tag: TagFloat64, width: 8,
		put: func(dst []byte, v float64) ([]byte, error) {
			return le.AppendUint64(dst, math.Float64bits(v)), nil
		},
		get: func(src []byte) (float64, error) { return math.Float64frombits(le.Uint64(src)), nil },
	}

	// DateTime encodes the instant of a time as UTC ticks. The zone is not
	// kept; values always decode as UTC.
	DateTime Codec[time.Time] = fixedCodec[time.Time]{
		tag: TagDateTime, width: 8,
		put: func(dst []byte, v time.Time) ([]byte, error) {
			if !TimeInRange(v) {
				return dst, fmt.Errorf("%w: time %s out of range", ErrUnsupportedType, v)
			}
			ticks := Ticks(v)
			return le.AppendUint64(dst, uint64(ticks)), nil
		},
		get: func(src []byte) (time.Time, error) {
			ticks := int64(le.Uint64(src))
			if !ValidTicks(ticks) {
				return time.Time{}, fmt.Errorf("%w: ticks %d out of range", ErrMalformed, ticks)
			}
			return FromTicks(ticks), nil
		},
	}

	// DateTimeOffset encodes UTC ticks followed by the zone offset in minutes.
	// Decoded values carry a fixed zone with the same offset.
	DateTimeOffset Codec[time.Time] = fixedCodec[time.Time]{
		tag: TagDateTimeOffset, width: 10,
		put: func(dst []byte, v time.Time) ([]byte, error) {
			off, err := offsetMinutes(v)
			if err != nil {
				return dst, err
			}
			if !TimeInRange(v) {
				return dst, fmt.Errorf("%w: time %s out of range", ErrUnsupportedType, v)
			}
			ticks := Ticks(v)
			dst = le.AppendUint64(dst, uint64(ticks))
			return le.AppendUint16(dst, uint16(off)), nil
		},
		get: func(src []byte) (time.Time, error) {
			ticks := int64(le.Uint64(src[0:8]))
			off := int(int16(le.Uint16(src[8:10])))
			if !ValidTicks(ticks) || off < -maxOffsetMinutes || off > maxOffsetMinutes {
				return time.Time{}, fmt.Errorf("%w: datetimeoffset out of range", ErrMalformed)
			}
			return FromTicks(ticks).In(time.FixedZone("", off*60)), nil
		},
	}

	// GUID encodes a UUID in GUID byte order.
	GUID Codec[uuid.UUID] = fixedCodec[uuid.UUID]{
		tag: TagGUID, width: 16,
		put: func(dst []byte, v uuid.UUID) ([]byte, error) {
			b := GUIDBytes(v)
			return append(dst, b[:]...), nil
		},
		get: func(src []byte) (uuid.UUID, error) { return GUIDFromBytes(src), nil },
	}

	// String encodes a length-prefixed UTF-8 string.
	String Codec[string] = stringCodec{}
)
