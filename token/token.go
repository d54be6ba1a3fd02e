package token

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Create encodes a single value into a token.
func Create[T any](c Codec[T], v T) (string, error) {
	buf, err := c.Append(make([]byte, 0, c.Size(v)), v)
	if err != nil {
		return "", err
	}
	return EncodeBase64URL(buf), nil
}

// Create2 encodes two values, in order, into a token.
func Create2[T1, T2 any](c1 Codec[T1], c2 Codec[T2], v1 T1, v2 T2) (string, error) {
	buf := make([]byte, 0, c1.Size(v1)+c2.Size(v2))
	buf, err := c1.Append(buf, v1)
	if err != nil {
		return "", err
	}
	if buf, err = c2.Append(buf, v2); err != nil {
		return "", err
	}
	return EncodeBase64URL(buf), nil
}

// Create3 encodes three values, in order, into a token.
func Create3[T1, T2, T3 any](c1 Codec[T1], c2 Codec[T2], c3 Codec[T3], v1 T1, v2 T2, v3 T3) (string, error) {
	buf := make([]byte, 0, c1.Size(v1)+c2.Size(v2)+c3.Size(v3))
	buf, err := c1.Append(buf, v1)
	if err != nil {
		return "", err
	}
	if buf, err = c2.Append(buf, v2); err != nil {
		return "", err
	}
	if buf, err = c3.Append(buf, v3); err != nil {
		return "", err
	}
	return EncodeBase64URL(buf), nil
}

// Parse decodes a token holding exactly one value of the codec's type.
func Parse[T any](c Codec[T], tok string) (T, error) {
	var zero T
	data, err := DecodeBase64URL(tok)
	if err != nil {
		return zero, err
	}
	r := reader{data: data}
	v, err := readNext(&r, c)
	if err != nil {
		return zero, err
	}
	if err := r.done(); err != nil {
		return zero, err
	}
	return v, nil
}

// Parse2 decodes a token holding exactly two values.
func Parse2[T1, T2 any](c1 Codec[T1], c2 Codec[T2], tok string) (v1 T1, v2 T2, err error) {
	data, err := DecodeBase64URL(tok)
	if err != nil {
		return v1, v2, err
	}
	r := reader{data: data}
	a, err := readNext(&r, c1)
	if err != nil {
		return v1, v2, err
	}
	b, err := readNext(&r, c2)
	if err != nil {
		return v1, v2, err
	}
	if err := r.done(); err != nil {
		return v1, v2, err
	}
	return a, b, nil
}

// Parse3 decodes a token holding exactly three values.
func Parse3[T1, T2, T3 any](c1 Codec[T1], c2 Codec[T2], c3 Codec[T3], tok string) (v1 T1, v2 T2, v3 T3, err error) {
	data, err := DecodeBase64URL(tok)
	if err != nil {
		return v1, v2, v3, err
	}
	r := reader{data: data}
	a, err := readNext(&r, c1)
	if err != nil {
		return v1, v2, v3, err
	}
	b, err := readNext(&r, c2)
	if err != nil {
		return v1, v2, v3, err
	}
	c, err := readNext(&r, c3)
	if err != nil {
		return v1, v2, v3, err
	}
	if err := r.done(); err != nil {
		return v1, v2, v3, err
	}
	return a, b, c, nil
}

// reader walks a decoded token value by value.
type reader struct {
	data  []byte
	pos   int
	index int
}

func readNext[T any](r *reader, c Codec[T]) (T, error) {
	v, n, err := c.Read(r.data[r.pos:])
	if err != nil {
		var zero T
		return zero, fmt.Errorf("value %d: %w", r.index, err)
	}
	r.pos += n
	r.index++
	return v, nil
}

func (r *reader) done() error {
	if rest := len(r.data) - r.pos; rest > 0 {
		return fmt.Errorf("%w: %d bytes after %d values", ErrTrailingData, rest, r.index)
	}
	return nil
}

// Encode creates a token from one to three plain values, picking the codec
// from each value's dynamic type:
//
//	bool -> Bool, uint8 -> Byte, int16 -> Int16, int32 -> Int32,
//	int64 and int -> Int64, float64 -> Float64, Decimal -> Dec,
//	time.Time -> DateTimeOffset, uuid.UUID -> GUID, string -> String
//
// Any other type fails with ErrUnsupportedType.
func Encode(values ...any) (string, error) {
	if len(values) == 0 || len(values) > 3 {
		return "", fmt.Errorf("%w: got %d", ErrArity, len(values))
	}
	var buf []byte
	for i, v := range values {
		var err error
		if buf, err = appendAny(buf, v); err != nil {
			return "", fmt.Errorf("value %d: %w", i, err)
		}
	}
	return EncodeBase64URL(buf), nil
}

func appendAny(dst []byte, v any) ([]byte, error) {
	switch x := v.(type) {
	case bool:
		return Bool.Append(dst, x)
	case uint8:
		return Byte.Append(dst, x)
	case int16:
		return Int16.Append(dst, x)
	case int32:
		return Int32.Append(dst, x)
	case int64:
		return Int64.Append(dst, x)
	case int:
		return Int64.Append(dst, int64(x))
	case float64:
		return Float64.Append(dst, x)
	case Decimal:
		return Dec.Append(dst, x)
	case time.Time:
		return DateTimeOffset.Append(dst, x)
	case uuid.UUID:
		return GUID.Append(dst, x)
	case string:
		return String.Append(dst, x)
	default:
		return dst, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// Field is one value recovered by Decode.
type Field struct {
	Tag   Tag
	Value any
}

// Decode reads every tagged value in a token without knowing the types up
// front. It is meant for inspection; handlers should use Parse.
func Decode(tok string) ([]Field, error) {
	data, err := DecodeBase64URL(tok)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty token", ErrMalformed)
	}

	r := reader{data: data}
	var fields []Field
	for r.pos < len(r.data) {
		tag := Tag(r.data[r.pos])
		var v any
		switch tag {
		case TagBool:
			v, err = readNext(&r, Bool)
		case TagByte:
			v, err = readNext(&r, Byte)
		case TagInt16:
			v, err = readNext(&r, Int16)
		case TagInt32:
			v, err = readNext(&r, Int32)
		case TagInt64:
			v, err = readNext(&r, Int64)
		case TagDecimal:
			v, err = readNext(&r, Dec)
		case TagFloat64:
			v, err = readNext(&r, Float64)
		case TagDateTime:
			v, err = readNext(&r, DateTime)
		case TagDateTimeOffset:
			v, err = readNext(&r, DateTimeOffset)
		case TagGUID:
			v, err = readNext(&r, GUID)
		case TagString:
			v, err = readNext(&r, String)
		default:
			return fields, fmt.Errorf("%w: unknown %s at offset %d", ErrMalformed, tag, r.pos)
		}
		if err != nil {
			return fields, err
		}
		fields = append(fields, Field{Tag: tag, Value: v})
	}
	return fields, nil
}
