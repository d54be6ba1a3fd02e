package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ParseValue reads the text form of a value of the given tag: Go literals for
// numbers and booleans, RFC 3339 for times and the canonical form for GUIDs.
// DateTime values are converted to UTC.
func ParseValue(tag Tag, s string) (Field, error) {
	f := Field{Tag: tag}
	var err error
	switch tag {
	case TagBool:
		f.Value, err = strconv.ParseBool(s)
	case TagByte:
		var n uint64
		n, err = strconv.ParseUint(s, 10, 8)
		f.Value = uint8(n)
	case TagInt16:
		var n int64
		n, err = strconv.ParseInt(s, 10, 16)
		f.Value = int16(n)
	case TagInt32:
		var n int64
		n, err = strconv.ParseInt(s, 10, 32)
		f.Value = int32(n)
	case TagInt64:
		f.Value, err = strconv.ParseInt(s, 10, 64)
	case TagDecimal:
		f.Value, err = ParseDecimal(s)
	case TagFloat64:
		f.Value, err = strconv.ParseFloat(s, 64)
	case TagDateTime:
		var t time.Time
		t, err = time.Parse(time.RFC3339Nano, s)
		f.Value = t.UTC()
	case TagDateTimeOffset:
		f.Value, err = time.Parse(time.RFC3339Nano, s)
	case TagGUID:
		f.Value, err = uuid.Parse(s)
	case TagString:
		f.Value = s
	default:
		return f, fmt.Errorf("%w: %s", ErrUnsupportedType, tag)
	}
	if err != nil {
		return Field{}, fmt.Errorf("parse %s %q: %w", tag, s, err)
	}
	return f, nil
}

// EncodeFields creates a token from explicitly tagged values. Unlike Encode,
// it can write DateTime, and every Value must have the Go type Decode returns
// for its Tag.
func EncodeFields(fields ...Field) (string, error) {
	if len(fields) == 0 || len(fields) > 3 {
		return "", fmt.Errorf("%w: got %d", ErrArity, len(fields))
	}
	var buf []byte
	for i, f := range fields {
		var err error
		if buf, err = appendField(buf, f); err != nil {
			return "", fmt.Errorf("value %d: %w", i, err)
		}
	}
	return EncodeBase64URL(buf), nil
}

func appendField(dst []byte, f Field) ([]byte, error) {
	mismatch := fmt.Errorf("%w: %s field holds %T", ErrTypeMismatch, f.Tag, f.Value)
	switch f.Tag {
	case TagBool:
		if v, ok := f.Value.(bool); ok {
			return Bool.Append(dst, v)
		}
	case TagByte:
		if v, ok := f.Value.(uint8); ok {
			return Byte.Append(dst, v)
		}
	case TagInt16:
		if v, ok := f.Value.(int16); ok {
			return Int16.Append(dst, v)
		}
	case TagInt32:
		if v, ok := f.Value.(int32); ok {
			return Int32.Append(dst, v)
		}
	case TagInt64:
		if v, ok := f.Value.(int64); ok {
			return Int64.Append(dst, v)
		}
	case TagDecimal:
		if v, ok := f.Value.(Decimal); ok {
			return Dec.Append(dst, v)
		}
	case TagFloat64:
		if v, ok := f.Value.(float64); ok {
			return Float64.Append(dst, v)
		}
	case TagDateTime:
		if v, ok := f.Value.(time.Time); ok {
			return DateTime.Append(dst, v)
		}
	case TagDateTimeOffset:
		if v, ok := f.Value.(time.Time); ok {
			return DateTimeOffset.Append(dst, v)
		}
	case TagGUID:
		if v, ok := f.Value.(uuid.UUID); ok {
			return GUID.Append(dst, v)
		}
	case TagString:
		if v, ok := f.Value.(string); ok {
			return String.Append(dst, v)
		}
	default:
		return dst, fmt.Errorf("%w: %s", ErrUnsupportedType, f.Tag)
	}
	return dst, mismatch
}

// String renders the value in the form ParseValue reads.
func (f Field) String() string {
	switch v := f.Value.(type) {
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
