package cache

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/ncrud/textbuf"
	"golang.org/x/crypto/blake2b"
)

const (
	// Separator joins key parts.
	Separator = ':'
	// MaxPartLen is the longest part kept verbatim; longer parts are replaced
	// by a 32 character digest.
	MaxPartLen = 64
)

// Key joins prefix and parts with ':'. Parts may be strings, byte slices,
// integers, floats, bools, uuid.UUID, time.Time (UTC RFC3339Nano),
// fmt.Stringer or anything fmt can print. An empty prefix is omitted.
func Key(prefix string, parts ...any) string {
	b := textbuf.New(nil, len(prefix)+len(parts)*16)
	if prefix != "" {
		b.AppendString(prefix)
	}
	var scratch [MaxPartLen * 2]byte
	for i, part := range parts {
		if i > 0 || prefix != "" {
			b.AppendByte(Separator)
		}
		pb := textbuf.NewFrom(nil, scratch[:0])
		appendPart(pb, part)
		if pb.Len() > MaxPartLen {
			b.AppendString(digest(pb.Bytes()))
		} else {
			b.AppendBytes(pb.Bytes())
		}
		pb.Dispose()
	}
	return b.String()
}

func appendPart(b *textbuf.Builder, part any) {
	switch v := part.(type) {
	case string:
		b.AppendString(v)
	case []byte:
		b.AppendBytes(v)
	case int:
		b.AppendInt(int64(v))
	case int8:
		b.AppendInt(int64(v))
	case int16:
		b.AppendInt(int64(v))
	case int32:
		b.AppendInt(int64(v))
	case int64:
		b.AppendInt(v)
	case uint:
		b.AppendUint(uint64(v))
	case uint8:
		b.AppendUint(uint64(v))
	case uint16:
		b.AppendUint(uint64(v))
	case uint32:
		b.AppendUint(uint64(v))
	case uint64:
		b.AppendUint(v)
	case float32:
		b.AppendFloat(float64(v), 'g', -1)
	case float64:
		b.AppendFloat(v, 'g', -1)
	case bool:
		b.AppendBool(v)
	case uuid.UUID:
		b.AppendString(v.String())
	case time.Time:
		b.AppendTime(v.UTC(), time.RFC3339Nano)
	case nil:
	case fmt.Stringer:
		b.AppendString(v.String())
	default:
		fmt.Fprint(b, v)
	}
}

func digest(p []byte) string {
	h, _ := blake2b.New(16, nil)
	h.Write(p)
	return hex.EncodeToString(h.Sum(nil))
}
