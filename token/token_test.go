package token

import (
	"encoding/base64"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip[T any](t *testing.T, c Codec[T], v T) T {
	t.Helper()
	tok, err := Create(c, v)
	require.NoError(t, err)
	got, err := Parse(c, tok)
	require.NoError(t, err)
	return got
}

func TestRoundTripPrimitives(t *testing.T) {
	for _, v := range []bool{true, false} {
		assert.Equal(t, v, roundTrip(t, Bool, v))
	}
	for _, v := range []uint8{0, 1, 127, 255} {
		assert.Equal(t, v, roundTrip(t, Byte, v))
	}
	for _, v := range []int16{0, -1, math.MinInt16, math.MaxInt16} {
		assert.Equal(t, v, roundTrip(t, Int16, v))
	}
	for _, v := range []int32{0, 42, -42, math.MinInt32, math.MaxInt32} {
		assert.Equal(t, v, roundTrip(t, Int32, v))
	}
	for _, v := range []int64{0, 1 << 40, math.MinInt64, math.MaxInt64} {
		assert.Equal(t, v, roundTrip(t, Int64, v))
	}
	for _, v := range []float64{0, -1.5, math.Pi, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(-1)} {
		assert.Equal(t, v, roundTrip(t, Float64, v))
	}
	for _, v := range []string{"", "Active", "héllo wörld", "日本語", strings.Repeat("x", 1000)} {
		assert.Equal(t, v, roundTrip(t, String, v))
	}
	for _, v := range []uuid.UUID{uuid.Nil, uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff"), uuid.New()} {
		assert.Equal(t, v, roundTrip(t, GUID, v))
	}
}

func TestRoundTripNaN(t *testing.T) {
	got := roundTrip(t, Float64, math.NaN())
	assert.True(t, math.IsNaN(got))
}

func TestRoundTripDecimal(t *testing.T) {
	for _, s := range []string{"0", "1", "-123.4500", "79228162514264337593543950335", "0.0000000000000000000000000001", "-0.00"} {
		d, err := ParseDecimal(s)
		require.NoError(t, err, s)
		got := roundTrip(t, Dec, d)
		assert.Equal(t, d, got, "all four words must match for %s", s)
		assert.Equal(t, s, got.String())
	}
}

func TestRoundTripDateTime(t *testing.T) {
	ts := time.Date(2024, 3, 9, 17, 45, 12, 123456700, time.FixedZone("CET", 3600))
	got := roundTrip(t, DateTime, ts)
	assert.True(t, ts.Equal(got))
	assert.Equal(t, time.UTC, got.Location())

	zero := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, zero.Equal(roundTrip(t, DateTime, zero)))

	before := time.Date(1969, 12, 31, 23, 59, 59, 999999900, time.UTC)
	assert.True(t, before.Equal(roundTrip(t, DateTime, before)))
}

func TestRoundTripDateTimeOffset(t *testing.T) {
	for _, offset := range []int{0, 330 * 60, -8 * 3600, 14 * 3600, -14 * 3600} {
		ts := time.Date(2023, 11, 5, 1, 30, 0, 500, time.FixedZone("", offset)).Truncate(100 * time.Nanosecond)
		got := roundTrip(t, DateTimeOffset, ts)
		assert.True(t, ts.Equal(got))
		_, gotOffset := got.Zone()
		assert.Equal(t, offset, gotOffset)
	}
}

func TestDateTimeOffsetRejectsOddOffsets(t *testing.T) {
	_, err := Create(DateTimeOffset, time.Date(2023, 1, 1, 0, 0, 0, 0, time.FixedZone("", 15*3600)))
	assert.ErrorIs(t, err, ErrOffsetRange)

	_, err = Create(DateTimeOffset, time.Date(2023, 1, 1, 0, 0, 0, 0, time.FixedZone("", 90)))
	assert.ErrorIs(t, err, ErrOffsetRange)
}

func TestMultiValue(t *testing.T) {
	tok, err := Create3(String, Int32, GUID, "Active", 7, uuid.Nil)
	require.NoError(t, err)

	status, n, id, err := Parse3(String, Int32, GUID, tok)
	require.NoError(t, err)
	assert.Equal(t, "Active", status)
	assert.Equal(t, int32(7), n)
	assert.Equal(t, uuid.Nil, id)

	ts := time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC)
	tok, err = Create2(DateTime, Int64, ts, 99)
	require.NoError(t, err)
	gotTS, gotID, err := Parse2(DateTime, Int64, tok)
	require.NoError(t, err)
	assert.True(t, ts.Equal(gotTS))
	assert.Equal(t, int64(99), gotID)
}

func TestTypeMismatch(t *testing.T) {
	tok, err := Create(String, "x")
	require.NoError(t, err)

	_, err = Parse(Int32, tok)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	tok, err = Create2(Int32, String, 1, "a")
	require.NoError(t, err)
	_, _, err = Parse2(Int32, Int32, tok)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "value 1")
}

func TestArityMismatch(t *testing.T) {
	tok, err := Create2(Int32, Int32, 1, 2)
	require.NoError(t, err)

	_, err = Parse(Int32, tok)
	assert.ErrorIs(t, err, ErrTrailingData)

	_, _, _, err = Parse3(Int32, Int32, Int32, tok)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestMalformed(t *testing.T) {
	for _, tok := range []string{"", "!!!", "%%", "A"} {
		_, err := Parse(Int32, tok)
		assert.ErrorIs(t, err, ErrMalformed, tok)
	}

	tok, err := Create(Int64, 12345)
	require.NoError(t, err)
	raw, err := DecodeBase64URL(tok)
	require.NoError(t, err)
	_, err = Parse(Int64, EncodeBase64URL(raw[:len(raw)-1]))
	assert.ErrorIs(t, err, ErrMalformed)

	// string length pointing past the end of the buffer
	bad := []byte{byte(TagString), 0xff, 0, 0, 0, 'a'}
	_, err = Parse(String, EncodeBase64URL(bad))
	assert.ErrorIs(t, err, ErrMalformed)

	// negative string length
	bad = []byte{byte(TagString), 0xff, 0xff, 0xff, 0xff}
	_, err = Parse(String, EncodeBase64URL(bad))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestWireLayout(t *testing.T) {
	tok, err := Create(Int32, 42)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 42, 0, 0, 0}, mustRaw(t, tok))

	tok, err = Create(String, "ab")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0B, 2, 0, 0, 0, 'a', 'b'}, mustRaw(t, tok))

	tok, err = Create(GUID, uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0A,
		0x33, 0x22, 0x11, 0x00, 0x55, 0x44, 0x77, 0x66,
		0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, mustRaw(t, tok))

	d, err := DecimalFromInt64(-15, 1)
	require.NoError(t, err)
	tok, err = Create(Dec, d)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x06,
		15, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0x01, 0x80}, mustRaw(t, tok))

	tok, err = Create(DateTimeOffset, time.Date(1, 1, 1, 0, 0, 0, 0, time.FixedZone("", -60)))
	require.NoError(t, err)
	raw := mustRaw(t, tok)
	assert.Equal(t, byte(TagDateTimeOffset), raw[0])
	assert.Equal(t, []byte{0xff, 0xff}, raw[9:11])
}

func TestTokenIsURLSafe(t *testing.T) {
	tok, err := Create(String, string([]byte{0xfb, 0xff, 0xfe, 0xfb, 0xef}))
	require.NoError(t, err)
	assert.NotContains(t, tok, "+")
	assert.NotContains(t, tok, "/")
	assert.NotContains(t, tok, "=")

	padded := base64.URLEncoding.EncodeToString(mustRaw(t, tok))
	got, err := Parse(String, padded)
	require.NoError(t, err)
	assert.Equal(t, string([]byte{0xfb, 0xff, 0xfe, 0xfb, 0xef}), got)
}

func TestEncodeDecode(t *testing.T) {
	tok, err := Encode(42)
	require.NoError(t, err)
	v, err := Parse(Int64, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	ts := time.Date(2021, 1, 2, 3, 4, 5, 0, time.FixedZone("", 2*3600))
	tok, err = Encode("Active", int32(7), ts)
	require.NoError(t, err)

	fields, err := Decode(tok)
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, Field{Tag: TagString, Value: "Active"}, fields[0])
	assert.Equal(t, Field{Tag: TagInt32, Value: int32(7)}, fields[1])
	assert.Equal(t, TagDateTimeOffset, fields[2].Tag)
	assert.True(t, ts.Equal(fields[2].Value.(time.Time)))
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode()
	assert.ErrorIs(t, err, ErrArity)

	_, err = Encode(1, 2, 3, 4)
	assert.ErrorIs(t, err, ErrArity)

	_, err = Encode(uint32(1))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Encode("ok", struct{}{})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Decode(EncodeBase64URL([]byte{0x7f}))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestTicks(t *testing.T) {
	assert.Equal(t, int64(0), Ticks(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, unixEpochTicks, Ticks(time.Unix(0, 0)))
	assert.Equal(t, maxTicks, Ticks(time.Date(9999, 12, 31, 23, 59, 59, 999999900, time.UTC)))

	ts := time.Date(1900, 2, 3, 4, 5, 6, 700, time.UTC)
	assert.True(t, ts.Equal(FromTicks(Ticks(ts))))

	far := time.Date(60000, 1, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(0, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.False(t, TimeInRange(far))
	assert.False(t, TimeInRange(early))
	assert.True(t, TimeInRange(time.Time{}))
	assert.Equal(t, maxTicks, Ticks(far))
	assert.Equal(t, int64(0), Ticks(early))
	assert.Equal(t, maxTicks, Ticks(time.Unix(1<<60, 0)))
}

func TestTimeOutOfRange(t *testing.T) {
	far := time.Date(60000, 1, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(0, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, v := range []time.Time{far, early} {
		_, err := Create(DateTime, v)
		assert.ErrorIs(t, err, ErrUnsupportedType, v.String())

		_, err = Create(DateTimeOffset, v.In(time.FixedZone("", 3600)))
		assert.ErrorIs(t, err, ErrUnsupportedType, v.String())
	}
}

func TestDecimal(t *testing.T) {
	_, err := ParseDecimal("79228162514264337593543950336")
	assert.ErrorIs(t, err, ErrInvalidDecimal)

	_, err = ParseDecimal("1.2.3")
	assert.ErrorIs(t, err, ErrInvalidDecimal)

	_, err = ParseDecimal("-")
	assert.ErrorIs(t, err, ErrInvalidDecimal)

	d, err := ParseDecimal("+0.05")
	require.NoError(t, err)
	assert.Equal(t, 2, d.Scale())
	assert.False(t, d.Negative())
	assert.Equal(t, "0.05", d.String())

	_, err = Create(Dec, Decimal{Flags: 29 << 16})
	assert.ErrorIs(t, err, ErrInvalidDecimal)
}

func mustRaw(t *testing.T, tok string) []byte {
	t.Helper()
	raw, err := DecodeBase64URL(tok)
	require.NoError(t, err)
	return raw
}
