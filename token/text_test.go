package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValueRoundTrip(t *testing.T) {
	cases := []struct {
		tag  Tag
		text string
	}{
		{TagBool, "true"},
		{TagByte, "255"},
		{TagInt16, "-32768"},
		{TagInt32, "2147483647"},
		{TagInt64, "-9223372036854775808"},
		{TagDecimal, "-123.4500"},
		{TagFloat64, "0.1"},
		{TagDateTime, "2024-02-29T23:59:59.1234567Z"},
		{TagDateTimeOffset, "2024-02-29T23:59:59+05:30"},
		{TagGUID, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{TagString, "héllo"},
	}
	for _, tc := range cases {
		f, err := ParseValue(tc.tag, tc.text)
		require.NoError(t, err, tc.tag)
		assert.Equal(t, tc.text, f.String(), tc.tag)

		tok, err := EncodeFields(f)
		require.NoError(t, err, tc.tag)
		fields, err := Decode(tok)
		require.NoError(t, err, tc.tag)
		require.Len(t, fields, 1)
		assert.Equal(t, tc.tag, fields[0].Tag)
		assert.Equal(t, tc.text, fields[0].String(), tc.tag)
	}
}

func TestParseValueErrors(t *testing.T) {
	_, err := ParseValue(TagByte, "256")
	assert.Error(t, err)
	_, err = ParseValue(TagInt16, "x")
	assert.Error(t, err)
	_, err = ParseValue(TagGUID, "nope")
	assert.Error(t, err)
	_, err = ParseValue(Tag(0x7f), "1")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestEncodeFields(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tok, err := EncodeFields(Field{Tag: TagDateTime, Value: at}, Field{Tag: TagGUID, Value: uuid.Nil})
	require.NoError(t, err)
	v1, v2, err := Parse2(DateTime, GUID, tok)
	require.NoError(t, err)
	assert.True(t, at.Equal(v1))
	assert.Equal(t, uuid.Nil, v2)

	_, err = EncodeFields(Field{Tag: TagInt32, Value: int64(1)})
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = EncodeFields()
	assert.ErrorIs(t, err, ErrArity)
	_, err = EncodeFields(Field{Tag: 0, Value: 1})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
