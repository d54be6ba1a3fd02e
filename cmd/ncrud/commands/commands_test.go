package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := run(t, "", "token", "encode", "-t", "int64,DateTime", "42", "2024-03-01T09:00:00Z")
	require.NoError(t, err)
	tok = strings.TrimSpace(tok)
	require.NotEmpty(t, tok)

	out, err := run(t, "", "token", "decode", tok)
	require.NoError(t, err)
	assert.Equal(t, "int64\t42\ndatetime\t2024-03-01T09:00:00Z\n", out)
}

func TestTokenEncodeErrors(t *testing.T) {
	_, err := run(t, "", "token", "encode", "-t", "int64", "1", "2")
	assert.Error(t, err)

	_, err = run(t, "", "token", "encode", "-t", "money", "1")
	assert.ErrorContains(t, err, "unknown type")

	_, err = run(t, "", "token", "encode", "-t", "byte", "256")
	assert.Error(t, err)

	_, err = run(t, "", "token", "decode", "!!")
	assert.Error(t, err)
}

func TestCursorRoundTrip(t *testing.T) {
	tok, err := run(t, "", "cursor", "encode", "7", "--at", "2024-03-01T09:00:00.5Z")
	require.NoError(t, err)

	out, err := run(t, "", "cursor", "decode", strings.TrimSpace(tok))
	require.NoError(t, err)
	assert.Equal(t, "id\t7\nat\t2024-03-01T09:00:00.5Z\n", out)

	// an int64 cursor is not an int32 one
	_, err = run(t, "", "cursor", "decode", "--key", "int32", strings.TrimSpace(tok))
	assert.Error(t, err)

	tok, err = run(t, "", "cursor", "encode", "-k", "uuid", "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.NoError(t, err)
	out, err = run(t, "", "cursor", "decode", "-k", "uuid", strings.TrimSpace(tok))
	require.NoError(t, err)
	assert.Equal(t, "id\t6ba7b810-9dad-11d1-80b4-00c04fd430c8\n", out)

	_, err = run(t, "", "cursor", "encode", "-k", "string", "x")
	assert.Error(t, err)
}

func TestFrame(t *testing.T) {
	frame, err := run(t, `{"id":1}`, "frame", "wrap", "order.created")
	require.NoError(t, err)
	frame = strings.TrimSpace(frame)

	out, err := run(t, "", "frame", "peek", frame)
	require.NoError(t, err)
	assert.Equal(t, "order.created\n", out)

	out, err = run(t, "", "frame", "extract", frame)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, out)

	_, err = run(t, "", "frame", "wrap", "")
	assert.Error(t, err)

	_, err = run(t, "", "frame", "peek", "AAE")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"goVersion"`)
}
