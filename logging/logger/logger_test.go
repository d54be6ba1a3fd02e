package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ncobase/ncrud/config"
	"github.com/ncobase/ncrud/ctxutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, l *Logger) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var out map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &out))
	return out
}

func TestEntryCarriesTraceAndVersion(t *testing.T) {
	l := New()
	l.SetVersion("1.2.3")
	buf := capture(t, l)

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	l.Infof(ctx, "listed %d rows", 3)

	e := lastEntry(t, buf)
	assert.Equal(t, "listed 3 rows", e["msg"])
	assert.Equal(t, "trace-1", e[traceKey])
	assert.Equal(t, "1.2.3", e[VersionKey])
	assert.Equal(t, "info", e["level"])
}

func TestInitLevelAndRedaction(t *testing.T) {
	l := New()
	cleanup, err := l.Init(&config.Logger{
		Level:        int(logrus.WarnLevel),
		Format:       "json",
		RedactFields: []string{"cursor", "*token*"},
	})
	require.NoError(t, err)
	defer cleanup()
	buf := capture(t, l)

	l.Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	l.EntryWithFields(context.Background(), logrus.Fields{
		"cursor":       "AQIDBA",
		"Access_Token": "secret",
		"limit":        10,
		"next":         "",
	}).Warn("page")

	e := lastEntry(t, buf)
	assert.Equal(t, redactMask, e["cursor"])
	assert.Equal(t, redactMask, e["Access_Token"])
	assert.Equal(t, float64(10), e["limit"])
	assert.Equal(t, "", e["next"])
}

func TestInitFileOutput(t *testing.T) {
	dir := t.TempDir()
	l := New()
	cleanup, err := l.Init(&config.Logger{
		Level:      int(logrus.InfoLevel),
		Output:     "file",
		OutputFile: filepath.Join(dir, "logs", "app.log"),
	})
	require.NoError(t, err)
	l.Info(context.Background(), "to file")
	cleanup()

	matches, err := filepath.Glob(filepath.Join(dir, "logs", "app.*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNewRedactHookRejectsBadPattern(t *testing.T) {
	_, err := NewRedactHook([]string{"[oops"})
	assert.Error(t, err)
}
