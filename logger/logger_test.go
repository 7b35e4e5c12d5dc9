package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Debug("hidden")
	l.Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")

	buf.Reset()
	New(&buf, true).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).WithField("run_id", "abc").Warn("careful")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "careful", entry["message"])
}

func TestNewFileLoggerTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rcgen.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0644))

	l, closer, err := NewFileLogger(path, false)
	require.NoError(t, err)
	l.Info("fresh")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "stale"))
	assert.Contains(t, string(data), "fresh")
}

func TestNullLogger(t *testing.T) {
	l := NewNullLogger()
	l.Info("ignored")
	assert.Equal(t, NullLogger{}, l.WithField("k", "v"))
}
