package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLevel(t *testing.T) {
	t.Cleanup(Close)

	var buf bytes.Buffer
	Configure(LevelWarn, &buf)

	Info("hidden")
	Warn("fallback", "column", "amount")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "fallback", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "amount", entry["column"])
}

func TestEnableFileLogging(t *testing.T) {
	t.Cleanup(Close)

	path := filepath.Join(t.TempDir(), "nested", "tally.log")
	require.NoError(t, EnableFileLogging(path, LevelDebug))

	Debug("scale selected", "scale", "M")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scale selected"`)
}

func TestLevelParsing(t *testing.T) {
	assert.Equal(t, LevelWarn.slogLevel(), Level("WARNING").slogLevel())
	assert.Equal(t, LevelInfo.slogLevel(), Level("bogus").slogLevel())
}
