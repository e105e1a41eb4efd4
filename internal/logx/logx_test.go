package logx

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "webook.log")
	l, closeFn, err := New("info", path)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("login", zap.String("userId", "42"))
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug should be filtered at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "login", entry["msg"])
	assert.Equal(t, "42", entry["userId"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewStderr(t *testing.T) {
	l, closeFn, err := New("debug", "-")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
	closeFn()
}
