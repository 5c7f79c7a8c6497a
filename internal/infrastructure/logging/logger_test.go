package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	logger, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.NotNil(t, logger.Logger)

	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aiop.log")

	logger, err := New(Config{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Component("filesystem").Info("Folder removed", zap.String("path", "/tmp/x"))
	logger.Debug("hidden at info level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"Folder removed"`)
	assert.Contains(t, string(data), `"logger":"filesystem"`)
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestNewFromLevelFallback(t *testing.T) {
	logger := NewFromLevel("nonsense", false)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))

	dev := NewFromLevel("debug", true)
	assert.True(t, dev.Core().Enabled(zap.DebugLevel))
}
