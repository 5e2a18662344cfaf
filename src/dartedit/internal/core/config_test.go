package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv(_configDirEnv, "")
	provider, err := NewConfig(ConfigOptions{})
	require.NoError(t, err)

	var lineLength int
	require.NoError(t, provider.Get("formatting.lineLength").Populate(&lineLength))
	assert.Equal(t, 80, lineLength)

	var maxSize int64
	require.NoError(t, provider.Get("docsync.maxFileSizeBytes").Populate(&maxSize))
	assert.Equal(t, int64(10485760), maxSize)

	assert.Equal(t, "config", provider.Name())
}

func TestNewConfigOverlay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.yaml"), []byte("files:\n  - local.yaml\n  - missing.yaml\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.yaml"), []byte("formatting:\n  lineLength: 120\n"), 0644))

	provider, err := NewConfig(ConfigOptions{Dir: dir})
	require.NoError(t, err)

	var lineLength int
	require.NoError(t, provider.Get("formatting.lineLength").Populate(&lineLength))
	assert.Equal(t, 120, lineLength)

	var contextLines int
	require.NoError(t, provider.Get("preview.contextLines").Populate(&contextLines))
	assert.Equal(t, 3, contextLines)
}

func TestNewConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.yaml"), []byte("files:\n  - local.yaml\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.yaml"), []byte("preview:\n  contextLines: 7\n"), 0644))
	t.Setenv(_configDirEnv, dir)

	provider, err := NewConfig(ConfigOptions{})
	require.NoError(t, err)

	var contextLines int
	require.NoError(t, provider.Get("preview.contextLines").Populate(&contextLines))
	assert.Equal(t, 7, contextLines)
}

func TestNewConfigErrors(t *testing.T) {
	t.Run("missing meta", func(t *testing.T) {
		_, err := NewConfig(ConfigOptions{Dir: t.TempDir()})
		assert.ErrorContains(t, err, "meta configuration")
	})

	t.Run("no listed files exist", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.yaml"), []byte("files:\n  - missing.yaml\n"), 0644))
		_, err := NewConfig(ConfigOptions{Dir: dir})
		assert.ErrorContains(t, err, "no configuration files found")
	})
}

func TestNewConfigDebug(t *testing.T) {
	t.Setenv(_configDirEnv, "")
	provider, err := NewConfig(ConfigOptions{Debug: true})
	require.NoError(t, err)

	var level string
	require.NoError(t, provider.Get("logging.level").Populate(&level))
	assert.Equal(t, "debug", level)
}
