package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, DriverSQLite, c.Storage.Driver)
	assert.Equal(t, "FULL", c.Storage.Sync)
	assert.Equal(t, "note-app-storage", c.Storage.Key)
	assert.Equal(t, "warn", c.Log.Level)
	assert.False(t, c.Log.Production)
	assert.Equal(t, time.Second, c.Editor.Debounce)
	assert.True(t, c.Editor.WatchEnabled())
	assert.Equal(t, ".", c.Export.Dir)
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, c.Storage.Driver)
	assert.NotEmpty(t, c.File)
}

func TestLoadOverlay(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: file
  path: /tmp/notes
  sync: ""
log:
  level: debug
editor:
  debounce: 250ms
  watch: false
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverFile, c.Storage.Driver)
	assert.Equal(t, "/tmp/notes", c.Storage.Path)
	assert.Equal(t, "FULL", c.Storage.Sync, "emptied field is refilled")
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 250*time.Millisecond, c.Editor.Debounce)
	assert.False(t, c.Editor.WatchEnabled(), "explicit false survives defaults")
}

func TestLoadRejectsBadDriver(t *testing.T) {
	_, err := Load(writeConfig(t, "storage:\n  driver: redis\n"))
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "storage: [unterminated"))
	assert.ErrorContains(t, err, "failed to parse")
}

func TestSaveRoundTrip(t *testing.T) {
	c := Default()
	c.File = filepath.Join(t.TempDir(), "sub", "config.yaml")
	c.Storage.Driver = DriverFile
	c.Editor.Debounce = 2 * time.Second
	require.NoError(t, c.Save())

	loaded, err := Load(c.File)
	require.NoError(t, err)
	assert.Equal(t, DriverFile, loaded.Storage.Driver)
	assert.Equal(t, 2*time.Second, loaded.Editor.Debounce)
}
