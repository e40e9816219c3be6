package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"clipkeep/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigProvider_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clipkeep.yaml")
	yaml := `
webServer:
  host: 127.0.0.1
  port: 9000
persistence:
  filePath: ` + filepath.Join(dir, "db.json") + `
  imagesDir: ` + filepath.Join(dir, "images") + `
  renameRetries: 3
  renameBackoff: 50ms
history:
  maxItems: 25
watcher:
  interval: 2s
  pasteDelay: 250ms
logger:
  level: warn
  mode: 0600
  dir: ` + filepath.Join(dir, "logs") + `
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, AppName, conf.AppName)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, 9000, conf.WebServer.Port)
	assert.Equal(t, 3, conf.Persistence.RenameRetries)
	assert.Equal(t, 50*time.Millisecond, conf.Persistence.RenameBackoff)
	assert.Equal(t, 25, conf.History.MaxItems)
	assert.Equal(t, 2*time.Second, conf.Watcher.Interval)
	assert.Equal(t, 250*time.Millisecond, conf.Watcher.PasteDelay)
	assert.Equal(t, "warn", conf.Logger.Level)
	assert.True(t, conf.Watcher.Enabled, "unset keys keep defaults")
	assert.DirExists(t, filepath.Join(dir, "logs"))
}

func TestNewConfigProvider_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CLIPKEEP_DB_PATH", filepath.Join(dir, "db.json"))
	t.Setenv("CLIPKEEP_IMAGES_DIR", filepath.Join(dir, "images"))
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	conf, err := NewConfigProvider(&structures.CliFlags{
		ConfigPath: filepath.Join(dir, "absent.yaml"),
		DebugMode:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "db.json"), conf.Persistence.FilePath)
	assert.Equal(t, 100, conf.History.MaxItems)
	assert.Equal(t, time.Second, conf.Watcher.Interval)
	assert.Equal(t, 10, conf.Persistence.RenameRetries)
	assert.True(t, conf.Debug)
	assert.Equal(t, "debug", conf.Logger.Level)
}

func TestNewConfigProvider_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	yaml := `
logger:
  level: verbose
  dir: ` + filepath.Join(dir, "logs") + `
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
