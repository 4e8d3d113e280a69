package config

import (
	"os"
	"path/filepath"
	"testing"

	"dbkit/core/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "en", cfg.Server.Locale)
	assert.Equal(t, "", cfg.Server.RedirectNoPageFound)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 500, cfg.Database.BatchSize)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "id", cfg.Reconcile.PrimaryKey)
	assert.Equal(t, 60, cfg.Reconcile.CacheTTLSeconds)
}

func TestLoadConfig_Sources(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "")

	yaml := "server:\n  port: \"7070\"\n  redirect_no_page_found: https://example.com\ndatabase:\n  driver: sqlite\n  name: data.db\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, "https://example.com", cfg.Server.RedirectNoPageFound)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data.db", cfg.Database.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestConfig_GetValue(t *testing.T) {
	cfg := &Config{Server: server.Config{Port: "8080", RedirectNoPageFound: "/home"}}

	assert.Equal(t, "/home", cfg.GetValue("server.redirect_no_page_found"))
	assert.Equal(t, "8080", cfg.GetValue("SERVER.PORT"))
	assert.Equal(t, cfg.Server, cfg.GetValue("server"))
	assert.Nil(t, cfg.GetValue("server.unknown"))
	assert.Nil(t, cfg.GetValue("nope"))
	assert.Nil(t, cfg.GetValue("server.port.deeper"))
	assert.Nil(t, cfg.GetValue(""))

	var empty *Config
	assert.Nil(t, empty.GetValue("server.port"))
}

func TestPublish(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, Publish(path, false))
	assert.FileExists(t, path)

	err := Publish(path, false)
	assert.ErrorContains(t, err, "already exists")
	assert.NoError(t, Publish(path, true))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "reports", cfg.Reconcile.ReportPrefix)
}
