package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, "light", cfg.Theme)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	cfg.ServerURL = "https://derma.example.com"
	cfg.Theme = "dark"
	require.NoError(t, cfg.Save())

	loaded, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://derma.example.com", loaded.ServerURL)
	assert.Equal(t, "dark", loaded.Theme)
}

func TestSaveFileMode(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DERMTERM_SERVER_URL", "http://override:9999")
	t.Setenv("DERMTERM_THEME", "dark")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://override:9999", cfg.ServerURL)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestInvalidThemeFallsBack(t *testing.T) {
	t.Setenv("DERMTERM_THEME", "solarized")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Theme)
}

func TestPath(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), cfg.Path())
}
