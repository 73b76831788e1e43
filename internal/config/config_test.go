package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_RUNTIME_DIR", "/run/test")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/run/test", "assetreg", "daemon.sock"), cfg.Socket)
	assert.Equal(t, "assets.yaml", cfg.Manifest)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	file := filepath.Join(dir, "assetreg.yaml")
	require.NoError(t, os.WriteFile(file, []byte("manifest: /srv/site/assets.yaml\nlog:\n  level: debug\n"), 0o600))
	t.Setenv("ASSETREG_LOG_FORMAT", "json")

	cfg, err := Load(New(), file)
	require.NoError(t, err)
	assert.Equal(t, "/srv/site/assets.yaml", cfg.Manifest)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_DefaultFileLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "assetreg"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, "assetreg", "config.yaml"), []byte("socket: /tmp/a.sock\n"), 0o600))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a.sock", cfg.Socket)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
