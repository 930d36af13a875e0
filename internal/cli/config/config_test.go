package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(PathEnv, filepath.Join(t.TempDir(), "config.json"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultServer, cfg.Server)
	assert.Empty(t, cfg.SenderName)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	t.Setenv(PathEnv, path)

	require.NoError(t, (&Config{Server: "http://sahaaya.local:9000", SenderName: "Asha"}).Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://sahaaya.local:9000", cfg.Server)
	assert.Equal(t, "Asha", cfg.SenderName)
}

func TestLoad_EmptyServerFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv(PathEnv, path)
	require.NoError(t, os.WriteFile(path, []byte(`{"server":""}`), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultServer, cfg.Server)
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv(PathEnv, path)
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := Load()
	assert.Error(t, err)
}
