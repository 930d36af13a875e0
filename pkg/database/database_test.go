package database

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theshubhamgundu/sahaaya/internal/config"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClient_SQLiteCreatesDirectoryAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prompts.db")

	db, err := NewClient(config.PromptLogConfig{Driver: "sqlite", DSN: path}, discard())
	require.NoError(t, err)
	defer Close(db, discard())

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='prompt_logs'`).Scan(&name))
	assert.Equal(t, "prompt_logs", name)
	assert.FileExists(t, path)
}

func TestNewClient_UnsupportedDriver(t *testing.T) {
	_, err := NewClient(config.PromptLogConfig{Driver: "postgres"}, discard())
	assert.Error(t, err)
}

func TestBuildDSN_MySQL(t *testing.T) {
	dsn, err := buildDSN(config.PromptLogConfig{
		Driver:   "mysql",
		Host:     "db",
		Port:     3306,
		User:     "app",
		Password: "secret",
		Database: "sahaaya",
	})
	require.NoError(t, err)
	assert.Equal(t, "app:secret@tcp(db:3306)/sahaaya?parseTime=True&loc=UTC&charset=utf8mb4", dsn)

	dsn, err = buildDSN(config.PromptLogConfig{Driver: "mysql", DSN: "u:p@tcp(h)/d"})
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(h)/d", dsn)
}
