package database

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theshubhamgundu/sahaaya/internal/config"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
	"github.com/theshubhamgundu/sahaaya/pkg/database"
)

func TestPromptLogRepository_Record(t *testing.T) {
	db, err := database.NewClient(config.PromptLogConfig{Driver: "sqlite", DSN: ":memory:"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPromptLogRepository(db)
	ctx := context.Background()

	entry := &entity.PromptLogEntry{PromptText: "my employer withholds wages"}
	require.NoError(t, repo.Record(ctx, entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	// same text twice is two rows
	require.NoError(t, repo.Record(ctx, &entity.PromptLogEntry{PromptText: "my employer withholds wages"}))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM prompt_logs WHERE prompt_text = ?`, "my employer withholds wages").Scan(&count))
	assert.Equal(t, 2, count)

	// duplicate primary key is rejected
	assert.Error(t, repo.Record(ctx, &entity.PromptLogEntry{ID: entry.ID, PromptText: "x"}))

	assert.NoError(t, repo.Ping(ctx))
}

func TestPromptLogRepository_RejectsNil(t *testing.T) {
	repo := NewPromptLogRepository(nil)
	assert.Error(t, repo.Record(context.Background(), nil))
}
