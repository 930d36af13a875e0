package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// promptLogRepository is the SQL implementation of domain.PromptLogRepository.
// The same statements run on MySQL and SQLite.
type promptLogRepository struct {
	db *sql.DB
}

// NewPromptLogRepository creates a new PromptLogRepository instance.
//
// Parameters:
//   - db: open database handle with the prompt_logs table created
//
// Returns:
//   - domain.PromptLogRepository: Repository interface implementation
func NewPromptLogRepository(db *sql.DB) domain.PromptLogRepository {
	return &promptLogRepository{db: db}
}

// Record inserts one prompt. Missing ID and CreatedAt are filled in.
func (r *promptLogRepository) Record(ctx context.Context, entry *entity.PromptLogEntry) error {
	if entry == nil {
		return domain.NewInvalidInputError("prompt log entry is required")
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO prompt_logs (id, prompt_text, created_at) VALUES (?, ?, ?)`,
		entry.ID, entry.PromptText, entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert prompt log: %w", err)
	}
	return nil
}

// Ping checks the database connection
func (r *promptLogRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
