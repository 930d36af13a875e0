package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/theshubhamgundu/sahaaya/internal/config"
)

var schemas = map[string]string{
	"mysql": `CREATE TABLE IF NOT EXISTS prompt_logs (
		id CHAR(36) NOT NULL PRIMARY KEY,
		prompt_text TEXT NOT NULL,
		created_at DATETIME(3) NOT NULL,
		INDEX idx_prompt_logs_created_at (created_at)
	) DEFAULT CHARSET=utf8mb4`,
	"sqlite": `CREATE TABLE IF NOT EXISTS prompt_logs (
		id TEXT NOT NULL PRIMARY KEY,
		prompt_text TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

// NewClient opens the prompt log database and creates its table
func NewClient(cfg config.PromptLogConfig, logger *slog.Logger) (*sql.DB, error) {
	schema, ok := schemas[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// connection pool
	if cfg.Driver == "sqlite" {
		// a single writer avoids SQLITE_BUSY and keeps :memory: databases shared
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Info("database connected",
		"driver", cfg.Driver,
		"host", cfg.Host,
		"database", cfg.Database,
		"max_open_conns", cfg.MaxOpenConns,
	)
	return db, nil
}

func buildDSN(cfg config.PromptLogConfig) (string, error) {
	switch cfg.Driver {
	case "sqlite":
		if cfg.DSN != ":memory:" && !strings.HasPrefix(cfg.DSN, "file:") {
			if dir := filepath.Dir(cfg.DSN); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return "", fmt.Errorf("failed to create database directory: %w", err)
				}
			}
		}
		return cfg.DSN, nil
	default:
		if cfg.DSN != "" {
			return cfg.DSN, nil
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=True&loc=UTC&charset=utf8mb4",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Database,
		), nil
	}
}

// Close closes the database connection
func Close(db *sql.DB, logger *slog.Logger) error {
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return err
	}
	logger.Info("database closed")
	return nil
}
