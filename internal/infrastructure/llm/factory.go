package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/theshubhamgundu/sahaaya/internal/config"
	"github.com/theshubhamgundu/sahaaya/internal/domain"
)

// NewClient creates the model client selected by cfg.Provider
func NewClient(ctx context.Context, cfg config.ModelConfig, logger *slog.Logger) (domain.ModelClient, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiClient(ctx, cfg, logger)
	case "openai":
		return NewOpenAIClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported model provider: %s", cfg.Provider)
	}
}
