// Package provider selects the completion client named by ai.provider.
package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edgard/saansbot/internal/ai"
	"github.com/edgard/saansbot/internal/config"
	"github.com/edgard/saansbot/internal/gemini"
	"github.com/edgard/saansbot/internal/openai"
)

// New creates the completion client for the configured provider.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (ai.Completer, error) {
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.Gemini, cfg.AI, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, nil
	case config.ProviderOpenAI:
		client, err := openai.New(cfg.OpenAI, cfg.AI, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q", cfg.AI.Provider)
	}
}
