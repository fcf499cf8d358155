// Package critic provides the AI design critique adapters.
package critic

import (
	"fmt"
	"log/slog"
	"time"

	"designsight/internal/capabilities"
	"designsight/internal/domain/services"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderStatic    = "static"
)

// Config selects and configures a critic
type Config struct {
	Provider string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// New builds the configured critic. Anthropic models are checked against
// the capability registry for vision support.
func New(cfg Config, registry *capabilities.Registry, logger *slog.Logger) (services.Critic, error) {
	switch cfg.Provider {
	case ProviderStatic:
		logger.Info("using static critic")
		return NewStaticCritic(), nil

	case ProviderAnthropic:
		caps, err := registry.ValidateCriticModel(cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("invalid critic model: %w", err)
		}
		c, err := NewAnthropicCritic(AnthropicConfig{
			APIKey:    cfg.APIKey,
			Model:     caps.ID,
			MaxTokens: caps.MaxOutput,
			Timeout:   cfg.Timeout,
		}, registry, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("using anthropic critic", "model", caps.ID, "timeout", cfg.Timeout)
		return c, nil

	default:
		return nil, fmt.Errorf("unknown critic provider: %s", cfg.Provider)
	}
}
