package critic

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"designsight/internal/domain/services"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicCritic sends the image to a Claude vision model
type AnthropicCritic struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	guidance  GuidanceSource
	logger    *slog.Logger
}

// AnthropicConfig configures AnthropicCritic
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	// BaseURL overrides the API endpoint, used by tests
	BaseURL string
}

// NewAnthropicCritic creates a critic backed by the Anthropic Messages API
func NewAnthropicCritic(cfg AnthropicConfig, guidance GuidanceSource, logger *slog.Logger) (*AnthropicCritic, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	return &AnthropicCritic{
		client:    &client,
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		timeout:   cfg.Timeout,
		guidance:  guidance,
		logger:    logger,
	}, nil
}

// Name returns the provider name
func (c *AnthropicCritic) Name() string {
	return ProviderAnthropic
}

// Analyze asks the model for a critique and parses its JSON reply
func (c *AnthropicCritic) Analyze(ctx context.Context, img *services.CritiqueImage, opts services.CritiqueOptions) *services.CritiqueResult {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(opts, img.Width, img.Height, c.guidance)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: systemPrompt,
			},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(img.MimeType, base64.StdEncoding.EncodeToString(img.Data)),
				anthropic.NewTextBlock(prompt),
			),
		},
	}

	c.logger.Debug("calling anthropic critic",
		"model", c.model,
		"image_bytes", len(img.Data),
		"prompt_length", len(prompt),
	)

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		msg := "anthropic API call failed: " + err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			msg = fmt.Sprintf("anthropic API call timed out after %s", c.timeout)
		}
		c.logger.Error("anthropic critic failed", "model", c.model, "error", err)
		return &services.CritiqueResult{
			Success:  false,
			Findings: []services.Finding{},
			Model:    c.model,
			Error:    msg,
		}
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	result := ParseCritique(text.String(), string(message.Model))
	if !result.Success {
		c.logger.Warn("anthropic critic reply could not be parsed",
			"model", c.model,
			"error", result.Error,
			"reply_length", text.Len(),
		)
	}
	return result
}
