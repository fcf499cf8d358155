package critic

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"designsight/internal/capabilities"
	"designsight/internal/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testImage() *services.CritiqueImage {
	return &services.CritiqueImage{Data: []byte{0x89, 'P', 'N', 'G'}, MimeType: "image/png", Width: 800, Height: 600}
}

func TestStaticCritic_FindingsInsideImage(t *testing.T) {
	c := NewStaticCritic()
	result := c.Analyze(context.Background(), testImage(), services.CritiqueOptions{Role: "designer", ProjectType: "web"})

	require.True(t, result.Success)
	assert.Equal(t, StaticModel, result.Model)
	require.Len(t, result.Findings, 3)
	for _, f := range result.Findings {
		assert.GreaterOrEqual(t, f.X, 0.0)
		assert.LessOrEqual(t, f.X+*f.Width, 800.0)
		assert.LessOrEqual(t, f.Y+*f.Height, 600.0)
	}
	assert.Equal(t, "layout", result.Findings[0].Category)
	assert.True(t, json.Valid(result.Raw))
}

func TestStaticCritic_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewStaticCritic().Analyze(ctx, testImage(), services.CritiqueOptions{})
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Findings)
}

func TestBuildPrompt(t *testing.T) {
	registry, err := capabilities.NewRegistry()
	require.NoError(t, err)

	prompt := BuildPrompt(services.CritiqueOptions{
		Role:        "client",
		ProjectType: "mobile app",
		FocusAreas:  []string{"navigation", "color"},
	}, 800, 600, registry)

	assert.Contains(t, prompt, "mobile app design")
	assert.Contains(t, prompt, "800x600")
	assert.Contains(t, prompt, "brand alignment")
	assert.Contains(t, prompt, "Special attention to: navigation, color")
	assert.Contains(t, prompt, "coordinateFeedback")
}

func newAnthropicServer(t *testing.T, status int, reply string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-sonnet-4-5-20250929", body["model"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad image"}}`))
			return
		}
		resp := map[string]any{
			"id":            "msg_test",
			"type":          "message",
			"role":          "assistant",
			"model":         "claude-sonnet-4-5-20250929",
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content":       []map[string]any{{"type": "text", "text": reply}},
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 20},
		}
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestAnthropic(t *testing.T, baseURL string) *AnthropicCritic {
	t.Helper()
	registry, err := capabilities.NewRegistry()
	require.NoError(t, err)

	c, err := NewAnthropicCritic(AnthropicConfig{
		APIKey:  "test-key",
		Model:   "claude-sonnet-4-5-20250929",
		Timeout: 5 * time.Second,
		BaseURL: baseURL,
	}, registry, testLogger())
	require.NoError(t, err)
	return c
}

func TestAnthropicCritic_ParsesReply(t *testing.T) {
	server := newAnthropicServer(t, http.StatusOK, "```json\n"+validReply+"\n```")
	c := newTestAnthropic(t, server.URL)

	result := c.Analyze(context.Background(), testImage(), services.CritiqueOptions{Role: "designer", ProjectType: "web"})

	require.True(t, result.Success, result.Error)
	assert.Len(t, result.Findings, 2)
	assert.Equal(t, "claude-sonnet-4-5-20250929", result.Model)
}

func TestAnthropicCritic_UnparseableReply(t *testing.T) {
	server := newAnthropicServer(t, http.StatusOK, "Sorry, I can't help with that.")
	c := newTestAnthropic(t, server.URL)

	result := c.Analyze(context.Background(), testImage(), services.CritiqueOptions{Role: "designer"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, ParseFailedMessage)
}

func TestAnthropicCritic_APIError(t *testing.T) {
	server := newAnthropicServer(t, http.StatusBadRequest, "")
	c := newTestAnthropic(t, server.URL)

	result := c.Analyze(context.Background(), testImage(), services.CritiqueOptions{Role: "designer"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "anthropic API call failed")
	assert.Empty(t, result.Findings)
}

func TestNew(t *testing.T) {
	registry, err := capabilities.NewRegistry()
	require.NoError(t, err)

	c, err := New(Config{Provider: ProviderStatic}, registry, testLogger())
	require.NoError(t, err)
	assert.Equal(t, ProviderStatic, c.Name())

	_, err = New(Config{Provider: ProviderAnthropic, APIKey: "k", Model: "not-a-model"}, registry, testLogger())
	assert.Error(t, err)

	_, err = New(Config{Provider: ProviderAnthropic, Model: "claude-sonnet-4-5-20250929"}, registry, testLogger())
	assert.Error(t, err)

	_, err = New(Config{Provider: "gemini"}, registry, testLogger())
	assert.Error(t, err)
}
