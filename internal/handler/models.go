package handler

import (
	"log/slog"
	"net/http"

	"designsight/internal/capabilities"
	"designsight/internal/config"
	"designsight/internal/httputil"
)

// ModelsHandler exposes the critic configuration and model catalogue
type ModelsHandler struct {
	config   *config.Config
	logger   *slog.Logger
	registry *capabilities.Registry
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(cfg *config.Config, logger *slog.Logger, registry *capabilities.Registry) *ModelsHandler {
	return &ModelsHandler{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}
}

// CriticInfoResponse describes the active critic
type CriticInfoResponse struct {
	Provider    string          `json:"provider"`
	ActiveModel string          `json:"activeModel,omitempty"`
	DefaultRole string          `json:"defaultRole"`
	Roles       []string        `json:"roles"`
	Models      []ModelResponse `json:"models"`
}

// ModelResponse represents a model's capabilities for the API response
type ModelResponse struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName"`
	Description   string `json:"description,omitempty"`
	ContextWindow int    `json:"contextWindow"`
	MaxOutput     int    `json:"maxOutput"`
	ImageInput    bool   `json:"imageInput"`
}

// GetCritic returns the critic provider, its model catalogue and the
// roles critique prompts can be tailored to
// GET /api/critic
func (h *ModelsHandler) GetCritic(w http.ResponseWriter, r *http.Request) {
	resp := CriticInfoResponse{
		Provider:    h.config.CriticProvider,
		DefaultRole: h.registry.DefaultRole(),
		Roles:       h.registry.Roles(),
	}
	if h.config.CriticProvider == config.CriticAnthropic {
		resp.ActiveModel = h.config.CriticModel
	}

	models := h.registry.ListModels()
	resp.Models = make([]ModelResponse, 0, len(models))
	for _, m := range models {
		resp.Models = append(resp.Models, ModelResponse{
			ID:            m.ID,
			DisplayName:   m.DisplayName,
			Description:   m.Description,
			ContextWindow: m.ContextWindow,
			MaxOutput:     m.MaxOutput,
			ImageInput:    m.SupportsVision,
		})
	}

	httputil.RespondSuccess(w, http.StatusOK, resp, "")
}
