package services

import (
	"context"
	"encoding/json"
)

// CritiqueImage is the image payload sent to a critic
type CritiqueImage struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// CritiqueOptions tunes the critique prompt
type CritiqueOptions struct {
	Role        string   `json:"role,omitempty"`
	FocusAreas  []string `json:"focusAreas,omitempty"`
	ProjectType string   `json:"projectType,omitempty"`
}

// Finding is one coordinate-anchored critique item as returned by a critic.
// Tokens are free-form; they are mapped onto feedback enums downstream.
type Finding struct {
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	Category    string   `json:"category"`
	Severity    string   `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion,omitempty"`
	TargetRole  string   `json:"targetRole,omitempty"`
}

// CritiqueResult is always well-formed. On failure Success is false, Error
// is set and Findings is empty.
type CritiqueResult struct {
	Success      bool            `json:"success"`
	Findings     []Finding       `json:"findings"`
	Summary      string          `json:"summary,omitempty"`
	OverallScore *float64        `json:"overallScore,omitempty"`
	Strengths    []string        `json:"strengths,omitempty"`
	Improvements []string        `json:"improvements,omitempty"`
	Raw          json.RawMessage `json:"raw,omitempty"`
	Model        string          `json:"model,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// Critic produces design critique for an image
type Critic interface {
	// Name identifies the provider in logs and metrics
	Name() string

	// Analyze never returns nil. Transport and parse failures are reported
	// through CritiqueResult.Success and CritiqueResult.Error.
	Analyze(ctx context.Context, img *CritiqueImage, opts CritiqueOptions) *CritiqueResult
}
