package critic

import (
	"context"
	"encoding/json"
	"fmt"

	"designsight/internal/domain/services"

	loremgen "github.com/bozaro/golorem"
)

// StaticModel is reported as the model of static critiques
const StaticModel = "static-heuristics"

// StaticCritic returns a fixed set of findings placed relative to the image
// size. It needs no credentials and is used for development and tests.
type StaticCritic struct {
	generator *loremgen.Lorem
}

// NewStaticCritic creates a static critic
func NewStaticCritic() *StaticCritic {
	return &StaticCritic{generator: loremgen.New()}
}

// Name returns the provider name
func (c *StaticCritic) Name() string {
	return ProviderStatic
}

// Analyze produces three findings: header hierarchy, body contrast and
// footer spacing. Coordinates and tokens depend only on the image size.
func (c *StaticCritic) Analyze(ctx context.Context, img *services.CritiqueImage, opts services.CritiqueOptions) *services.CritiqueResult {
	if err := ctx.Err(); err != nil {
		return &services.CritiqueResult{Success: false, Findings: []services.Finding{}, Model: StaticModel, Error: err.Error()}
	}

	w, h := float64(img.Width), float64(img.Height)
	findings := []services.Finding{
		{
			X: w * 0.1, Y: h * 0.05, Width: ptr(w * 0.8), Height: ptr(h * 0.15),
			Category:    "layout",
			Severity:    "high",
			Title:       "Header lacks a clear focal point",
			Description: "The header elements share the same visual weight so nothing leads the eye.",
			Suggestion:  "Increase the size or contrast of the primary heading. " + c.generator.Sentence(4, 8),
			TargetRole:  "designer",
		},
		{
			X: w * 0.1, Y: h * 0.4, Width: ptr(w * 0.5), Height: ptr(h * 0.2),
			Category:    "accessibility",
			Severity:    "medium",
			Title:       "Body text contrast is low",
			Description: "Body copy appears close in tone to its background.",
			Suggestion:  "Aim for a contrast ratio of at least 4.5:1. " + c.generator.Sentence(4, 8),
			TargetRole:  "developer",
		},
		{
			X: w * 0.05, Y: h * 0.85, Width: ptr(w * 0.9), Height: ptr(h * 0.1),
			Category:    "spacing",
			Severity:    "low",
			Title:       "Footer spacing is uneven",
			Description: "Gaps between footer items vary.",
			Suggestion:  "Use a consistent spacing step. " + c.generator.Sentence(4, 8),
			TargetRole:  "all",
		},
	}

	score := 72.0
	summary := fmt.Sprintf("Static review of a %s design for the %s role.", opts.ProjectType, opts.Role)
	raw, _ := json.Marshal(map[string]any{
		"overallAnalysis": map[string]any{
			"summary": summary,
			"score":   score,
		},
		"coordinateFeedback": findings,
	})

	return &services.CritiqueResult{
		Success:      true,
		Findings:     findings,
		Summary:      summary,
		OverallScore: &score,
		Strengths:    []string{"Consistent color palette"},
		Improvements: []string{"Strengthen visual hierarchy", "Raise text contrast"},
		Raw:          raw,
		Model:        StaticModel,
	}
}

func ptr(v float64) *float64 {
	return &v
}
