package critic

import (
	"fmt"
	"strings"

	"designsight/internal/domain/services"
)

const systemPrompt = "You are an expert design critic. You answer with a single JSON object and nothing else."

// GuidanceSource supplies role-specific review guidance
type GuidanceSource interface {
	RoleGuidance(role string) string
}

// BuildPrompt renders the critique instructions for one image
func BuildPrompt(opts services.CritiqueOptions, width, height int, guidance GuidanceSource) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this %s design. The image is %dx%d pixels.\n", opts.ProjectType, width, height)
	b.WriteString(`Provide coordinate-anchored feedback in the following JSON format:

{
  "overallAnalysis": {
    "summary": "Brief overall assessment",
    "score": 85,
    "strengths": ["list", "of", "strengths"],
    "improvements": ["list", "of", "improvements"]
  },
  "coordinateFeedback": [
    {
      "x": 150,
      "y": 200,
      "width": 100,
      "height": 50,
      "category": "layout|typography|color|spacing|accessibility|branding|usability",
      "severity": "high|medium|low",
      "title": "Issue or suggestion title",
      "description": "Detailed explanation",
      "suggestion": "Specific improvement suggestion",
      "targetRole": "designer|developer|pm|client|stakeholder|all"
    }
  ]
}

`)
	fmt.Fprintf(&b, "Analysis focus for %s role:\n%s\n", opts.Role, guidance.RoleGuidance(opts.Role))

	if len(opts.FocusAreas) > 0 {
		fmt.Fprintf(&b, "\nSpecial attention to: %s\n", strings.Join(opts.FocusAreas, ", "))
	}

	b.WriteString("\nProvide pixel coordinates inside the image for each feedback point. Be precise and actionable.\n")
	b.WriteString("Return only valid JSON without any markdown formatting or code blocks.")

	return b.String()
}
