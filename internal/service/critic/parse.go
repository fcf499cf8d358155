package critic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"designsight/internal/domain/services"
)

// ParseFailedMessage is reported when a critic reply is not usable
const ParseFailedMessage = "Failed to parse AI response"

var requiredFindingFields = []string{"x", "y", "category", "severity", "title", "description"}

type critiqueDocument struct {
	OverallAnalysis *struct {
		Summary      string   `json:"summary"`
		Score        *float64 `json:"score"`
		Strengths    []string `json:"strengths"`
		Improvements []string `json:"improvements"`
	} `json:"overallAnalysis"`
	CoordinateFeedback []json.RawMessage `json:"coordinateFeedback"`
}

// ParseCritique turns a model reply into a CritiqueResult. Markdown fences
// around the JSON are tolerated. Any structural problem yields a failed
// result carrying the raw reply.
func ParseCritique(text, model string) *services.CritiqueResult {
	clean := stripFences(text)

	result, err := parseDocument(clean)
	if err != nil {
		raw, _ := json.Marshal(text)
		return &services.CritiqueResult{
			Success:  false,
			Findings: []services.Finding{},
			Raw:      raw,
			Model:    model,
			Error:    fmt.Sprintf("%s: %v", ParseFailedMessage, err),
		}
	}

	result.Model = model
	return result
}

func parseDocument(clean string) (*services.CritiqueResult, error) {
	var doc critiqueDocument
	dec := json.NewDecoder(strings.NewReader(clean))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if doc.OverallAnalysis == nil {
		return nil, errors.New("missing overallAnalysis in response")
	}
	if doc.CoordinateFeedback == nil {
		return nil, errors.New("coordinateFeedback must be an array")
	}

	findings := make([]services.Finding, 0, len(doc.CoordinateFeedback))
	for i, item := range doc.CoordinateFeedback {
		f, err := parseFinding(item)
		if err != nil {
			return nil, fmt.Errorf("feedback item %d: %w", i, err)
		}
		findings = append(findings, *f)
	}

	return &services.CritiqueResult{
		Success:      true,
		Findings:     findings,
		Summary:      doc.OverallAnalysis.Summary,
		OverallScore: doc.OverallAnalysis.Score,
		Strengths:    doc.OverallAnalysis.Strengths,
		Improvements: doc.OverallAnalysis.Improvements,
		Raw:          json.RawMessage(clean),
	}, nil
}

func parseFinding(item json.RawMessage) (*services.Finding, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return nil, errors.New("not an object")
	}
	for _, name := range requiredFindingFields {
		if _, ok := fields[name]; !ok {
			return nil, fmt.Errorf("missing %s", name)
		}
	}
	if !isNumber(fields["x"]) || !isNumber(fields["y"]) {
		return nil, errors.New("invalid coordinates")
	}

	var f services.Finding
	if err := json.Unmarshal(item, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func isNumber(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || (trimmed[0] != '-' && (trimmed[0] < '0' || trimmed[0] > '9')) {
		return false
	}
	var n float64
	return json.Unmarshal(trimmed, &n) == nil
}

// stripFences removes a leading ```json (or ```) fence and a trailing ```
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
