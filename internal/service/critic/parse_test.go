package critic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReply = `{
  "overallAnalysis": {"summary": "Solid layout", "score": 81, "strengths": ["grid"], "improvements": ["contrast"]},
  "coordinateFeedback": [
    {"x": 10, "y": 20, "width": 100, "height": 40, "category": "color", "severity": "high",
     "title": "Low contrast", "description": "Text is hard to read", "suggestion": "Darken text", "targetRole": "client"},
    {"x": 300, "y": 50, "category": "typography", "severity": "low", "title": "Mixed fonts", "description": "Three families used"}
  ]
}`

func TestParseCritique_Valid(t *testing.T) {
	result := ParseCritique(validReply, "claude-test")

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "claude-test", result.Model)
	assert.Equal(t, "Solid layout", result.Summary)
	require.NotNil(t, result.OverallScore)
	assert.Equal(t, 81.0, *result.OverallScore)
	require.Len(t, result.Findings, 2)

	first := result.Findings[0]
	assert.Equal(t, 10.0, first.X)
	require.NotNil(t, first.Width)
	assert.Equal(t, 100.0, *first.Width)
	assert.Equal(t, "client", first.TargetRole)

	assert.Nil(t, result.Findings[1].Width)
	assert.JSONEq(t, validReply, string(result.Raw))
}

func TestParseCritique_StripsFences(t *testing.T) {
	result := ParseCritique("```json\n"+validReply+"\n```", "m")
	require.True(t, result.Success, result.Error)
	assert.Len(t, result.Findings, 2)

	result = ParseCritique("```\n"+validReply+"```", "m")
	assert.True(t, result.Success, result.Error)
}

func TestParseCritique_Failures(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"not json", "I cannot analyze this image."},
		{"missing overall", `{"coordinateFeedback": []}`},
		{"feedback not array", `{"overallAnalysis": {}, "coordinateFeedback": {}}`},
		{"feedback missing", `{"overallAnalysis": {}}`},
		{"missing title", `{"overallAnalysis": {}, "coordinateFeedback": [{"x":1,"y":2,"category":"c","severity":"s","description":"d"}]}`},
		{"string coordinate", `{"overallAnalysis": {}, "coordinateFeedback": [{"x":"1","y":2,"category":"c","severity":"s","title":"t","description":"d"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCritique(tt.reply, "m")
			assert.False(t, result.Success)
			assert.Contains(t, result.Error, ParseFailedMessage)
			assert.Empty(t, result.Findings)
			assert.NotEmpty(t, result.Raw)
		})
	}
}

func TestParseCritique_EmptyFeedbackIsSuccess(t *testing.T) {
	result := ParseCritique(`{"overallAnalysis": {"summary": "Nothing to add"}, "coordinateFeedback": []}`, "m")
	require.True(t, result.Success)
	assert.Empty(t, result.Findings)
	assert.Nil(t, result.OverallScore)
}
