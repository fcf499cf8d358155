package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"designsight/internal/domain/models"
	"designsight/internal/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *services.ImageReport {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	desc := "Landing page refresh"
	score := 78.0
	image := &models.Image{
		ID:             "img-1",
		ProjectID:      "proj-1",
		OriginalName:   "home page.png",
		Metadata:       models.ImageMetadata{Width: 800, Height: 600, MimeType: "image/png"},
		AnalysisStatus: models.AnalysisCompleted,
		AnalysisResult: &models.AnalysisResult{Summary: "Clean but low contrast", OverallScore: &score},
		CreatedAt:      created,
	}
	feedback := []models.Feedback{
		{
			ID: "fb-1", ImageID: "img-1", Category: models.CategoryAccessibility, Severity: models.SeverityHigh,
			Title: "Low contrast", Description: "Body text is hard to read",
			Coordinates:     models.Coordinates{X: 10, Y: 20, Width: 100, Height: 40},
			Recommendations: []string{"Darken the text"}, Status: models.FeedbackOpen, Priority: 3,
		},
		{
			ID: "fb-2", ImageID: "img-1", Category: models.CategoryContent, Severity: models.SeverityLow,
			Title: "Mixed fonts", Description: "Three families", Status: models.FeedbackResolved, Priority: 2,
		},
	}
	return &services.ImageReport{
		Image:    image,
		Project:  &models.Project{ID: "proj-1", Name: "Website", Description: &desc},
		Feedback: feedback,
		Comments: map[string][]models.Comment{
			"fb-1": {
				{ID: "c-1", FeedbackID: "fb-1", Author: models.Author{Name: "Ana", Role: models.RoleDesigner}, Content: "Agreed"},
				{ID: "c-2", FeedbackID: "fb-1", Author: models.Author{Name: "Raj", Role: models.RoleDeveloper}, Content: "Fixed in tokens"},
			},
		},
		Stats: models.NewFeedbackStats("img-1", feedback),
	}
}

func TestBuildDocument(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	doc := BuildDocument(sampleReport(), now)

	assert.Equal(t, "json", doc.Export.Format)
	assert.Equal(t, now, doc.Export.Timestamp)
	assert.Equal(t, "home page.png", doc.Image.Filename)
	assert.Equal(t, models.Bounds{Width: 800, Height: 600}, doc.Image.Dimensions)
	require.NotNil(t, doc.Project)
	assert.Equal(t, "Website", doc.Project.Name)

	require.Len(t, doc.Feedback, 2)
	assert.Len(t, doc.Feedback[0].Comments, 2)
	assert.NotNil(t, doc.Feedback[1].Comments)
	assert.Empty(t, doc.Feedback[1].Comments)

	assert.Equal(t, 2, doc.Statistics.TotalFeedback)
	assert.Equal(t, 2, doc.Statistics.TotalComments)
	assert.Equal(t, 1, doc.Statistics.ByCategory["accessibility"])
	assert.Equal(t, 1, doc.Statistics.ByStatus["resolved"])
}

func TestBuildDocument_MissingProject(t *testing.T) {
	report := sampleReport()
	report.Project = nil

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, report, time.Now()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Nil(t, decoded["project"])

	feedback := decoded["feedback"].([]any)
	first := feedback[0].(map[string]any)
	assert.Equal(t, "fb-1", first["id"])
	assert.Len(t, first["comments"], 2)
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleReport(), time.Now()))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 1000)
}

func TestWritePDF_NoAnalysisNoFeedback(t *testing.T) {
	report := sampleReport()
	report.Image.AnalysisResult = nil
	report.Feedback = nil
	report.Comments = nil
	report.Stats = models.NewFeedbackStats("img-1", nil)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, report, time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestFilename(t *testing.T) {
	now := time.UnixMilli(1767225600000)
	img := &models.Image{OriginalName: `my "design".png`}

	assert.Equal(t, "feedback-my _design_-1767225600000.pdf", Filename(img, "pdf", now))
}
