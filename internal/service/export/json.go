// Package export renders image feedback reports as JSON or PDF.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"designsight/internal/domain/models"
	"designsight/internal/domain/services"
)

// Document is the JSON export layout
type Document struct {
	Export     Meta                   `json:"export"`
	Image      ImageSummary           `json:"image"`
	Project    *ProjectSummary        `json:"project"`
	Analysis   *models.AnalysisResult `json:"analysis"`
	Feedback   []FeedbackWithComments `json:"feedback"`
	Statistics Statistics             `json:"statistics"`
}

type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	Format    string    `json:"format"`
}

type ImageSummary struct {
	ID             string                `json:"id"`
	Filename       string                `json:"filename"`
	UploadedAt     time.Time             `json:"uploadedAt"`
	Dimensions     models.Bounds         `json:"dimensions"`
	AnalysisStatus models.AnalysisStatus `json:"analysisStatus"`
}

type ProjectSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type FeedbackWithComments struct {
	models.Feedback
	Comments []models.Comment `json:"comments"`
}

type Statistics struct {
	TotalFeedback int            `json:"totalFeedback"`
	TotalComments int            `json:"totalComments"`
	ByCategory    map[string]int `json:"byCategory"`
	BySeverity    map[string]int `json:"bySeverity"`
	ByStatus      map[string]int `json:"byStatus"`
}

// BuildDocument converts a report into the JSON export layout
func BuildDocument(report *services.ImageReport, now time.Time) *Document {
	img := report.Image
	doc := &Document{
		Export: Meta{Timestamp: now.UTC(), Format: "json"},
		Image: ImageSummary{
			ID:             img.ID,
			Filename:       img.OriginalName,
			UploadedAt:     img.CreatedAt,
			Dimensions:     img.Bounds(),
			AnalysisStatus: img.AnalysisStatus,
		},
		Analysis: img.AnalysisResult,
		Feedback: make([]FeedbackWithComments, 0, len(report.Feedback)),
	}
	if report.Project != nil {
		doc.Project = &ProjectSummary{
			ID:          report.Project.ID,
			Name:        report.Project.Name,
			Description: report.Project.Description,
		}
	}

	totalComments := 0
	for _, f := range report.Feedback {
		comments := report.Comments[f.ID]
		if comments == nil {
			comments = []models.Comment{}
		}
		totalComments += len(comments)
		doc.Feedback = append(doc.Feedback, FeedbackWithComments{Feedback: f, Comments: comments})
	}

	doc.Statistics = Statistics{
		TotalFeedback: report.Stats.Total,
		TotalComments: totalComments,
		ByCategory:    report.Stats.ByCategory,
		BySeverity:    report.Stats.BySeverity,
		ByStatus:      report.Stats.ByStatus,
	}
	return doc
}

// WriteJSON writes the indented JSON export
func WriteJSON(w io.Writer, report *services.ImageReport, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildDocument(report, now)); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}

// Filename builds the attachment name: feedback-{original name}-{unix ms}.{ext}
func Filename(img *models.Image, ext string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(img.OriginalName), filepath.Ext(img.OriginalName))
	base = strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r == '/' || r < 0x20 {
			return '_'
		}
		return r
	}, base)
	return fmt.Sprintf("feedback-%s-%d.%s", base, now.UnixMilli(), ext)
}
