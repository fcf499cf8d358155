package models

import (
	"encoding/json"
	"time"
)

// AnalysisStatus tracks the AI critique lifecycle of an image.
type AnalysisStatus string

const (
	AnalysisPending    AnalysisStatus = "pending"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisFailed     AnalysisStatus = "failed"
)

// Valid reports whether s is a known analysis status.
func (s AnalysisStatus) Valid() bool {
	switch s {
	case AnalysisPending, AnalysisProcessing, AnalysisCompleted, AnalysisFailed:
		return true
	}
	return false
}

type ImageMetadata struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	ByteSize int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

// AnalysisResult is what the critique adapter produced for an image, kept
// alongside the feedback records it materialized into.
type AnalysisResult struct {
	Raw          json.RawMessage `json:"raw,omitempty"`
	Summary      string          `json:"summary,omitempty"`
	OverallScore *float64        `json:"overallScore,omitempty"`
	Model        string          `json:"model,omitempty"`
	ProcessedAt  time.Time       `json:"processedAt"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
}

type Image struct {
	ID                string          `json:"id" db:"id"`
	ProjectID         string          `json:"projectId" db:"project_id"`
	Filename          string          `json:"filename" db:"filename"`
	OriginalName      string          `json:"originalName" db:"original_name"`
	StoragePath       string          `json:"-" db:"storage_path"`
	Metadata          ImageMetadata   `json:"metadata" db:"metadata"`
	AnalysisStatus    AnalysisStatus  `json:"analysisStatus" db:"analysis_status"`
	AnalysisResult    *AnalysisResult `json:"analysisResult,omitempty" db:"analysis_result"`
	AnalysisStartedAt *time.Time      `json:"analysisStartedAt,omitempty" db:"analysis_started_at"`
	CreatedAt         time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time       `json:"updatedAt" db:"updated_at"`
}

// Bounds returns the pixel dimensions used for coordinate checks.
func (i *Image) Bounds() Bounds {
	return Bounds{Width: float64(i.Metadata.Width), Height: float64(i.Metadata.Height)}
}
