package services

import (
	"context"
	"time"

	"designsight/internal/domain/models"
)

// ImageAnalysis is the analysis state of an image with its feedback
type ImageAnalysis struct {
	Image    *models.Image     `json:"image"`
	Feedback []models.Feedback `json:"feedback"`
	Count    int               `json:"count"`
}

// AnalysisService runs AI critique and materializes findings into feedback
type AnalysisService interface {
	// Analyze moves the image to processing, calls the critic and persists one
	// feedback item per finding. The image ends completed or failed.
	Analyze(ctx context.Context, imageID string, opts CritiqueOptions) (*ImageAnalysis, error)

	// GetAnalysis returns the current analysis state and feedback of an image
	GetAnalysis(ctx context.Context, imageID string) (*ImageAnalysis, error)

	// RecoverStuck marks images left in processing longer than staleAfter as failed
	RecoverStuck(ctx context.Context, staleAfter time.Duration) (int, error)
}
