package services

import (
	"context"

	"designsight/internal/domain/models"
)

// ImageReport gathers everything an export renders for one image
type ImageReport struct {
	Image    *models.Image
	Project  *models.Project
	Feedback []models.Feedback
	// Comments maps feedback id to its non-deleted comments, oldest first
	Comments map[string][]models.Comment
	Stats    *models.FeedbackStats
}

// ReportService assembles export reports
type ReportService interface {
	BuildImageReport(ctx context.Context, imageID string) (*ImageReport, error)
}
