package repositories

import (
	"context"
	"time"

	"designsight/internal/domain/models"
)

// ImageRepository defines data access operations for uploaded images
type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error

	GetByID(ctx context.Context, id string) (*models.Image, error)

	// List retrieves images matching the filter, newest first
	List(ctx context.Context, filter models.ImageFilter) ([]models.Image, int, error)

	// UpdateAnalysis persists analysis_status, analysis_result,
	// analysis_started_at and updated_at
	UpdateAnalysis(ctx context.Context, image *models.Image) error

	// ClaimAnalysis writes the same fields as UpdateAnalysis, but only while
	// the stored image still has status from and updated_at fromUpdatedAt.
	// Otherwise it returns a ConflictError and writes nothing.
	ClaimAnalysis(ctx context.Context, image *models.Image, from models.AnalysisStatus, fromUpdatedAt time.Time) error

	// Delete physically removes the image record
	Delete(ctx context.Context, id string) error

	// ListStuck returns images in processing whose analysis started before cutoff
	ListStuck(ctx context.Context, cutoff time.Time) ([]models.Image, error)
}
