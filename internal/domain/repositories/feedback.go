package repositories

import (
	"context"

	"designsight/internal/domain/models"
)

// FeedbackRepository defines data access operations for feedback items
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error

	GetByID(ctx context.Context, id string) (*models.Feedback, error)

	// List retrieves feedback matching the filter in the filter's sort order
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error)

	// ListByImage retrieves all feedback of an image, newest first
	ListByImage(ctx context.Context, imageID string) ([]models.Feedback, error)

	// Update persists every mutable field
	Update(ctx context.Context, feedback *models.Feedback) error

	Delete(ctx context.Context, id string) error

	// DeleteByImage removes every feedback item of an image and returns their ids
	DeleteByImage(ctx context.Context, imageID string) ([]string, error)
}
