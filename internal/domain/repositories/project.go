package repositories

import (
	"context"
	"time"

	"designsight/internal/domain/models"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create inserts a new project. ID and timestamps are set by the caller.
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID regardless of status
	GetByID(ctx context.Context, id string) (*models.Project, error)

	// List retrieves projects matching the filter, ordered by updated_at DESC.
	// Returns the page and the total match count.
	List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error)

	// Update persists name, description, status and updated_at
	Update(ctx context.Context, project *models.Project) error

	// AddImage appends an image id to the project's ordered image list
	AddImage(ctx context.Context, projectID, imageID string, at time.Time) error

	// RemoveImage removes an image id from the project's image list
	RemoveImage(ctx context.Context, projectID, imageID string, at time.Time) error
}
