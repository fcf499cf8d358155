package services

import (
	"context"

	"designsight/internal/domain/models"
)

// CreateFeedbackRequest represents a manually authored feedback item
type CreateFeedbackRequest struct {
	ImageID         string              `json:"imageId"`
	Category        string              `json:"category"`
	Severity        string              `json:"severity"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Coordinates     *models.Coordinates `json:"coordinates"`
	TargetRoles     []string            `json:"targetRoles"`
	Recommendations []string            `json:"recommendations,omitempty"`
	Priority        *int                `json:"priority,omitempty"`
	Tags            []string            `json:"tags,omitempty"`
}

// UpdateFeedbackRequest is a partial update. Nil fields are left unchanged.
type UpdateFeedbackRequest struct {
	Category        *string             `json:"category,omitempty"`
	Severity        *string             `json:"severity,omitempty"`
	Title           *string             `json:"title,omitempty"`
	Description     *string             `json:"description,omitempty"`
	Coordinates     *models.Coordinates `json:"coordinates,omitempty"`
	TargetRoles     []string            `json:"targetRoles,omitempty"`
	Recommendations []string            `json:"recommendations,omitempty"`
	Status          *string             `json:"status,omitempty"`
	Priority        *int                `json:"priority,omitempty"`
	Tags            []string            `json:"tags,omitempty"`
}

// ListFeedbackRequest filters the feedback listing
type ListFeedbackRequest struct {
	ImageID   string
	ProjectID string
	Category  string
	Severity  string
	Role      string
	Status    string
	Page      int
	Limit     int
}

// FeedbackService defines business logic operations for feedback items
type FeedbackService interface {
	// CreateFeedback validates fields and the region against the image bounds
	CreateFeedback(ctx context.Context, req *CreateFeedbackRequest) (*models.Feedback, error)

	GetFeedback(ctx context.Context, id string) (*models.Feedback, error)

	// ListFeedback lists feedback newest first
	ListFeedback(ctx context.Context, req *ListFeedbackRequest) (*models.Page[models.Feedback], error)

	// ListForRole lists feedback targeting a role, highest priority first.
	// Status defaults to open.
	ListForRole(ctx context.Context, req *ListFeedbackRequest) (*models.Page[models.Feedback], error)

	// Stats counts an image's feedback by category, severity and status
	Stats(ctx context.Context, imageID string) (*models.FeedbackStats, error)

	UpdateFeedback(ctx context.Context, id string, req *UpdateFeedbackRequest) (*models.Feedback, error)

	// DeleteFeedback hard-deletes the item and its comments
	DeleteFeedback(ctx context.Context, id string) error
}
