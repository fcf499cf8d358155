package repositories

import (
	"context"

	"designsight/internal/domain/models"
)

// CommentRepository defines data access operations for comments.
// Comments are stored flat; parent links are plain id references.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error

	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// List retrieves comments matching the filter, newest first
	List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, int, error)

	// ListByFeedback retrieves every comment of a feedback item, including
	// deleted ones, ordered by created_at ASC then id
	ListByFeedback(ctx context.Context, feedbackID string) ([]models.Comment, error)

	// ListReplies retrieves the direct replies of a comment, oldest first
	ListReplies(ctx context.Context, parentID string) ([]models.Comment, error)

	// Update persists content, status, reactions, mentions, attachments,
	// edit history and updated_at
	Update(ctx context.Context, comment *models.Comment) error

	// DeleteByFeedback physically removes all comments of the given feedback items
	DeleteByFeedback(ctx context.Context, feedbackIDs ...string) error
}
