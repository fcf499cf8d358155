package services

import (
	"context"

	"designsight/internal/domain/models"
)

// CreateCommentRequest represents a new comment or reply
type CreateCommentRequest struct {
	FeedbackID      string              `json:"feedbackId"`
	ParentCommentID *string             `json:"parentCommentId,omitempty"`
	Author          models.Author       `json:"author"`
	Content         string              `json:"content"`
	Mentions        []models.Mention    `json:"mentions,omitempty"`
	Attachments     []models.Attachment `json:"attachments,omitempty"`
}

// UpdateCommentRequest edits a comment. Mentions and Attachments replace the
// stored lists when non-nil.
type UpdateCommentRequest struct {
	Content     string              `json:"content"`
	Reason      string              `json:"reason,omitempty"`
	Mentions    []models.Mention    `json:"mentions,omitempty"`
	Attachments []models.Attachment `json:"attachments,omitempty"`
}

// ListCommentsRequest filters the comment listing. Deleted comments are excluded.
type ListCommentsRequest struct {
	FeedbackID      string
	ParentCommentID string
	AuthorRole      string
	Page            int
	Limit           int
}

// ReactionRequest adds a reaction (Type set) or removes one (Type ignored)
type ReactionRequest struct {
	Type   string                `json:"type"`
	Author models.ReactionAuthor `json:"author"`
}

// CommentDetail is a comment with its direct replies and its depth in the thread
type CommentDetail struct {
	*models.Comment
	Replies []models.Comment `json:"replies"`
	Depth   int              `json:"depth"`
}

// CommentService defines business logic operations for comment threads
type CommentService interface {
	// CreateComment validates the author and, for replies, that the parent
	// belongs to the same feedback item
	CreateComment(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error)

	GetComment(ctx context.Context, id string) (*CommentDetail, error)

	ListComments(ctx context.Context, req *ListCommentsRequest) (*models.Page[models.Comment], error)

	// ListReplies returns the direct replies of a comment
	ListReplies(ctx context.Context, id string) ([]models.Comment, error)

	// GetCommentTree assembles every comment of a feedback item into a forest
	GetCommentTree(ctx context.Context, feedbackID string) ([]*models.CommentNode, error)

	UpdateComment(ctx context.Context, id string, req *UpdateCommentRequest) (*models.Comment, error)

	// DeleteComment tombstones a comment; replies stay in place
	DeleteComment(ctx context.Context, id string) (*models.Comment, error)

	AddReaction(ctx context.Context, id string, req *ReactionRequest) (*models.Comment, error)

	RemoveReaction(ctx context.Context, id, authorName string) (*models.Comment, error)
}
