package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"designsight/internal/config"
	"designsight/internal/domain"
	"designsight/internal/domain/models"
	"designsight/internal/domain/repositories"
	"designsight/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// commentService implements the CommentService interface
type commentService struct {
	commentRepo repositories.CommentRepository
	validator   *ResourceValidator
	logger      *slog.Logger
	now         func() time.Time
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repositories.CommentRepository,
	validator *ResourceValidator,
	logger *slog.Logger,
) services.CommentService {
	return &commentService{
		commentRepo: commentRepo,
		validator:   validator,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateComment creates a top-level comment or a reply
func (s *commentService) CreateComment(ctx context.Context, req *services.CreateCommentRequest) (*models.Comment, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.validator.ValidateFeedback(ctx, req.FeedbackID); err != nil {
		return nil, err
	}

	parentID := trimOptional(req.ParentCommentID)
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("parent comment: %w", err)
		}
		if parent.FeedbackID != req.FeedbackID {
			return nil, &domain.ConflictError{
				Message:      "parent comment belongs to a different feedback item",
				ResourceType: "comment",
				ResourceID:   parent.ID,
			}
		}
	}

	now := s.now().UTC()
	comment := &models.Comment{
		ID:              uuid.NewString(),
		FeedbackID:      req.FeedbackID,
		ParentCommentID: parentID,
		Author: models.Author{
			Name:   strings.TrimSpace(req.Author.Name),
			Role:   req.Author.Role,
			Avatar: strings.TrimSpace(req.Author.Avatar),
		},
		Content:     strings.TrimSpace(req.Content),
		Mentions:    orEmpty(req.Mentions),
		Attachments: orEmpty(req.Attachments),
		Reactions:   []models.Reaction{},
		Status:      models.CommentActive,
		EditHistory: []models.EditEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		"id", comment.ID,
		"feedback_id", comment.FeedbackID,
		"is_reply", parentID != nil,
		"author_role", comment.Author.Role,
	)

	return comment, nil
}

// GetComment retrieves a comment with its direct replies and thread depth
func (s *commentService) GetComment(ctx context.Context, id string) (*services.CommentDetail, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	replies, err := s.commentRepo.ListReplies(ctx, id)
	if err != nil {
		return nil, err
	}

	depth, err := ThreadDepth(ctx, comment, s.findParent)
	if err != nil {
		return nil, err
	}

	return &services.CommentDetail{Comment: comment, Replies: orEmpty(replies), Depth: depth}, nil
}

// findParent resolves a parent for ThreadDepth, reporting a missing parent as nil
func (s *commentService) findParent(ctx context.Context, parentID string) (*models.Comment, error) {
	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return parent, err
}

// ListComments lists non-deleted comments, newest first
func (s *commentService) ListComments(ctx context.Context, req *services.ListCommentsRequest) (*models.Page[models.Comment], error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.AuthorRole, oneOf(models.AuthorRoles)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	p := paginate(req.Page, req.Limit)
	comments, total, err := s.commentRepo.List(ctx, models.CommentFilter{
		FeedbackID:      req.FeedbackID,
		ParentCommentID: req.ParentCommentID,
		AuthorRole:      models.Role(req.AuthorRole),
		Pagination:      p,
	})
	if err != nil {
		return nil, err
	}

	return newPage(comments, total, p), nil
}

// ListReplies returns the direct replies of a comment, oldest first
func (s *commentService) ListReplies(ctx context.Context, id string) ([]models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	replies, err := s.commentRepo.ListReplies(ctx, id)
	if err != nil {
		return nil, err
	}
	return orEmpty(replies), nil
}

// GetCommentTree builds the reply forest of a feedback item. Deleted
// comments stay in the tree as tombstones so their replies keep a parent.
func (s *commentService) GetCommentTree(ctx context.Context, feedbackID string) ([]*models.CommentNode, error) {
	if _, err := s.validator.ValidateFeedback(ctx, feedbackID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByFeedback(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	sortCommentsOldestFirst(comments)

	tree := BuildCommentTree(comments)

	s.logger.Debug("comment tree built",
		"feedback_id", feedbackID,
		"comment_count", len(comments),
		"root_count", len(tree),
	)

	return tree, nil
}

// UpdateComment edits content, recording the previous version
func (s *commentService) UpdateComment(ctx context.Context, id string, req *services.UpdateCommentRequest) (*models.Comment, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Content,
			validation.Required,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxCommentLength),
		),
		validation.Field(&req.Reason, validation.RuneLength(0, 255)),
		validation.Field(&req.Mentions, validation.By(validateMentions)),
		validation.Field(&req.Attachments, validation.By(validateAttachments)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.Status == models.CommentDeleted {
		return nil, &domain.ConflictError{
			Message:      "cannot edit a deleted comment",
			ResourceType: "comment",
			ResourceID:   comment.ID,
		}
	}

	comment.Edit(strings.TrimSpace(req.Content), strings.TrimSpace(req.Reason), s.now().UTC())
	if req.Mentions != nil {
		comment.Mentions = req.Mentions
	}
	if req.Attachments != nil {
		comment.Attachments = req.Attachments
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment edited",
		"id", comment.ID,
		"revisions", len(comment.EditHistory),
	)

	return comment, nil
}

// DeleteComment tombstones a comment. Deleting twice is a no-op.
func (s *commentService) DeleteComment(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.Status == models.CommentDeleted {
		return comment, nil
	}

	comment.SoftDelete(s.now().UTC())

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment deleted", "id", id, "feedback_id", comment.FeedbackID)

	return comment, nil
}

// AddReaction adds or replaces the author's reaction
func (s *commentService) AddReaction(ctx context.Context, id string, req *services.ReactionRequest) (*models.Comment, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Type, validation.Required, oneOf(models.ReactionTypes)),
		validation.Field(&req.Author, validation.By(validateReactionAuthor)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.Status == models.CommentDeleted {
		return nil, &domain.ConflictError{
			Message:      "cannot react to a deleted comment",
			ResourceType: "comment",
			ResourceID:   comment.ID,
		}
	}

	now := s.now().UTC()
	author := models.ReactionAuthor{Name: strings.TrimSpace(req.Author.Name), Role: req.Author.Role}
	comment.AddReaction(models.ReactionType(req.Type), author, now)
	comment.UpdatedAt = now

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// RemoveReaction removes every reaction by authorName
func (s *commentService) RemoveReaction(ctx context.Context, id, authorName string) (*models.Comment, error) {
	authorName = strings.TrimSpace(authorName)
	if authorName == "" {
		return nil, domain.NewValidation("authorName", "cannot be blank")
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := len(comment.Reactions)
	comment.RemoveReaction(authorName)
	if len(comment.Reactions) == before {
		return comment, nil
	}
	comment.UpdatedAt = s.now().UTC()

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// validateCreateRequest validates a create comment request
func (s *commentService) validateCreateRequest(req *services.CreateCommentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.FeedbackID, validation.Required),
		validation.Field(&req.Author, validation.By(validateAuthor)),
		validation.Field(&req.Content,
			validation.Required,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxCommentLength),
		),
		validation.Field(&req.Mentions, validation.By(validateMentions)),
		validation.Field(&req.Attachments, validation.By(validateAttachments)),
	)
}

func validateAuthor(value interface{}) error {
	a, ok := value.(models.Author)
	if !ok {
		return fmt.Errorf("invalid author")
	}
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required, validation.By(notBlank), validation.RuneLength(1, config.MaxAuthorNameLength)),
		validation.Field(&a.Role, validation.Required, oneOf(models.AuthorRoles)),
	)
}

func validateReactionAuthor(value interface{}) error {
	a, ok := value.(models.ReactionAuthor)
	if !ok {
		return fmt.Errorf("invalid author")
	}
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required, validation.By(notBlank), validation.RuneLength(1, config.MaxAuthorNameLength)),
		validation.Field(&a.Role, oneOf(models.AuthorRoles)),
	)
}

func validateMentions(value interface{}) error {
	mentions, _ := value.([]models.Mention)
	for i := range mentions {
		m := &mentions[i]
		err := validation.ValidateStruct(m,
			validation.Field(&m.UserID, validation.Required),
			validation.Field(&m.Name, validation.Required),
		)
		if err != nil {
			return fmt.Errorf("mention %d: %v", i, err)
		}
	}
	return nil
}

func validateAttachments(value interface{}) error {
	attachments, _ := value.([]models.Attachment)
	for i := range attachments {
		a := &attachments[i]
		err := validation.ValidateStruct(a,
			validation.Field(&a.Filename, validation.Required),
			validation.Field(&a.URL, validation.Required),
			validation.Field(&a.Type, validation.Required, oneOf(models.AttachmentTypes)),
		)
		if err != nil {
			return fmt.Errorf("attachment %d: %v", i, err)
		}
	}
	return nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
