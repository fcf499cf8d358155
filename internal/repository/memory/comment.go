package memory

import (
	"context"
	"fmt"
	"slices"

	"designsight/internal/domain"
	"designsight/internal/domain/models"
)

// CommentRepository implements repositories.CommentRepository
type CommentRepository struct {
	s *Store
}

func cloneComment(c *models.Comment) *models.Comment {
	out := *c
	if c.ParentCommentID != nil {
		p := *c.ParentCommentID
		out.ParentCommentID = &p
	}
	out.Mentions = append([]models.Mention{}, c.Mentions...)
	out.Attachments = append([]models.Attachment{}, c.Attachments...)
	out.Reactions = append([]models.Reaction{}, c.Reactions...)
	out.EditHistory = append([]models.EditEntry{}, c.EditHistory...)
	return &out
}

func commentKey(c models.Comment) (int64, string) {
	return c.CreatedAt.UnixNano(), c.ID
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[c.ID]; ok {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("comment %s already exists", c.ID),
			ResourceType: "comment",
			ResourceID:   c.ID,
		}
	}
	r.s.comments[c.ID] = cloneComment(c)
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.NewNotFound("comment", id)
	}
	return cloneComment(c), nil
}

func (r *CommentRepository) List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []models.Comment{}
	for _, c := range r.s.comments {
		if filter.FeedbackID != "" && c.FeedbackID != filter.FeedbackID {
			continue
		}
		if filter.ParentCommentID != "" && (c.ParentCommentID == nil || *c.ParentCommentID != filter.ParentCommentID) {
			continue
		}
		if filter.AuthorRole != "" && c.Author.Role != filter.AuthorRole {
			continue
		}
		if !filter.IncludeDeleted && c.Status == models.CommentDeleted {
			continue
		}
		matched = append(matched, *cloneComment(c))
	}
	newestFirst(matched, commentKey)
	return paginate(matched, filter.Pagination), len(matched), nil
}

func (r *CommentRepository) ListByFeedback(ctx context.Context, feedbackID string) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []models.Comment{}
	for _, c := range r.s.comments {
		if c.FeedbackID == feedbackID {
			items = append(items, *cloneComment(c))
		}
	}
	oldestFirst(items, commentKey)
	return items, nil
}

func (r *CommentRepository) ListReplies(ctx context.Context, parentID string) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []models.Comment{}
	for _, c := range r.s.comments {
		if c.ParentCommentID != nil && *c.ParentCommentID == parentID {
			items = append(items, *cloneComment(c))
		}
	}
	oldestFirst(items, commentKey)
	return items, nil
}

func (r *CommentRepository) Update(ctx context.Context, c *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[c.ID]; !ok {
		return domain.NewNotFound("comment", c.ID)
	}
	r.s.comments[c.ID] = cloneComment(c)
	return nil
}

func (r *CommentRepository) DeleteByFeedback(ctx context.Context, feedbackIDs ...string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, c := range r.s.comments {
		if slices.Contains(feedbackIDs, c.FeedbackID) {
			delete(r.s.comments, id)
		}
	}
	return nil
}
