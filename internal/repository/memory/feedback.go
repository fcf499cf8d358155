package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"designsight/internal/domain"
	"designsight/internal/domain/models"
)

// FeedbackRepository implements repositories.FeedbackRepository
type FeedbackRepository struct {
	s *Store
}

func cloneFeedback(f *models.Feedback) *models.Feedback {
	c := *f
	c.TargetRoles = append([]models.Role{}, f.TargetRoles...)
	c.Recommendations = append([]string{}, f.Recommendations...)
	c.Tags = append([]string{}, f.Tags...)
	if f.ResolvedAt != nil {
		t := *f.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}

func feedbackKey(f models.Feedback) (int64, string) {
	return f.CreatedAt.UnixNano(), f.ID
}

func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.feedback[f.ID]; ok {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("feedback %s already exists", f.ID),
			ResourceType: "feedback",
			ResourceID:   f.ID,
		}
	}
	r.s.feedback[f.ID] = cloneFeedback(f)
	return nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.feedback[id]
	if !ok {
		return nil, domain.NewNotFound("feedback", id)
	}
	return cloneFeedback(f), nil
}

func (r *FeedbackRepository) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []models.Feedback{}
	for _, f := range r.s.feedback {
		if filter.ImageIDs != nil && !slices.Contains(filter.ImageIDs, f.ImageID) {
			continue
		}
		if filter.Category != "" && f.Category != filter.Category {
			continue
		}
		if filter.Severity != "" && f.Severity != filter.Severity {
			continue
		}
		if filter.Role != "" && !slices.Contains(f.TargetRoles, filter.Role) {
			continue
		}
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		matched = append(matched, *cloneFeedback(f))
	}

	newestFirst(matched, feedbackKey)
	if filter.Sort == models.SortPriority {
		slices.SortStableFunc(matched, func(a, b models.Feedback) int {
			return cmp.Compare(b.Priority, a.Priority)
		})
	}
	return paginate(matched, filter.Pagination), len(matched), nil
}

func (r *FeedbackRepository) ListByImage(ctx context.Context, imageID string) ([]models.Feedback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []models.Feedback{}
	for _, f := range r.s.feedback {
		if f.ImageID == imageID {
			items = append(items, *cloneFeedback(f))
		}
	}
	newestFirst(items, feedbackKey)
	return items, nil
}

func (r *FeedbackRepository) Update(ctx context.Context, f *models.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.feedback[f.ID]; !ok {
		return domain.NewNotFound("feedback", f.ID)
	}
	r.s.feedback[f.ID] = cloneFeedback(f)
	return nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.feedback[id]; !ok {
		return domain.NewNotFound("feedback", id)
	}
	delete(r.s.feedback, id)
	return nil
}

func (r *FeedbackRepository) DeleteByImage(ctx context.Context, imageID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := []string{}
	for id, f := range r.s.feedback {
		if f.ImageID == imageID {
			ids = append(ids, id)
			delete(r.s.feedback, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}
