package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"designsight/internal/domain"
	"designsight/internal/domain/models"
)

// ProjectRepository implements repositories.ProjectRepository
type ProjectRepository struct {
	s *Store
}

func cloneProject(p *models.Project) *models.Project {
	c := *p
	c.ImageIDs = append([]string{}, p.ImageIDs...)
	if p.Description != nil {
		d := *p.Description
		c.Description = &d
	}
	return &c
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[project.ID]; ok {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("project %s already exists", project.ID),
			ResourceType: "project",
			ResourceID:   project.ID,
		}
	}
	r.s.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.NewNotFound("project", id)
	}
	return cloneProject(p), nil
}

func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []models.Project{}
	for _, p := range r.s.projects {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		matched = append(matched, *cloneProject(p))
	}
	slices.SortFunc(matched, func(a, b models.Project) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.projects[project.ID]
	if !ok {
		return domain.NewNotFound("project", project.ID)
	}
	updated := cloneProject(project)
	// image_ids is owned by AddImage and RemoveImage
	updated.ImageIDs = existing.ImageIDs
	r.s.projects[project.ID] = updated
	return nil
}

func (r *ProjectRepository) AddImage(ctx context.Context, projectID, imageID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[projectID]
	if !ok {
		return domain.NewNotFound("project", projectID)
	}
	p.AddImage(imageID, at)
	return nil
}

func (r *ProjectRepository) RemoveImage(ctx context.Context, projectID, imageID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[projectID]
	if !ok {
		return domain.NewNotFound("project", projectID)
	}
	p.RemoveImage(imageID, at)
	return nil
}
