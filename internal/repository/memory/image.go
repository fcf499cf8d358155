package memory

import (
	"context"
	"fmt"
	"time"

	"designsight/internal/domain"
	"designsight/internal/domain/models"
)

// ImageRepository implements repositories.ImageRepository
type ImageRepository struct {
	s *Store
}

func cloneImage(img *models.Image) *models.Image {
	c := *img
	if img.AnalysisResult != nil {
		res := *img.AnalysisResult
		res.Raw = append([]byte(nil), img.AnalysisResult.Raw...)
		c.AnalysisResult = &res
	}
	if img.AnalysisStartedAt != nil {
		t := *img.AnalysisStartedAt
		c.AnalysisStartedAt = &t
	}
	return &c
}

func imageKey(img models.Image) (int64, string) {
	return img.CreatedAt.UnixNano(), img.ID
}

func (r *ImageRepository) Create(ctx context.Context, image *models.Image) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.images[image.ID]; ok {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("image %s already exists", image.ID),
			ResourceType: "image",
			ResourceID:   image.ID,
		}
	}
	r.s.images[image.ID] = cloneImage(image)
	return nil
}

func (r *ImageRepository) GetByID(ctx context.Context, id string) (*models.Image, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	img, ok := r.s.images[id]
	if !ok {
		return nil, domain.NewNotFound("image", id)
	}
	return cloneImage(img), nil
}

func (r *ImageRepository) List(ctx context.Context, filter models.ImageFilter) ([]models.Image, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []models.Image{}
	for _, img := range r.s.images {
		if filter.ProjectID != "" && img.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Status != "" && img.AnalysisStatus != filter.Status {
			continue
		}
		matched = append(matched, *cloneImage(img))
	}
	newestFirst(matched, imageKey)
	return paginate(matched, filter.Pagination), len(matched), nil
}

func (r *ImageRepository) UpdateAnalysis(ctx context.Context, image *models.Image) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.images[image.ID]
	if !ok {
		return domain.NewNotFound("image", image.ID)
	}
	updated := cloneImage(image)
	existing.AnalysisStatus = updated.AnalysisStatus
	existing.AnalysisResult = updated.AnalysisResult
	existing.AnalysisStartedAt = updated.AnalysisStartedAt
	existing.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *ImageRepository) ClaimAnalysis(ctx context.Context, image *models.Image, from models.AnalysisStatus, fromUpdatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.images[image.ID]
	if !ok {
		return domain.NewNotFound("image", image.ID)
	}
	if existing.AnalysisStatus != from || !existing.UpdatedAt.Equal(fromUpdatedAt) {
		return &domain.ConflictError{
			Message:      "image analysis state changed concurrently",
			ResourceType: "image",
			ResourceID:   image.ID,
		}
	}
	updated := cloneImage(image)
	existing.AnalysisStatus = updated.AnalysisStatus
	existing.AnalysisResult = updated.AnalysisResult
	existing.AnalysisStartedAt = updated.AnalysisStartedAt
	existing.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.images[id]; !ok {
		return domain.NewNotFound("image", id)
	}
	delete(r.s.images, id)
	return nil
}

func (r *ImageRepository) ListStuck(ctx context.Context, cutoff time.Time) ([]models.Image, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stuck := []models.Image{}
	for _, img := range r.s.images {
		if img.AnalysisStatus != models.AnalysisProcessing {
			continue
		}
		started := img.UpdatedAt
		if img.AnalysisStartedAt != nil {
			started = *img.AnalysisStartedAt
		}
		if started.Before(cutoff) {
			stuck = append(stuck, *cloneImage(img))
		}
	}
	oldestFirst(stuck, imageKey)
	return stuck, nil
}
