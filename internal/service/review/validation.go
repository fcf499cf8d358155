package review

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"designsight/internal/config"
	"designsight/internal/domain/models"
	"designsight/internal/domain/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ResourceValidator checks that the parent of a new record exists before the
// record is written. Stored references are plain ids with no foreign keys,
// so this is the only place the containment chain is enforced.
type ResourceValidator struct {
	imageRepo    repositories.ImageRepository
	feedbackRepo repositories.FeedbackRepository
	bounds       *BoundsCache
}

// NewResourceValidator creates a new resource validator
func NewResourceValidator(
	imageRepo repositories.ImageRepository,
	feedbackRepo repositories.FeedbackRepository,
	bounds *BoundsCache,
) *ResourceValidator {
	return &ResourceValidator{
		imageRepo:    imageRepo,
		feedbackRepo: feedbackRepo,
		bounds:       bounds,
	}
}

// ImageBounds returns the pixel dimensions of an image, served from the
// cache when possible. Returns domain.ErrNotFound for unknown images.
func (v *ResourceValidator) ImageBounds(ctx context.Context, imageID string) (models.Bounds, error) {
	if b, ok := v.bounds.Get(imageID); ok {
		return b, nil
	}
	image, err := v.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return models.Bounds{}, fmt.Errorf("invalid image: %w", err)
	}
	b := image.Bounds()
	v.bounds.Set(imageID, b)
	return b, nil
}

// ValidateFeedback ensures a feedback item exists
func (v *ResourceValidator) ValidateFeedback(ctx context.Context, feedbackID string) (*models.Feedback, error) {
	feedback, err := v.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, fmt.Errorf("invalid feedback: %w", err)
	}
	return feedback, nil
}

// notBlank rejects strings that are empty after trimming
func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return fmt.Errorf("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be blank")
	}
	return nil
}

// oneOf accepts values whose string form is one of the enum values. It
// works for plain strings, *string and named string types alike.
func oneOf[T ~string](values []T) validation.Rule {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return validation.By(func(value interface{}) error {
		v, isNil := validation.Indirect(value)
		if isNil || validation.IsEmpty(v) {
			return nil
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.String {
			return fmt.Errorf("must be a string")
		}
		if !slices.Contains(names, rv.String()) {
			return fmt.Errorf("must be one of: %s", strings.Join(names, ", "))
		}
		return nil
	})
}

// eachOneOf requires every element of a string slice to be a non-blank
// enum value
func eachOneOf[T ~string](values []T) validation.Rule {
	return validation.Each(validation.Required, validation.By(notBlank), oneOf(values))
}

// paginate applies the default page size and clamps to MaxPageSize
func paginate(page, limit int) models.Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = config.DefaultPageSize
	}
	if limit > config.MaxPageSize {
		limit = config.MaxPageSize
	}
	return models.Pagination{Page: page, Limit: limit}
}

func newPage[T any](items []T, total int, p models.Pagination) *models.Page[T] {
	if items == nil {
		items = []T{}
	}
	return &models.Page[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit}
}
