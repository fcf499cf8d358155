package review

import (
	"context"
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

// feedbackService implements the FeedbackService interface
type feedbackService struct {
	feedbackRepo repositories.FeedbackRepository
	commentRepo  repositories.CommentRepository
	projectRepo  repositories.ProjectRepository
	txManager    repositories.TransactionManager
	validator    *ResourceValidator
	policy       StatusPolicy
	logger       *slog.Logger
	now          func() time.Time
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(
	feedbackRepo repositories.FeedbackRepository,
	commentRepo repositories.CommentRepository,
	projectRepo repositories.ProjectRepository,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	policy StatusPolicy,
	logger *slog.Logger,
) services.FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		commentRepo:  commentRepo,
		projectRepo:  projectRepo,
		txManager:    txManager,
		validator:    validator,
		policy:       policy,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateFeedback creates a manually authored feedback item
func (s *feedbackService) CreateFeedback(ctx context.Context, req *services.CreateFeedbackRequest) (*models.Feedback, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	bounds, err := s.validator.ImageBounds(ctx, req.ImageID)
	if err != nil {
		return nil, err
	}
	if err := CheckBounds(*req.Coordinates, bounds); err != nil {
		return nil, err
	}

	priority := models.DefaultPriority
	if req.Priority != nil {
		priority = *req.Priority
	}

	now := s.now().UTC()
	feedback := &models.Feedback{
		ID:              uuid.NewString(),
		ImageID:         req.ImageID,
		Category:        models.Category(req.Category),
		Severity:        models.Severity(req.Severity),
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		Coordinates:     *req.Coordinates,
		TargetRoles:     uniqueRoles(req.TargetRoles),
		Recommendations: uniqueStrings(req.Recommendations),
		Status:          models.FeedbackOpen,
		Priority:        priority,
		Tags:            uniqueStrings(req.Tags),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, err
	}

	s.logger.Info("feedback created",
		"id", feedback.ID,
		"image_id", feedback.ImageID,
		"category", feedback.Category,
		"severity", feedback.Severity,
	)

	return feedback, nil
}

// GetFeedback retrieves a feedback item by ID
func (s *feedbackService) GetFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	return s.feedbackRepo.GetByID(ctx, id)
}

// ListFeedback lists feedback newest first
func (s *feedbackService) ListFeedback(ctx context.Context, req *services.ListFeedbackRequest) (*models.Page[models.Feedback], error) {
	filter, err := s.buildFilter(ctx, req)
	if err != nil {
		return nil, err
	}
	filter.Sort = models.SortNewest
	return s.list(ctx, filter)
}

// ListForRole lists open feedback for a role, highest priority first
func (s *feedbackService) ListForRole(ctx context.Context, req *services.ListFeedbackRequest) (*models.Page[models.Feedback], error) {
	if req.Role == "" {
		return nil, domain.NewValidation("role", "cannot be blank")
	}
	if req.Status == "" {
		req.Status = string(models.FeedbackOpen)
	}
	filter, err := s.buildFilter(ctx, req)
	if err != nil {
		return nil, err
	}
	filter.Sort = models.SortPriority
	return s.list(ctx, filter)
}

func (s *feedbackService) list(ctx context.Context, filter models.FeedbackFilter) (*models.Page[models.Feedback], error) {
	items, total, err := s.feedbackRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, filter.Pagination), nil
}

// buildFilter validates list parameters and resolves projectId to the
// project's image ids
func (s *feedbackService) buildFilter(ctx context.Context, req *services.ListFeedbackRequest) (models.FeedbackFilter, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Category, oneOf(models.Categories)),
		validation.Field(&req.Severity, oneOf(models.Severities)),
		validation.Field(&req.Role, oneOf(models.TargetRoles)),
		validation.Field(&req.Status, oneOf(models.FeedbackStatuses)),
	)
	if err != nil {
		return models.FeedbackFilter{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	filter := models.FeedbackFilter{
		Category:   models.Category(req.Category),
		Severity:   models.Severity(req.Severity),
		Role:       models.Role(req.Role),
		Status:     models.FeedbackStatus(req.Status),
		Pagination: paginate(req.Page, req.Limit),
	}

	if req.ProjectID != "" {
		project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
		if err != nil {
			return models.FeedbackFilter{}, err
		}
		filter.ImageIDs = append([]string{}, project.ImageIDs...)
		if req.ImageID != "" {
			filter.ImageIDs = intersect(filter.ImageIDs, req.ImageID)
		}
	} else if req.ImageID != "" {
		filter.ImageIDs = []string{req.ImageID}
	}

	return filter, nil
}

func intersect(ids []string, id string) []string {
	for _, candidate := range ids {
		if candidate == id {
			return []string{id}
		}
	}
	return []string{}
}

// Stats counts an image's feedback by category, severity and status
func (s *feedbackService) Stats(ctx context.Context, imageID string) (*models.FeedbackStats, error) {
	if _, err := s.validator.ImageBounds(ctx, imageID); err != nil {
		return nil, err
	}
	items, err := s.feedbackRepo.ListByImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	return models.NewFeedbackStats(imageID, items), nil
}

// UpdateFeedback applies a partial update. A new region is re-checked
// against the image bounds and status changes go through the policy.
func (s *feedbackService) UpdateFeedback(ctx context.Context, id string, req *services.UpdateFeedbackRequest) (*models.Feedback, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	feedback, err := s.feedbackRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Coordinates != nil {
		bounds, err := s.validator.ImageBounds(ctx, feedback.ImageID)
		if err != nil {
			return nil, err
		}
		if err := CheckBounds(*req.Coordinates, bounds); err != nil {
			return nil, err
		}
		feedback.Coordinates = *req.Coordinates
	}

	now := s.now().UTC()
	if req.Status != nil {
		next := models.FeedbackStatus(*req.Status)
		if !s.policy.Allow(feedback.Status, next) {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("feedback status cannot move from %s to %s", feedback.Status, next),
				ResourceType: "feedback",
				ResourceID:   feedback.ID,
			}
		}
		feedback.SetStatus(next, now)
	}
	if req.Category != nil {
		feedback.Category = models.Category(*req.Category)
	}
	if req.Severity != nil {
		feedback.Severity = models.Severity(*req.Severity)
	}
	if req.Title != nil {
		feedback.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		feedback.Description = strings.TrimSpace(*req.Description)
	}
	if req.TargetRoles != nil {
		feedback.TargetRoles = uniqueRoles(req.TargetRoles)
	}
	if req.Recommendations != nil {
		feedback.Recommendations = uniqueStrings(req.Recommendations)
	}
	if req.Priority != nil {
		feedback.Priority = *req.Priority
	}
	if req.Tags != nil {
		feedback.Tags = uniqueStrings(req.Tags)
	}
	feedback.UpdatedAt = now

	if err := s.feedbackRepo.Update(ctx, feedback); err != nil {
		return nil, err
	}

	s.logger.Info("feedback updated",
		"id", feedback.ID,
		"status", feedback.Status,
	)

	return feedback, nil
}

// DeleteFeedback hard-deletes a feedback item and its comments
func (s *feedbackService) DeleteFeedback(ctx context.Context, id string) error {
	if _, err := s.feedbackRepo.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.commentRepo.DeleteByFeedback(txCtx, id); err != nil {
			return err
		}
		return s.feedbackRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("feedback deleted", "id", id)

	return nil
}

// validateCreateRequest validates a create feedback request
func (s *feedbackService) validateCreateRequest(req *services.CreateFeedbackRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ImageID, validation.Required),
		validation.Field(&req.Category, validation.Required, oneOf(models.Categories)),
		validation.Field(&req.Severity, validation.Required, oneOf(models.Severities)),
		validation.Field(&req.Title,
			validation.Required,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxFeedbackTitleLength),
		),
		validation.Field(&req.Description,
			validation.Required,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxFeedbackDescriptionLength),
		),
		validation.Field(&req.Coordinates, validation.NotNil, validation.By(validateRegion)),
		validation.Field(&req.TargetRoles, validation.Required, eachOneOf(models.TargetRoles)),
		validation.Field(&req.Priority, validation.By(validatePriority)),
	)
}

// validateUpdateRequest validates an update feedback request
func (s *feedbackService) validateUpdateRequest(req *services.UpdateFeedbackRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Category, oneOf(models.Categories)),
		validation.Field(&req.Severity, oneOf(models.Severities)),
		validation.Field(&req.Title,
			validation.NilOrNotEmpty,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxFeedbackTitleLength),
		),
		validation.Field(&req.Description,
			validation.NilOrNotEmpty,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxFeedbackDescriptionLength),
		),
		validation.Field(&req.Coordinates, validation.By(validateRegion)),
		validation.Field(&req.TargetRoles,
			validation.When(req.TargetRoles != nil, validation.Required),
			eachOneOf(models.TargetRoles),
		),
		validation.Field(&req.Status, oneOf(models.FeedbackStatuses)),
		validation.Field(&req.Priority, validation.By(validatePriority)),
	)
}

// validateRegion enforces x,y >= 0 and width,height >= 1
func validateRegion(value interface{}) error {
	c, ok := value.(*models.Coordinates)
	if !ok || c == nil {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.X, validation.Min(0.0)),
		validation.Field(&c.Y, validation.Min(0.0)),
		validation.Field(&c.Width, validation.Required, validation.Min(1.0)),
		validation.Field(&c.Height, validation.Required, validation.Min(1.0)),
	)
}

// validatePriority enforces 1..5 when a priority is given
func validatePriority(value interface{}) error {
	p, ok := value.(*int)
	if !ok || p == nil {
		return nil
	}
	if *p < 1 || *p > 5 {
		return fmt.Errorf("must be between 1 and 5")
	}
	return nil
}
