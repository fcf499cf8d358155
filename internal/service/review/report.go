package review

import (
	"context"
	"errors"

	"designsight/internal/domain"
	"designsight/internal/domain/models"
	"designsight/internal/domain/repositories"
	"designsight/internal/domain/services"
)

// reportService implements the ReportService interface
type reportService struct {
	projectRepo  repositories.ProjectRepository
	imageRepo    repositories.ImageRepository
	feedbackRepo repositories.FeedbackRepository
	commentRepo  repositories.CommentRepository
}

// NewReportService creates a new report service
func NewReportService(
	projectRepo repositories.ProjectRepository,
	imageRepo repositories.ImageRepository,
	feedbackRepo repositories.FeedbackRepository,
	commentRepo repositories.CommentRepository,
) services.ReportService {
	return &reportService{
		projectRepo:  projectRepo,
		imageRepo:    imageRepo,
		feedbackRepo: feedbackRepo,
		commentRepo:  commentRepo,
	}
}

// BuildImageReport loads an image, its project, feedback and comments.
// A missing project is tolerated so orphaned images can still be exported.
func (s *reportService) BuildImageReport(ctx context.Context, imageID string) (*services.ImageReport, error) {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, image.ProjectID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	feedback, err := s.feedbackRepo.ListByImage(ctx, imageID)
	if err != nil {
		return nil, err
	}

	comments := make(map[string][]models.Comment, len(feedback))
	for _, f := range feedback {
		all, err := s.commentRepo.ListByFeedback(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		visible := make([]models.Comment, 0, len(all))
		for _, c := range all {
			if c.Status != models.CommentDeleted {
				visible = append(visible, c)
			}
		}
		sortCommentsOldestFirst(visible)
		comments[f.ID] = visible
	}

	return &services.ImageReport{
		Image:    image,
		Project:  project,
		Feedback: orEmpty(feedback),
		Comments: comments,
		Stats:    models.NewFeedbackStats(imageID, feedback),
	}, nil
}
