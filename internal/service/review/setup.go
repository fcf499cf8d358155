package review

import (
	"log/slog"
	"time"

	"designsight/internal/domain/repositories"
	"designsight/internal/domain/services"
)

// Options tunes the review services
type Options struct {
	StatusPolicy   string
	StaleAfter     time.Duration
	MaxUploadBytes int64
	CacheSize      int
	CacheTTL       time.Duration
}

// Services holds all review services
type Services struct {
	Projects services.ProjectService
	Images   services.ImageService
	Feedback services.FeedbackService
	Comments services.CommentService
	Analysis services.AnalysisService
	Reports  services.ReportService
}

// SetupServices wires the review services over one repository set
func SetupServices(
	repos *repositories.Set,
	blobs services.BlobStore,
	critic services.Critic,
	opts Options,
	logger *slog.Logger,
) *Services {
	bounds := NewBoundsCache(opts.CacheSize, opts.CacheTTL)
	transitions := AnalysisTransitions{StaleAfter: opts.StaleAfter}
	validator := NewResourceValidator(repos.Images, repos.Feedback, bounds)

	return &Services{
		Projects: NewProjectService(repos.Projects, logger),
		Images: NewImageService(ImageServiceConfig{
			ProjectRepo:    repos.Projects,
			ImageRepo:      repos.Images,
			FeedbackRepo:   repos.Feedback,
			CommentRepo:    repos.Comments,
			TxManager:      repos.TxManager,
			Blobs:          blobs,
			Bounds:         bounds,
			Transitions:    transitions,
			MaxUploadBytes: opts.MaxUploadBytes,
			Logger:         logger,
		}),
		Feedback: NewFeedbackService(
			repos.Feedback,
			repos.Comments,
			repos.Projects,
			repos.TxManager,
			validator,
			NewStatusPolicy(opts.StatusPolicy),
			logger,
		),
		Comments: NewCommentService(repos.Comments, validator, logger),
		Analysis: NewAnalysisService(repos.Images, repos.Feedback, blobs, critic, transitions, logger),
		Reports:  NewReportService(repos.Projects, repos.Images, repos.Feedback, repos.Comments),
	}
}
