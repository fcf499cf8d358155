package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"designsight/internal/domain"
	"designsight/internal/domain/models"
	"designsight/internal/domain/repositories"
	"designsight/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"
)

// persistConcurrency bounds parallel feedback inserts for one analysis.
const persistConcurrency = 4

var (
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "designsight_analyses_total",
			Help: "Image analyses by critic and outcome.",
		},
		[]string{"critic", "outcome"},
	)
	analysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "designsight_analysis_duration_seconds",
			Help:    "Time spent in the critic per analysis.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"critic"},
	)
	findingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "designsight_findings_persisted_total",
		Help: "Feedback items materialized from critic findings.",
	})
)

// analysisService implements the AnalysisService interface
type analysisService struct {
	imageRepo    repositories.ImageRepository
	feedbackRepo repositories.FeedbackRepository
	blobs        services.BlobStore
	critic       services.Critic
	transitions  AnalysisTransitions
	logger       *slog.Logger
	now          func() time.Time
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	imageRepo repositories.ImageRepository,
	feedbackRepo repositories.FeedbackRepository,
	blobs services.BlobStore,
	critic services.Critic,
	transitions AnalysisTransitions,
	logger *slog.Logger,
) services.AnalysisService {
	return &analysisService{
		imageRepo:    imageRepo,
		feedbackRepo: feedbackRepo,
		blobs:        blobs,
		critic:       critic,
		transitions:  transitions,
		logger:       logger,
		now:          time.Now,
	}
}

// Analyze runs the critic on an image and stores its findings as feedback
func (s *analysisService) Analyze(ctx context.Context, imageID string, opts services.CritiqueOptions) (*services.ImageAnalysis, error) {
	opts = normalizeOptions(opts)
	err := validation.ValidateStruct(&opts,
		validation.Field(&opts.Role, validation.RuneLength(0, 50)),
		validation.Field(&opts.ProjectType, validation.RuneLength(0, 100)),
		validation.Field(&opts.FocusAreas, validation.Length(0, 10), validation.Each(validation.RuneLength(1, 100))),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.transitions.Check(image, models.AnalysisProcessing, now); err != nil {
		return nil, err
	}
	from, fromUpdatedAt := image.AnalysisStatus, image.UpdatedAt
	applyAnalysisStatus(image, models.AnalysisProcessing, "", now)
	if err := s.imageRepo.ClaimAnalysis(ctx, image, from, fromUpdatedAt); err != nil {
		return nil, err
	}

	s.logger.Info("image analysis started",
		"image_id", image.ID,
		"critic", s.critic.Name(),
		"role", opts.Role,
		"project_type", opts.ProjectType,
	)

	data, err := s.readBlob(image.StoragePath)
	if err != nil {
		s.fail(ctx, image, err.Error())
		return nil, err
	}

	start := time.Now()
	result := s.critic.Analyze(ctx, &services.CritiqueImage{
		Data:     data,
		MimeType: image.Metadata.MimeType,
		Width:    image.Metadata.Width,
		Height:   image.Metadata.Height,
	}, opts)
	analysisDuration.WithLabelValues(s.critic.Name()).Observe(time.Since(start).Seconds())

	if !result.Success {
		analysesTotal.WithLabelValues(s.critic.Name(), "critic_failed").Inc()
		image.AnalysisResult = &models.AnalysisResult{Raw: result.Raw, Model: result.Model}
		s.fail(ctx, image, result.Error)
		return nil, &domain.ExternalAdapterError{Adapter: s.critic.Name(), Err: errors.New(result.Error)}
	}

	feedback, err := s.persistFindings(ctx, image, result.Findings)
	if err != nil {
		analysesTotal.WithLabelValues(s.critic.Name(), "persist_failed").Inc()
		s.fail(ctx, image, "failed to store findings: "+err.Error())
		return nil, err
	}

	done := s.now().UTC()
	applyAnalysisStatus(image, models.AnalysisCompleted, "", done)
	image.AnalysisResult = &models.AnalysisResult{
		Raw:          result.Raw,
		Summary:      result.Summary,
		OverallScore: result.OverallScore,
		Model:        result.Model,
		ProcessedAt:  done,
	}
	if err := s.imageRepo.UpdateAnalysis(ctx, image); err != nil {
		return nil, err
	}

	analysesTotal.WithLabelValues(s.critic.Name(), "completed").Inc()
	findingsTotal.Add(float64(len(feedback)))

	s.logger.Info("image analysis completed",
		"image_id", image.ID,
		"feedback_count", len(feedback),
		"duration", time.Since(start),
	)

	return &services.ImageAnalysis{Image: image, Feedback: feedback, Count: len(feedback)}, nil
}

// persistFindings maps findings to feedback and inserts them concurrently.
// The returned slice keeps the critic's order.
func (s *analysisService) persistFindings(ctx context.Context, image *models.Image, findings []services.Finding) ([]models.Feedback, error) {
	now := s.now().UTC()
	items := make([]models.Feedback, len(findings))
	for i, f := range findings {
		items[i] = *FindingToFeedback(f, image, now)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(persistConcurrency)
	for i := range items {
		item := &items[i]
		g.Go(func() error {
			return s.feedbackRepo.Create(gctx, item)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}

// fail moves the image to failed. Errors are logged since the caller is
// already returning the original failure.
func (s *analysisService) fail(ctx context.Context, image *models.Image, reason string) {
	applyAnalysisStatus(image, models.AnalysisFailed, reason, s.now().UTC())
	if err := s.imageRepo.UpdateAnalysis(context.WithoutCancel(ctx), image); err != nil {
		s.logger.Error("failed to mark image analysis as failed",
			"image_id", image.ID,
			"error", err,
		)
		return
	}
	s.logger.Warn("image analysis failed",
		"image_id", image.ID,
		"reason", reason,
	)
}

func (s *analysisService) readBlob(path string) ([]byte, error) {
	rc, err := s.blobs.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &domain.StorageIOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// GetAnalysis returns the analysis state of an image with its feedback
func (s *analysisService) GetAnalysis(ctx context.Context, imageID string) (*services.ImageAnalysis, error) {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	feedback, err := s.feedbackRepo.ListByImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	feedback = orEmpty(feedback)
	return &services.ImageAnalysis{Image: image, Feedback: feedback, Count: len(feedback)}, nil
}

// RecoverStuck fails images whose analysis was abandoned, e.g. by a restart
// while the critic call was in flight.
func (s *analysisService) RecoverStuck(ctx context.Context, staleAfter time.Duration) (int, error) {
	if staleAfter <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().Add(-staleAfter)
	stuck, err := s.imageRepo.ListStuck(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	for i := range stuck {
		image := &stuck[i]
		applyAnalysisStatus(image, models.AnalysisFailed, "analysis abandoned", s.now().UTC())
		if err := s.imageRepo.UpdateAnalysis(ctx, image); err != nil {
			return i, err
		}
		s.logger.Warn("stuck image analysis marked failed", "image_id", image.ID)
	}

	return len(stuck), nil
}

// normalizeOptions applies the critique defaults
func normalizeOptions(opts services.CritiqueOptions) services.CritiqueOptions {
	opts.Role = strings.ToLower(strings.TrimSpace(opts.Role))
	if opts.Role == "" {
		opts.Role = string(models.RoleDesigner)
	}
	opts.ProjectType = strings.TrimSpace(opts.ProjectType)
	if opts.ProjectType == "" {
		opts.ProjectType = "general"
	}
	opts.FocusAreas = uniqueStrings(opts.FocusAreas)
	return opts
}
