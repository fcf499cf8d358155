package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"designsight/internal/domain"
	"designsight/internal/domain/models"
	"designsight/internal/domain/repositories"
	"designsight/internal/domain/services"
	"designsight/internal/storage/blob"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ImageServiceConfig groups the collaborators of the image service
type ImageServiceConfig struct {
	ProjectRepo    repositories.ProjectRepository
	ImageRepo      repositories.ImageRepository
	FeedbackRepo   repositories.FeedbackRepository
	CommentRepo    repositories.CommentRepository
	TxManager      repositories.TransactionManager
	Blobs          services.BlobStore
	Bounds         *BoundsCache
	Transitions    AnalysisTransitions
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// imageService implements the ImageService interface
type imageService struct {
	ImageServiceConfig
	now func() time.Time
}

// NewImageService creates a new image service
func NewImageService(cfg ImageServiceConfig) services.ImageService {
	return &imageService{ImageServiceConfig: cfg, now: time.Now}
}

// UploadImage stores the blob, then creates the record and links it to the
// project in one transaction. The blob is removed if the record write fails.
func (s *imageService) UploadImage(ctx context.Context, req *services.UploadImageRequest) (*models.Image, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.OriginalName, validation.Required),
		validation.Field(&req.File, validation.NotNil),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if s.MaxUploadBytes > 0 && req.Size > s.MaxUploadBytes {
		return nil, domain.NewValidation("image", fmt.Sprintf("file exceeds the %d MB upload limit", s.MaxUploadBytes>>20))
	}

	project, err := s.ProjectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.Status == models.ProjectStatusArchived {
		return nil, &domain.ConflictError{
			Message:      "cannot upload to an archived project",
			ResourceType: "project",
			ResourceID:   project.ID,
		}
	}

	info, err := blob.Inspect(req.File)
	if err != nil {
		return nil, err
	}

	saved, err := s.Blobs.Save(req.File, req.OriginalName)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	image := &models.Image{
		ID:           uuid.NewString(),
		ProjectID:    project.ID,
		Filename:     saved.Filename,
		OriginalName: filepath.Base(req.OriginalName),
		StoragePath:  saved.StoragePath,
		Metadata: models.ImageMetadata{
			Width:    info.Width,
			Height:   info.Height,
			ByteSize: saved.Size,
			MimeType: info.MimeType,
		},
		AnalysisStatus: models.AnalysisPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.TxManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.ImageRepo.Create(txCtx, image); err != nil {
			return err
		}
		return s.ProjectRepo.AddImage(txCtx, project.ID, image.ID, now)
	})
	if err != nil {
		if delErr := s.Blobs.Delete(saved.StoragePath); delErr != nil {
			s.Logger.Warn("failed to remove orphaned upload",
				"path", saved.StoragePath,
				"error", delErr,
			)
		}
		return nil, err
	}

	s.Bounds.Set(image.ID, image.Bounds())

	s.Logger.Info("image uploaded",
		"id", image.ID,
		"project_id", project.ID,
		"original_name", image.OriginalName,
		"width", info.Width,
		"height", info.Height,
		"size", saved.Size,
	)

	return image, nil
}

// GetImage retrieves an image by ID
func (s *imageService) GetImage(ctx context.Context, id string) (*models.Image, error) {
	return s.ImageRepo.GetByID(ctx, id)
}

// ListImages lists images, newest first
func (s *imageService) ListImages(ctx context.Context, req *services.ListImagesRequest) (*models.Page[models.Image], error) {
	status := models.AnalysisStatus(req.Status)
	if status != "" && !status.Valid() {
		return nil, domain.NewValidation("status", "must be one of: pending, processing, completed, failed")
	}

	p := paginate(req.Page, req.Limit)
	images, total, err := s.ImageRepo.List(ctx, models.ImageFilter{
		ProjectID:  req.ProjectID,
		Status:     status,
		Pagination: p,
	})
	if err != nil {
		return nil, err
	}

	return newPage(images, total, p), nil
}

// OpenImageFile opens the stored bytes of an image
func (s *imageService) OpenImageFile(ctx context.Context, id string) (*services.ImageFile, error) {
	image, err := s.ImageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := s.Blobs.Open(image.StoragePath)
	if err != nil {
		return nil, err
	}

	mimeType := image.Metadata.MimeType
	if mimeType == "" {
		mimeType = blob.MIMEType(filepath.Ext(image.Filename))
	}

	return &services.ImageFile{Image: image, Body: body, MimeType: mimeType}, nil
}

// UpdateAnalysisStatus applies a manual transition. Moving a stuck
// processing image to failed is the manual reset.
func (s *imageService) UpdateAnalysisStatus(ctx context.Context, id string, req *services.UpdateAnalysisStatusRequest) (*models.Image, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Status, validation.Required, oneOf([]models.AnalysisStatus{
			models.AnalysisPending, models.AnalysisProcessing, models.AnalysisCompleted, models.AnalysisFailed,
		})),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	image, err := s.ImageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	next := models.AnalysisStatus(req.Status)
	if err := s.Transitions.Check(image, next, now); err != nil {
		return nil, err
	}

	previous := image.AnalysisStatus
	applyAnalysisStatus(image, next, strings.TrimSpace(req.ErrorMessage), now)

	if err := s.ImageRepo.UpdateAnalysis(ctx, image); err != nil {
		return nil, err
	}

	s.Logger.Info("image analysis status updated",
		"id", image.ID,
		"from", previous,
		"to", next,
	)

	return image, nil
}

// applyAnalysisStatus sets status and the fields that go with it
func applyAnalysisStatus(image *models.Image, next models.AnalysisStatus, errorMessage string, now time.Time) {
	image.AnalysisStatus = next
	image.UpdatedAt = now

	switch next {
	case models.AnalysisProcessing:
		image.AnalysisStartedAt = &now
		image.AnalysisResult = nil
	case models.AnalysisFailed:
		if errorMessage == "" {
			errorMessage = "analysis marked as failed"
		}
		if image.AnalysisResult == nil {
			image.AnalysisResult = &models.AnalysisResult{}
		}
		image.AnalysisResult.ErrorMessage = errorMessage
		image.AnalysisResult.ProcessedAt = now
	case models.AnalysisCompleted:
		if image.AnalysisResult == nil {
			image.AnalysisResult = &models.AnalysisResult{}
		}
		image.AnalysisResult.ProcessedAt = now
	}
}

// DeleteImage removes the image with everything it contains
func (s *imageService) DeleteImage(ctx context.Context, id string) error {
	image, err := s.ImageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var removedFeedback int
	err = s.TxManager.ExecTx(ctx, func(txCtx context.Context) error {
		feedbackIDs, err := s.FeedbackRepo.DeleteByImage(txCtx, id)
		if err != nil {
			return err
		}
		removedFeedback = len(feedbackIDs)
		if err := s.CommentRepo.DeleteByFeedback(txCtx, feedbackIDs...); err != nil {
			return err
		}
		if err := s.ImageRepo.Delete(txCtx, id); err != nil {
			return err
		}
		err = s.ProjectRepo.RemoveImage(txCtx, image.ProjectID, id, s.now().UTC())
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}

	s.Bounds.Delete(id)

	if err := s.Blobs.Delete(image.StoragePath); err != nil {
		s.Logger.Warn("image record deleted but blob removal failed",
			"id", id,
			"path", image.StoragePath,
			"error", err,
		)
	}

	s.Logger.Info("image deleted",
		"id", id,
		"project_id", image.ProjectID,
		"feedback_removed", removedFeedback,
	)

	return nil
}
