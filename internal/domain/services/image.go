package services

import (
	"context"
	"io"

	"designsight/internal/domain/models"
)

// UploadImageRequest carries one multipart image upload
type UploadImageRequest struct {
	ProjectID    string
	OriginalName string
	Size         int64
	File         io.ReadSeeker
}

// ListImagesRequest filters the image listing
type ListImagesRequest struct {
	ProjectID string
	Status    string
	Page      int
	Limit     int
}

// UpdateAnalysisStatusRequest is a manual analysis status transition
type UpdateAnalysisStatusRequest struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// ImageFile is an open image blob ready to be streamed to a client
type ImageFile struct {
	Image    *models.Image
	Body     io.ReadCloser
	MimeType string
}

// ImageService defines business logic operations for images
type ImageService interface {
	// UploadImage stores the blob and creates the image record, appending it to its project
	UploadImage(ctx context.Context, req *UploadImageRequest) (*models.Image, error)

	GetImage(ctx context.Context, id string) (*models.Image, error)

	ListImages(ctx context.Context, req *ListImagesRequest) (*models.Page[models.Image], error)

	// OpenImageFile opens the stored bytes. The caller closes Body.
	OpenImageFile(ctx context.Context, id string) (*ImageFile, error)

	// UpdateAnalysisStatus applies a manual status transition
	UpdateAnalysisStatus(ctx context.Context, id string, req *UpdateAnalysisStatusRequest) (*models.Image, error)

	// DeleteImage removes the record, its blob, its project link, and its feedback and comments
	DeleteImage(ctx context.Context, id string) error
}
