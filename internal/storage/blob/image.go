package blob

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"designsight/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// supportedTypes lists the image formats accepted for upload.
var supportedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp"}

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
}

// MIMEType returns the content type for a file extension, defaulting to image/jpeg.
func MIMEType(ext string) string {
	if t, ok := extensionTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return "image/jpeg"
}

// ImageInfo is what upload validation learns from the file header.
type ImageInfo struct {
	MimeType string
	Width    int
	Height   int
}

// Inspect sniffs the content type and decodes the pixel dimensions of r,
// then rewinds it. Anything that is not a supported image is a validation
// error.
func Inspect(r io.ReadSeeker) (*ImageInfo, error) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return nil, &domain.StorageIOError{Op: "read", Path: "upload", Err: err}
	}
	if !mimetype.EqualsAny(mtype.String(), supportedTypes...) {
		return nil, domain.NewValidation("image", fmt.Sprintf("unsupported file type %s, only image files are allowed", mtype.String()))
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, &domain.StorageIOError{Op: "seek", Path: "upload", Err: err}
	}
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return nil, domain.NewValidation("image", "could not read image dimensions: "+err.Error())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, domain.NewValidation("image", "image has no pixels")
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, &domain.StorageIOError{Op: "seek", Path: "upload", Err: err}
	}

	return &ImageInfo{
		MimeType: mtype.String(),
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}
