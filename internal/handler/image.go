package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"designsight/internal/domain/services"
	"designsight/internal/httputil"
	"designsight/internal/service/export"
)

// multipartMemory is how much of a multipart upload is buffered in memory
// before spilling to a temp file
const multipartMemory = 8 << 20

// ImageHandler handles image, analysis and export HTTP requests
type ImageHandler struct {
	imageService    services.ImageService
	analysisService services.AnalysisService
	reportService   services.ReportService
	maxUploadBytes  int64
	logger          *slog.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(
	imageService services.ImageService,
	analysisService services.AnalysisService,
	reportService services.ReportService,
	maxUploadBytes int64,
	logger *slog.Logger,
) *ImageHandler {
	return &ImageHandler{
		imageService:    imageService,
		analysisService: analysisService,
		reportService:   reportService,
		maxUploadBytes:  maxUploadBytes,
		logger:          logger,
	}
}

// ListImages lists images
// GET /api/images?projectId=&status=&page=&limit=
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	q := r.URL.Query()
	result, err := h.imageService.ListImages(r.Context(), &services.ListImagesRequest{
		ProjectID: q.Get("projectId"),
		Status:    q.Get("status"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondPage(w, result)
}

// UploadImage stores a multipart upload
// POST /api/images/upload (fields: image, projectId)
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Allow room for the other form fields on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large. Maximum size is %d MB", h.maxUploadBytes>>20))
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	image, err := h.imageService.UploadImage(r.Context(), &services.UploadImageRequest{
		ProjectID:    r.FormValue("projectId"),
		OriginalName: header.Filename,
		Size:         header.Size,
		File:         file,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, image, "Image uploaded successfully")
}

// GetImage retrieves image metadata
// GET /api/images/{id}
func (h *ImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	image, err := h.imageService.GetImage(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, image, "")
}

// ServeImageFile streams the stored image bytes
// GET /api/images/{id}/file
func (h *ImageHandler) ServeImageFile(w http.ResponseWriter, r *http.Request) {
	file, err := h.imageService.OpenImageFile(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	defer file.Body.Close()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if file.Image.Metadata.ByteSize > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(file.Image.Metadata.ByteSize, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, file.Body); err != nil {
		h.logger.Warn("image stream interrupted", "image_id", file.Image.ID, "error", err)
	}
}

// UpdateAnalysisStatus applies a manual analysis status transition
// PATCH|PUT /api/images/{id}/analysis-status
func (h *ImageHandler) UpdateAnalysisStatus(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateAnalysisStatusRequest
	if !parseBody(w, r, &req) {
		return
	}

	image, err := h.imageService.UpdateAnalysisStatus(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, image, "Analysis status updated successfully")
}

// DeleteImage removes an image with its feedback and comments
// DELETE /api/images/{id}
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if err := h.imageService.DeleteImage(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, nil, "Image deleted successfully")
}

// AnalyzeImage runs the AI critic. The JSON body with role, focusAreas and
// projectType is optional.
// POST /api/images/{id}/analyze
func (h *ImageHandler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var opts services.CritiqueOptions
	if !parseBody(w, r, &opts) {
		return
	}

	result, err := h.analysisService.Analyze(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, result, "Analysis completed successfully")
}

// GetAnalysis returns the analysis state and feedback of an image
// GET /api/images/{id}/analysis
func (h *ImageHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	result, err := h.analysisService.GetAnalysis(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, result, "")
}

// DownloadJSON exports the image feedback report as a JSON attachment
// GET /api/images/{id}/download/json
func (h *ImageHandler) DownloadJSON(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "json", "application/json", export.WriteJSON)
}

// DownloadPDF exports the image feedback report as a PDF attachment
// GET /api/images/{id}/download/pdf
func (h *ImageHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "pdf", "application/pdf", export.WritePDF)
}

type renderFunc func(io.Writer, *services.ImageReport, time.Time) error

// download renders into a buffer first so a render failure can still be
// reported as a JSON error
func (h *ImageHandler) download(w http.ResponseWriter, r *http.Request, ext, contentType string, render renderFunc) {
	report, err := h.reportService.BuildImageReport(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := render(&buf, report, now); err != nil {
		h.logger.Error("export render failed", "image_id", report.Image.ID, "format", ext, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to generate "+ext+" report")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(report.Image, ext, now)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
