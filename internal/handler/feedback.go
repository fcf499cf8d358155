package handler

import (
	"log/slog"
	"net/http"

	"designsight/internal/domain/services"
	"designsight/internal/httputil"
)

// FeedbackHandler handles feedback HTTP requests
type FeedbackHandler struct {
	feedbackService services.FeedbackService
	commentService  services.CommentService
	logger          *slog.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService services.FeedbackService, commentService services.CommentService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		commentService:  commentService,
		logger:          logger,
	}
}

func listFeedbackRequest(r *http.Request) *services.ListFeedbackRequest {
	q := r.URL.Query()
	page, limit := pageParams(r)
	return &services.ListFeedbackRequest{
		ImageID:   q.Get("imageId"),
		ProjectID: q.Get("projectId"),
		Category:  q.Get("category"),
		Severity:  q.Get("severity"),
		Role:      q.Get("role"),
		Status:    q.Get("status"),
		Page:      page,
		Limit:     limit,
	}
}

// ListFeedback lists feedback, newest first
// GET /api/feedback?imageId=&projectId=&category=&severity=&role=&status=&page=&limit=
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	result, err := h.feedbackService.ListFeedback(r.Context(), listFeedbackRequest(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondPage(w, result)
}

// ListForRole lists feedback targeting a role, highest priority first
// GET /api/feedback/role/{role}
func (h *FeedbackHandler) ListForRole(w http.ResponseWriter, r *http.Request) {
	req := listFeedbackRequest(r)
	req.Role = r.PathValue("role")

	result, err := h.feedbackService.ListForRole(r.Context(), req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondPage(w, result)
}

// Stats counts an image's feedback
// GET /api/feedback/stats/{imageId}
func (h *FeedbackHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.feedbackService.Stats(r.Context(), r.PathValue("imageId"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, stats, "")
}

// CreateFeedback creates a manually authored feedback item
// POST /api/feedback
func (h *FeedbackHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req services.CreateFeedbackRequest
	if !parseBody(w, r, &req) {
		return
	}

	feedback, err := h.feedbackService.CreateFeedback(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, feedback, "Feedback created successfully")
}

// GetFeedback retrieves a feedback item
// GET /api/feedback/{id}
func (h *FeedbackHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.feedbackService.GetFeedback(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, feedback, "")
}

// UpdateFeedback applies a partial update
// PUT|PATCH /api/feedback/{id}
func (h *FeedbackHandler) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateFeedbackRequest
	if !parseBody(w, r, &req) {
		return
	}

	feedback, err := h.feedbackService.UpdateFeedback(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, feedback, "Feedback updated successfully")
}

// DeleteFeedback removes a feedback item and its comments
// DELETE /api/feedback/{id}
func (h *FeedbackHandler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	if err := h.feedbackService.DeleteFeedback(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, nil, "Feedback deleted successfully")
}

// ListFeedbackComments lists the visible comments of a feedback item, newest first
// GET /api/feedback/{id}/comments
func (h *FeedbackHandler) ListFeedbackComments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.feedbackService.GetFeedback(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	page, limit := pageParams(r)
	result, err := h.commentService.ListComments(r.Context(), &services.ListCommentsRequest{
		FeedbackID: id,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondPage(w, result)
}
