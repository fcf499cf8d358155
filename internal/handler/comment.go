package handler

import (
	"log/slog"
	"net/http"

	"designsight/internal/domain/services"
	"designsight/internal/httputil"
)

// CommentHandler handles comment thread HTTP requests
type CommentHandler struct {
	commentService services.CommentService
	logger         *slog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService services.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// ListComments lists visible comments, newest first
// GET /api/comments?feedbackId=&parentCommentId=&authorRole=&page=&limit=
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pageParams(r)
	result, err := h.commentService.ListComments(r.Context(), &services.ListCommentsRequest{
		FeedbackID:      q.Get("feedbackId"),
		ParentCommentID: q.Get("parentCommentId"),
		AuthorRole:      q.Get("authorRole"),
		Page:            page,
		Limit:           limit,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondPage(w, result)
}

// GetThread returns the comment forest of a feedback item
// GET /api/comments/thread/{feedbackId}
func (h *CommentHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	tree, err := h.commentService.GetCommentTree(r.Context(), r.PathValue("feedbackId"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondList(w, tree)
}

// CreateComment adds a comment or reply
// POST /api/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCommentRequest
	if !parseBody(w, r, &req) {
		return
	}

	comment, err := h.commentService.CreateComment(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, comment, "Comment created successfully")
}

// GetComment returns a comment with its direct replies and thread depth
// GET /api/comments/{id}
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	detail, err := h.commentService.GetComment(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, detail, "")
}

// ListReplies returns the direct replies of a comment, oldest first
// GET /api/comments/{id}/replies
func (h *CommentHandler) ListReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := h.commentService.ListReplies(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondList(w, replies)
}

// UpdateComment edits a comment's content
// PUT /api/comments/{id}
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateCommentRequest
	if !parseBody(w, r, &req) {
		return
	}

	comment, err := h.commentService.UpdateComment(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, comment, "Comment updated successfully")
}

// DeleteComment soft-deletes a comment
// DELETE /api/comments/{id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.commentService.DeleteComment(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, comment, "Comment deleted successfully")
}

// AddReaction adds or replaces the author's reaction
// POST /api/comments/{id}/reaction
func (h *CommentHandler) AddReaction(w http.ResponseWriter, r *http.Request) {
	var req services.ReactionRequest
	if !parseBody(w, r, &req) {
		return
	}

	comment, err := h.commentService.AddReaction(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, comment, "Reaction added successfully")
}

// RemoveReaction removes the author's reaction. The author name comes from
// the JSON body or the authorName query parameter.
// DELETE /api/comments/{id}/reaction
func (h *CommentHandler) RemoveReaction(w http.ResponseWriter, r *http.Request) {
	var req services.ReactionRequest
	if !parseBody(w, r, &req) {
		return
	}
	name := req.Author.Name
	if name == "" {
		name = r.URL.Query().Get("authorName")
	}

	comment, err := h.commentService.RemoveReaction(r.Context(), r.PathValue("id"), name)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, comment, "Reaction removed successfully")
}
