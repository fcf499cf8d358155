package handler

import (
	"net/http"

	"designsight/internal/httputil"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Health   *HealthHandler
	Models   *ModelsHandler
	Projects *ProjectHandler
	Images   *ImageHandler
	Feedback *FeedbackHandler
	Comments *CommentHandler
}

// RegisterRoutes wires all API routes onto mux (Go 1.22+ method patterns)
func RegisterRoutes(mux *http.ServeMux, h *Handlers) {
	// Health and metrics
	mux.HandleFunc("GET /api/health", h.Health.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Critic catalogue
	mux.HandleFunc("GET /api/critic", h.Models.GetCritic)

	// Project routes
	mux.HandleFunc("GET /api/projects", h.Projects.ListProjects)
	mux.HandleFunc("POST /api/projects", h.Projects.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", h.Projects.GetProject)
	mux.HandleFunc("PUT /api/projects/{id}", h.Projects.UpdateProject)
	mux.HandleFunc("PATCH /api/projects/{id}", h.Projects.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", h.Projects.ArchiveProject)

	// Image routes
	mux.HandleFunc("GET /api/images", h.Images.ListImages)
	mux.HandleFunc("POST /api/images/upload", h.Images.UploadImage)
	mux.HandleFunc("GET /api/images/{id}", h.Images.GetImage)
	mux.HandleFunc("DELETE /api/images/{id}", h.Images.DeleteImage)
	mux.HandleFunc("GET /api/images/{id}/file", h.Images.ServeImageFile)
	mux.HandleFunc("PATCH /api/images/{id}/analysis-status", h.Images.UpdateAnalysisStatus)
	mux.HandleFunc("PUT /api/images/{id}/analysis-status", h.Images.UpdateAnalysisStatus)
	mux.HandleFunc("POST /api/images/{id}/analyze", h.Images.AnalyzeImage)
	mux.HandleFunc("GET /api/images/{id}/analysis", h.Images.GetAnalysis)
	mux.HandleFunc("GET /api/images/{id}/download/json", h.Images.DownloadJSON)
	mux.HandleFunc("GET /api/images/{id}/download/pdf", h.Images.DownloadPDF)

	// Feedback routes
	mux.HandleFunc("GET /api/feedback", h.Feedback.ListFeedback)
	mux.HandleFunc("POST /api/feedback", h.Feedback.CreateFeedback)
	mux.HandleFunc("GET /api/feedback/{first}/{second}", feedbackSubroutes(h.Feedback))
	mux.HandleFunc("GET /api/feedback/{id}", h.Feedback.GetFeedback)
	mux.HandleFunc("PUT /api/feedback/{id}", h.Feedback.UpdateFeedback)
	mux.HandleFunc("PATCH /api/feedback/{id}", h.Feedback.UpdateFeedback)
	mux.HandleFunc("DELETE /api/feedback/{id}", h.Feedback.DeleteFeedback)

	// Comment routes
	mux.HandleFunc("GET /api/comments", h.Comments.ListComments)
	mux.HandleFunc("POST /api/comments", h.Comments.CreateComment)
	mux.HandleFunc("GET /api/comments/{first}/{second}", commentSubroutes(h.Comments))
	mux.HandleFunc("GET /api/comments/{id}", h.Comments.GetComment)
	mux.HandleFunc("PUT /api/comments/{id}", h.Comments.UpdateComment)
	mux.HandleFunc("DELETE /api/comments/{id}", h.Comments.DeleteComment)
	mux.HandleFunc("POST /api/comments/{id}/reaction", h.Comments.AddReaction)
	mux.HandleFunc("DELETE /api/comments/{id}/reaction", h.Comments.RemoveReaction)

	// Unknown API paths get the JSON envelope instead of the mux's plain text 404
	mux.HandleFunc("/api/", routeNotFound)
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.RespondError(w, http.StatusNotFound, "Route not found")
}

// feedbackSubroutes serves /role/{role}, /stats/{imageId} and /{id}/comments.
// ServeMux rejects them as separate patterns since /role/comments matches
// more than one of them.
func feedbackSubroutes(h *FeedbackHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		first, second := r.PathValue("first"), r.PathValue("second")
		switch {
		case first == "role":
			r.SetPathValue("role", second)
			h.ListForRole(w, r)
		case first == "stats":
			r.SetPathValue("imageId", second)
			h.Stats(w, r)
		case second == "comments":
			r.SetPathValue("id", first)
			h.ListFeedbackComments(w, r)
		default:
			routeNotFound(w, r)
		}
	}
}

// commentSubroutes serves /thread/{feedbackId} and /{id}/replies
func commentSubroutes(h *CommentHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		first, second := r.PathValue("first"), r.PathValue("second")
		switch {
		case first == "thread":
			r.SetPathValue("feedbackId", second)
			h.GetThread(w, r)
		case second == "replies":
			r.SetPathValue("id", first)
			h.ListReplies(w, r)
		default:
			routeNotFound(w, r)
		}
	}
}
