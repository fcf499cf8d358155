package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"designsight/internal/domain"
	"designsight/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Server-side
// failures are logged with their taxonomy kind.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var adapterErr *domain.ExternalAdapterError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &maxBytesErr):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.As(err, &adapterErr):
		logger.Warn("external adapter failed",
			"kind", "external_adapter",
			"adapter", adapterErr.Adapter,
			"path", r.URL.Path,
			"error", adapterErr.Err,
		)
		httputil.RespondErrorWithDetails(w, http.StatusBadGateway, "AI analysis failed", adapterErr.Err.Error())
	case errors.Is(err, domain.ErrStorageIO):
		logger.Error("storage failure",
			"kind", "storage_io",
			"path", r.URL.Path,
			"error", err,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "storage error")
	default:
		logger.Error("request failed",
			"kind", "internal",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseBody decodes a JSON body, answering 400 itself on failure
func parseBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pageParams reads page and limit query parameters. Service layers apply
// defaults and clamp out-of-range values.
func pageParams(r *http.Request) (page, limit int) {
	return httputil.QueryInt(r, "page", 1), httputil.QueryInt(r, "limit", 0)
}
