package httputil

import (
	"encoding/json"
	"net/http"

	"designsight/internal/domain/models"
)

// Envelope is the body of every JSON API response
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Total   *int   `json:"total,omitempty"`
	Page    *int   `json:"page,omitempty"`
	Pages   *int   `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// RespondJSON writes a JSON response with the given status code.
// It marshals first so an encoding failure never leaves a partial body.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondSuccess writes {success: true, data, message?}
func RespondSuccess(w http.ResponseWriter, status int, data any, message string) {
	RespondJSON(w, status, Envelope{Success: true, Data: data, Message: message})
}

// RespondList writes {success: true, data, count} for unpaginated listings
func RespondList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	RespondJSON(w, http.StatusOK, Envelope{Success: true, Data: items, Count: &count})
}

// RespondPage writes a paginated listing with count, total, page and pages
func RespondPage[T any](w http.ResponseWriter, page *models.Page[T]) {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	count := len(items)
	total := page.Total
	current := page.Page
	pages := page.Pages()
	RespondJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Count:   &count,
		Total:   &total,
		Page:    &current,
		Pages:   &pages,
	})
}

// RespondError writes {success: false, error}
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondErrorWithDetails(w, status, message, nil)
}

// RespondErrorWithDetails writes {success: false, error, details}
func RespondErrorWithDetails(w http.ResponseWriter, status int, message string, details any) {
	payload, err := json.Marshal(Envelope{Success: false, Error: message, Details: details})
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
