package handler

import (
	"context"
	"net/http"
	"time"

	"designsight/internal/httputil"
)

// Pinger checks that a backing store is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness checks
type HealthHandler struct {
	store   string
	critic  string
	db      Pinger
	started time.Time
}

// NewHealthHandler creates a health handler. db may be nil for the memory store.
func NewHealthHandler(store, critic string, db Pinger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		critic:  critic,
		db:      db,
		started: time.Now(),
	}
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
	Store     string `json:"store"`
	Critic    string `json:"critic"`
	Database  string `json:"database,omitempty"`
}

// Health reports service status
// GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Store:     h.store,
		Critic:    h.critic,
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			httputil.RespondJSON(w, http.StatusServiceUnavailable, httputil.Envelope{
				Success: false,
				Data:    resp,
				Error:   "database unreachable",
			})
			return
		}
		resp.Database = "ok"
	}

	httputil.RespondSuccess(w, http.StatusOK, resp, "DesignSight API is running")
}
