package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"designsight/internal/capabilities"
	"designsight/internal/config"
	"designsight/internal/repository/memory"
	"designsight/internal/service/critic"
	"designsight/internal/service/review"
	"designsight/internal/storage/blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxUpload = 5 << 20

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Count   *int            `json:"count"`
	Total   *int            `json:"total"`
	Page    *int            `json:"page"`
	Pages   *int            `json:"pages"`
	Message string          `json:"message"`
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	blobs, err := blob.NewFileStore(t.TempDir())
	require.NoError(t, err)
	registry, err := capabilities.NewRegistry()
	require.NoError(t, err)

	svcs := review.SetupServices(memory.NewStore().Repositories(), blobs, critic.NewStaticCritic(), review.Options{
		StatusPolicy:   config.StatusPolicyPermissive,
		MaxUploadBytes: testMaxUpload,
		CacheSize:      16,
	}, logger)

	cfg := &config.Config{CriticProvider: config.CriticStatic}
	mux := http.NewServeMux()
	RegisterRoutes(mux, &Handlers{
		Health:   NewHealthHandler(config.StoreMemory, critic.ProviderStatic, nil),
		Models:   NewModelsHandler(cfg, logger, registry),
		Projects: NewProjectHandler(svcs.Projects, logger),
		Images:   NewImageHandler(svcs.Images, svcs.Analysis, svcs.Reports, testMaxUpload, logger),
		Feedback: NewFeedbackHandler(svcs.Feedback, svcs.Comments, logger),
		Comments: NewCommentHandler(svcs.Comments, logger),
	})
	return mux
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func upload(t *testing.T, h http.Handler, projectID, filename string, data []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("projectId", projectID))
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

type idOnly struct {
	ID string `json:"id"`
}

func createProject(t *testing.T, h http.Handler, name string) string {
	t.Helper()
	rec, env := do(t, h, http.MethodPost, "/api/projects", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[idOnly](t, env.Data).ID
}

func uploadImage(t *testing.T, h http.Handler, projectID string) string {
	t.Helper()
	rec, env := upload(t, h, projectID, "home.png", pngBytes(t, 800, 600))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[idOnly](t, env.Data).ID
}

func createFeedback(t *testing.T, h http.Handler, imageID string) string {
	t.Helper()
	rec, env := do(t, h, http.MethodPost, "/api/feedback", map[string]any{
		"imageId":     imageID,
		"category":    "accessibility",
		"severity":    "high",
		"title":       "Low contrast CTA",
		"description": "The primary button blends into the hero.",
		"coordinates": map[string]any{"x": 100, "y": 100, "width": 200, "height": 50},
		"targetRoles": []string{"designer"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[idOnly](t, env.Data).ID
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	rec, env := do(t, h, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	data := decode[map[string]any](t, env.Data)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "memory", data["store"])
}

func TestUnknownAPIRoute(t *testing.T) {
	h := newTestServer(t)

	rec, env := do(t, h, http.MethodGet, "/api/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Route not found", env.Error)
}

func TestRegisterRoutes(t *testing.T) {
	assert.NotPanics(t, func() {
		RegisterRoutes(http.NewServeMux(), &Handlers{})
	})
}

func TestNestedRouteDispatch(t *testing.T) {
	h := newTestServer(t)
	imageID := uploadImage(t, h, createProject(t, h, "Routing"))
	feedbackID := createFeedback(t, h, imageID)

	tests := []struct {
		path string
		want int
	}{
		{"/api/feedback/role/designer", http.StatusOK},
		{"/api/feedback/role/comments", http.StatusBadRequest},
		{"/api/feedback/stats/" + imageID, http.StatusOK},
		{"/api/feedback/" + feedbackID + "/comments", http.StatusOK},
		{"/api/feedback/" + feedbackID + "/history", http.StatusNotFound},
		{"/api/comments/thread/" + feedbackID, http.StatusOK},
		{"/api/comments/00000000-0000-0000-0000-000000000000/replies", http.StatusNotFound},
		{"/api/comments/" + feedbackID + "/likes", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, env := do(t, h, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want == http.StatusOK, env.Success)
		})
	}
}

func TestGetCritic(t *testing.T) {
	h := newTestServer(t)

	rec, env := do(t, h, http.MethodGet, "/api/critic", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[CriticInfoResponse](t, env.Data)
	assert.Equal(t, "static", info.Provider)
	assert.Empty(t, info.ActiveModel)
	assert.Contains(t, info.Roles, "developer")
	assert.NotEmpty(t, info.Models)
}

func TestProjects(t *testing.T) {
	h := newTestServer(t)

	t.Run("create validates name", func(t *testing.T) {
		rec, env := do(t, h, http.MethodPost, "/api/projects", map[string]any{"name": "  "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, env.Success)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	id := createProject(t, h, "Checkout")
	createProject(t, h, "Onboarding")

	t.Run("page far past the end is empty", func(t *testing.T) {
		rec, env := do(t, h, http.MethodGet, "/api/projects?page=922337203685477581&limit=100", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 0, *env.Count)
		assert.Equal(t, 2, *env.Total)
	})

	t.Run("list is paginated", func(t *testing.T) {
		rec, env := do(t, h, http.MethodGet, "/api/projects?limit=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, *env.Count)
		assert.Equal(t, 2, *env.Total)
		assert.Equal(t, 1, *env.Page)
		assert.Equal(t, 2, *env.Pages)
	})

	t.Run("put and patch both update", func(t *testing.T) {
		for _, method := range []string{http.MethodPut, http.MethodPatch} {
			name := "Checkout " + method
			rec, env := do(t, h, method, "/api/projects/"+id, map[string]any{"name": name})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, name, decode[map[string]any](t, env.Data)["name"])
		}
	})

	t.Run("archive hides from default listing", func(t *testing.T) {
		rec, env := do(t, h, http.MethodDelete, "/api/projects/"+id, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "archived", decode[map[string]any](t, env.Data)["status"])

		_, env = do(t, h, http.MethodGet, "/api/projects", nil)
		assert.Equal(t, 1, *env.Total)

		rec, _ = do(t, h, http.MethodGet, "/api/projects/"+id, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing project", func(t *testing.T) {
		rec, env := do(t, h, http.MethodGet, "/api/projects/00000000-0000-0000-0000-000000000000", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, env.Success)
	})
}

func TestUpload(t *testing.T) {
	h := newTestServer(t)
	projectID := createProject(t, h, "Uploads")

	t.Run("stores dimensions and links project", func(t *testing.T) {
		rec, env := upload(t, h, projectID, "home.png", pngBytes(t, 800, 600))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "Image uploaded successfully", env.Message)

		img := decode[map[string]any](t, env.Data)
		meta := img["metadata"].(map[string]any)
		assert.Equal(t, 800.0, meta["width"])
		assert.Equal(t, 600.0, meta["height"])
		assert.Equal(t, "image/png", meta["mimeType"])
		assert.Equal(t, "pending", img["analysisStatus"])
		assert.NotContains(t, img, "storagePath")

		_, env = do(t, h, http.MethodGet, "/api/projects/"+projectID, nil)
		project := decode[map[string]any](t, env.Data)
		assert.Equal(t, []any{img["id"]}, project["imageIds"])
	})

	t.Run("rejects non-images", func(t *testing.T) {
		rec, env := upload(t, h, projectID, "notes.png", []byte("just some text, not pixels"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Error, "unsupported file type")
	})

	t.Run("requires a file", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("projectId", projectID))
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/images/upload", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "No image file provided")
	})

	t.Run("unknown project", func(t *testing.T) {
		rec, _ := upload(t, h, "00000000-0000-0000-0000-000000000000", "home.png", pngBytes(t, 10, 10))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("serves stored bytes", func(t *testing.T) {
		data := pngBytes(t, 40, 30)
		_, env := upload(t, h, projectID, "small.png", data)
		id := decode[idOnly](t, env.Data).ID

		req := httptest.NewRequest(http.MethodGet, "/api/images/"+id+"/file", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
		assert.Equal(t, data, rec.Body.Bytes())
	})
}

func TestAnalyzeProducesFeedback(t *testing.T) {
	h := newTestServer(t)
	projectID := createProject(t, h, "Analysis")
	imageID := uploadImage(t, h, projectID)

	rec, env := do(t, h, http.MethodPost, "/api/images/"+imageID+"/analyze", map[string]any{"role": "developer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Analysis completed successfully", env.Message)

	type analysis struct {
		Image struct {
			AnalysisStatus string `json:"analysisStatus"`
		} `json:"image"`
		Feedback []struct {
			ImageID     string   `json:"imageId"`
			Severity    string   `json:"severity"`
			Status      string   `json:"status"`
			TargetRoles []string `json:"targetRoles"`
			Coordinates struct {
				X, Y, Width, Height float64
			} `json:"coordinates"`
		} `json:"feedback"`
		Count int `json:"count"`
	}

	result := decode[analysis](t, env.Data)
	assert.Equal(t, "completed", result.Image.AnalysisStatus)
	require.Equal(t, 3, result.Count)
	for _, f := range result.Feedback {
		assert.Equal(t, imageID, f.ImageID)
		assert.Equal(t, "open", f.Status)
		assert.NotEmpty(t, f.TargetRoles)
		assert.LessOrEqual(t, f.Coordinates.X+f.Coordinates.Width, 800.0)
		assert.LessOrEqual(t, f.Coordinates.Y+f.Coordinates.Height, 600.0)
	}

	t.Run("analysis endpoint returns stored feedback", func(t *testing.T) {
		_, env := do(t, h, http.MethodGet, "/api/images/"+imageID+"/analysis", nil)
		got := decode[analysis](t, env.Data)
		assert.Equal(t, 3, got.Count)
		assert.Equal(t, "completed", got.Image.AnalysisStatus)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodPost, "/api/images/"+imageID+"/analyze", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("stats count by severity", func(t *testing.T) {
		_, env := do(t, h, http.MethodGet, "/api/feedback/stats/"+imageID, nil)
		stats := decode[map[string]any](t, env.Data)
		assert.Equal(t, 3.0, stats["total"])
		bySeverity := stats["bySeverity"].(map[string]any)
		assert.Equal(t, 1.0, bySeverity["high"])
		assert.Equal(t, 1.0, bySeverity["medium"])
		assert.Equal(t, 1.0, bySeverity["low"])
	})

	t.Run("role feed", func(t *testing.T) {
		rec, env := do(t, h, http.MethodGet, "/api/feedback/role/developer?imageId="+imageID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		// the accessibility finding and the "all" finding
		assert.Equal(t, 2, *env.Total)
	})

	t.Run("json export", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/images/"+imageID+"/download/json", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="feedback-home-`)
		doc := decode[map[string]any](t, rec.Body.Bytes())
		assert.Len(t, doc["feedback"], 3)
		assert.Equal(t, 3.0, doc["statistics"].(map[string]any)["totalFeedback"])
	})

	t.Run("pdf export", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/images/"+imageID+"/download/pdf", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("image delete cascades", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodDelete, "/api/images/"+imageID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		_, env := do(t, h, http.MethodGet, "/api/feedback?imageId="+imageID, nil)
		assert.Equal(t, 0, *env.Total)
		rec, _ = do(t, h, http.MethodGet, "/api/images/"+imageID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAnalysisStatusTransitions(t *testing.T) {
	h := newTestServer(t)
	imageID := uploadImage(t, h, createProject(t, h, "Status"))
	path := "/api/images/" + imageID + "/analysis-status"

	rec, _ := do(t, h, http.MethodPatch, path, map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusConflict, rec.Code, "pending cannot jump to completed")

	rec, _ = do(t, h, http.MethodPut, path, map[string]any{"status": "processing"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := do(t, h, http.MethodPatch, path, map[string]any{"status": "failed", "errorMessage": "manual reset"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "failed", decode[map[string]any](t, env.Data)["analysisStatus"])

	rec, _ = do(t, h, http.MethodPatch, path, map[string]any{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackBounds(t *testing.T) {
	h := newTestServer(t)
	imageID := uploadImage(t, h, createProject(t, h, "Bounds"))

	tests := []struct {
		name   string
		coords map[string]any
		want   int
	}{
		{"inside", map[string]any{"x": 700, "y": 500, "width": 100, "height": 100}, http.StatusCreated},
		{"past right edge", map[string]any{"x": 750, "y": 0, "width": 100, "height": 10}, http.StatusBadRequest},
		{"past bottom edge", map[string]any{"x": 0, "y": 590, "width": 10, "height": 20}, http.StatusBadRequest},
		{"negative", map[string]any{"x": -1, "y": 0, "width": 10, "height": 10}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := do(t, h, http.MethodPost, "/api/feedback", map[string]any{
				"imageId":     imageID,
				"category":    "content",
				"severity":    "low",
				"title":       "Copy",
				"description": "Tighten the headline.",
				"coordinates": tt.coords,
				"targetRoles": []string{"pm"},
			})
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestFeedbackTargetRolesMustBeNonBlank(t *testing.T) {
	h := newTestServer(t)
	imageID := uploadImage(t, h, createProject(t, h, "Roles"))
	feedbackID := createFeedback(t, h, imageID)

	rec, env := do(t, h, http.MethodPost, "/api/feedback", map[string]any{
		"imageId":     imageID,
		"category":    "content",
		"severity":    "low",
		"title":       "Copy",
		"description": "Shorten the headline",
		"coordinates": map[string]any{"x": 0, "y": 0, "width": 10, "height": 10},
		"targetRoles": []string{""},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.False(t, env.Success)

	rec, _ = do(t, h, http.MethodPatch, "/api/feedback/"+feedbackID, map[string]any{"targetRoles": []string{" "}})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	_, env = do(t, h, http.MethodGet, "/api/feedback/"+feedbackID, nil)
	assert.Equal(t, []any{"designer"}, decode[map[string]any](t, env.Data)["targetRoles"])
}

func TestFeedbackResolve(t *testing.T) {
	h := newTestServer(t)
	imageID := uploadImage(t, h, createProject(t, h, "Resolve"))
	id := createFeedback(t, h, imageID)

	rec, env := do(t, h, http.MethodPatch, "/api/feedback/"+id, map[string]any{"status": "resolved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[map[string]any](t, env.Data)["resolvedAt"]
	require.NotNil(t, first)

	_, env = do(t, h, http.MethodPut, "/api/feedback/"+id, map[string]any{"status": "open"})
	assert.Equal(t, first, decode[map[string]any](t, env.Data)["resolvedAt"])
}

func TestCommentThread(t *testing.T) {
	h := newTestServer(t)
	imageID := uploadImage(t, h, createProject(t, h, "Threads"))
	feedbackID := createFeedback(t, h, imageID)

	comment := func(parent string, name, content string) string {
		body := map[string]any{
			"feedbackId": feedbackID,
			"author":     map[string]any{"name": name, "role": "designer"},
			"content":    content,
		}
		if parent != "" {
			body["parentCommentId"] = parent
		}
		rec, env := do(t, h, http.MethodPost, "/api/comments", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		return decode[idOnly](t, env.Data).ID
	}

	root := comment("", "Ana", "Should we darken the button?")
	reply := comment(root, "Ben", "Yes, use the brand indigo.")
	comment(reply, "Ana", "Done.")

	t.Run("get returns replies and depth", func(t *testing.T) {
		_, env := do(t, h, http.MethodGet, "/api/comments/"+reply, nil)
		detail := decode[map[string]any](t, env.Data)
		assert.Equal(t, 1.0, detail["depth"])
		assert.Len(t, detail["replies"], 1)
	})

	t.Run("replies listing", func(t *testing.T) {
		rec, env := do(t, h, http.MethodGet, "/api/comments/"+root+"/replies", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		replies := decode[[]idOnly](t, env.Data)
		require.Len(t, replies, 1)
		assert.Equal(t, reply, replies[0].ID)
	})

	t.Run("reply to unknown parent", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodPost, "/api/comments", map[string]any{
			"feedbackId":      feedbackID,
			"parentCommentId": "00000000-0000-0000-0000-000000000000",
			"author":          map[string]any{"name": "Ana", "role": "designer"},
			"content":         "orphan",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("soft-deleted comment stays in tree", func(t *testing.T) {
		rec, env := do(t, h, http.MethodDelete, "/api/comments/"+root, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "deleted", decode[map[string]any](t, env.Data)["status"])

		_, env = do(t, h, http.MethodGet, "/api/comments/thread/"+feedbackID, nil)
		type node struct {
			ID      string `json:"id"`
			Status  string `json:"status"`
			Replies []node `json:"replies"`
		}
		tree := decode[[]node](t, env.Data)
		require.Len(t, tree, 1)
		assert.Equal(t, root, tree[0].ID)
		assert.Equal(t, "deleted", tree[0].Status)
		require.Len(t, tree[0].Replies, 1)
		assert.Equal(t, reply, tree[0].Replies[0].ID)
		assert.Len(t, tree[0].Replies[0].Replies, 1)

		_, env = do(t, h, http.MethodGet, "/api/feedback/"+feedbackID+"/comments", nil)
		assert.Equal(t, 2, *env.Total, "flat listing excludes deleted comments")
	})

	t.Run("deleted comments cannot be edited", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodPut, "/api/comments/"+root, map[string]any{"content": "revived"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("edit records history", func(t *testing.T) {
		rec, env := do(t, h, http.MethodPut, "/api/comments/"+reply, map[string]any{"content": "Yes, indigo 600."})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		c := decode[map[string]any](t, env.Data)
		assert.Equal(t, "edited", c["status"])
		history := c["editHistory"].([]any)
		require.Len(t, history, 1)
		assert.Equal(t, "Yes, use the brand indigo.", history[0].(map[string]any)["previousContent"])
		assert.Equal(t, "Content updated", history[0].(map[string]any)["reason"])
	})

	t.Run("reactions overwrite per author", func(t *testing.T) {
		path := "/api/comments/" + reply + "/reaction"
		for _, kind := range []string{"like", "love"} {
			rec, _ := do(t, h, http.MethodPost, path, map[string]any{
				"type":   kind,
				"author": map[string]any{"name": "Cleo", "role": "pm"},
			})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		}

		_, env := do(t, h, http.MethodGet, "/api/comments/"+reply, nil)
		reactions := decode[map[string]any](t, env.Data)["reactions"].([]any)
		require.Len(t, reactions, 1)
		assert.Equal(t, "love", reactions[0].(map[string]any)["type"])

		rec, env := do(t, h, http.MethodDelete, path+"?authorName=Cleo", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Empty(t, decode[map[string]any](t, env.Data)["reactions"])

		// removing again is a no-op
		rec, _ = do(t, h, http.MethodDelete, path+"?authorName=Cleo", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("deleting feedback removes its comments", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodDelete, "/api/feedback/"+feedbackID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec, _ = do(t, h, http.MethodGet, fmt.Sprintf("/api/comments/%s", reply), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
