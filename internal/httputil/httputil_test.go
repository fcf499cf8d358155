package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"designsight/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondPage(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondPage(rec, &models.Page[string]{Items: []string{"a", "b"}, Total: 5, Page: 1, Limit: 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 2.0, body["count"])
	assert.Equal(t, 5.0, body["total"])
	assert.Equal(t, 1.0, body["page"])
	assert.Equal(t, 3.0, body["pages"])
}

func TestRespondPage_EmptyItems(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondPage(rec, &models.Page[string]{Page: 1, Limit: 50})

	assert.JSONEq(t, `{"success":true,"data":[],"count":0,"total":0,"page":1,"pages":0}`, rec.Body.String())
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusNotFound, "image not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"image not found"}`, rec.Body.String())
}

func TestParseJSON(t *testing.T) {
	var dest struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, ParseJSON(httptest.NewRecorder(), req, &dest))
	assert.Equal(t, "x", dest.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, ParseJSON(httptest.NewRecorder(), req, &dest))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad"))
	assert.Error(t, ParseJSON(httptest.NewRecorder(), req, &dest))
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=abc", nil)
	assert.Equal(t, 3, QueryInt(req, "page", 1))
	assert.Equal(t, 50, QueryInt(req, "limit", 50))
	assert.Equal(t, 7, QueryInt(req, "missing", 7))
}
