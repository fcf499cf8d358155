package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchSentinels(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
	}{
		{"not found", NewNotFound("image", "42"), ErrNotFound, http.StatusNotFound},
		{"validation", NewValidation("name", "is required"), ErrValidation, http.StatusBadRequest},
		{"conflict", &ConflictError{Message: "archived"}, ErrConflict, http.StatusConflict},
		{"adapter", &ExternalAdapterError{Adapter: "anthropic", Err: cause}, ErrExternalAdapter, http.StatusBadGateway},
		{"storage", &StorageIOError{Op: "write", Path: "x.png", Err: cause}, ErrStorageIO, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))

			var httpErr HTTPError
			if assert.True(t, errors.As(wrapped, &httpErr)) {
				assert.Equal(t, tt.status, httpErr.StatusCode())
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "image 42: not found", NewNotFound("image", "42").Error())
	assert.Equal(t, "name: is required", NewValidation("name", "is required").Error())
	assert.Equal(t, "too big", NewValidation("", "too big").Error())
	assert.Equal(t, "anthropic: adapter failed", (&ExternalAdapterError{Adapter: "anthropic"}).Error())

	cause := errors.New("disk full")
	err := &StorageIOError{Op: "write", Path: "a.png", Err: cause}
	assert.Equal(t, "storage write a.png: disk full", err.Error())
	assert.True(t, errors.Is(err, cause))
}
