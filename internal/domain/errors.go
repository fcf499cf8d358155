package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - match with errors.Is()
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrExternalAdapter = errors.New("external adapter failed")
	ErrStorageIO       = errors.New("storage failure")
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a referenced entity does not exist
	NotFoundError struct {
		Resource string
		ID       string
	}

	// ValidationError indicates a field constraint or bounds violation
	ValidationError struct {
		Field   string
		Message string
	}

	// ExternalAdapterError wraps a failure of the AI critique collaborator
	ExternalAdapterError struct {
		Adapter string
		Err     error
	}

	// StorageIOError wraps a blob storage read/write/unlink failure
	StorageIOError struct {
		Op   string
		Path string
		Err  error
	}
)

func (e *NotFoundError) Error() string { return e.Resource + " " + e.ID + ": not found" }

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ExternalAdapterError) Error() string {
	if e.Err == nil {
		return e.Adapter + ": adapter failed"
	}
	return e.Adapter + ": " + e.Err.Error()
}

func (e *StorageIOError) Error() string {
	return "storage " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *NotFoundError) StatusCode() int        { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }
func (e *ExternalAdapterError) StatusCode() int { return http.StatusBadGateway }
func (e *StorageIOError) StatusCode() int       { return http.StatusInternalServerError }

func (e *NotFoundError) Is(target error) bool        { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool      { return target == ErrValidation }
func (e *ExternalAdapterError) Is(target error) bool { return target == ErrExternalAdapter }
func (e *StorageIOError) Is(target error) bool       { return target == ErrStorageIO }

func (e *ExternalAdapterError) Unwrap() error { return e.Err }
func (e *StorageIOError) Unwrap() error       { return e.Err }

// ConflictError represents a state or relationship conflict, e.g. a reply whose
// parent belongs to another feedback item.
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (image, feedback, comment)
	ResourceID   string // ID of the conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewNotFound is shorthand used by repositories.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewValidation is shorthand for a single-field validation failure.
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
