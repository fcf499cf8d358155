package services

import (
	"context"

	"designsight/internal/domain/models"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// UpdateProjectRequest represents a partial project update. Nil fields are left unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ListProjectsRequest filters the project listing. Status defaults to active.
type ListProjectsRequest struct {
	Status string
	Page   int
	Limit  int
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)

	// GetProject retrieves a project by ID, archived or not
	GetProject(ctx context.Context, id string) (*models.Project, error)

	// ListProjects lists projects newest-updated first
	ListProjects(ctx context.Context, req *ListProjectsRequest) (*models.Page[models.Project], error)

	UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*models.Project, error)

	// ArchiveProject soft-deletes a project by setting status to archived
	ArchiveProject(ctx context.Context, id string) (*models.Project, error)
}
