package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"designsight/internal/config"
	"designsight/internal/domain"
	"designsight/internal/domain/models"
	"designsight/internal/domain/repositories"
	"designsight/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo repositories.ProjectRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateProject creates a new project
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.now().UTC()
	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: trimOptional(req.Description),
		Status:      models.ProjectStatusActive,
		ImageIDs:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
	)

	return project, nil
}

// GetProject retrieves a project by ID
func (s *projectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// ListProjects lists projects, active ones by default
func (s *projectService) ListProjects(ctx context.Context, req *services.ListProjectsRequest) (*models.Page[models.Project], error) {
	status := models.ProjectStatus(req.Status)
	if status == "" {
		status = models.ProjectStatusActive
	}
	if !status.Valid() {
		return nil, domain.NewValidation("status", "must be one of: active, archived")
	}

	p := paginate(req.Page, req.Limit)
	projects, total, err := s.projectRepo.List(ctx, models.ProjectFilter{Status: status, Pagination: p})
	if err != nil {
		return nil, err
	}

	return newPage(projects, total, p), nil
}

// UpdateProject applies a partial update
func (s *projectService) UpdateProject(ctx context.Context, id string, req *services.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		project.Description = trimOptional(req.Description)
	}
	if req.Status != nil {
		project.Status = models.ProjectStatus(*req.Status)
	}
	project.UpdatedAt = s.now().UTC()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"id", project.ID,
		"name", project.Name,
		"status", project.Status,
	)

	return project, nil
}

// ArchiveProject soft-deletes a project. Its images stay addressable.
func (s *projectService) ArchiveProject(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Status = models.ProjectStatusArchived
	project.UpdatedAt = s.now().UTC()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project archived", "id", id)

	return project, nil
}

// validateCreateRequest validates a create project request
func (s *projectService) validateCreateRequest(req *services.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxProjectNameLength),
		),
		validation.Field(&req.Description, validation.RuneLength(0, config.MaxProjectDescriptionLength)),
	)
}

// validateUpdateRequest validates an update project request
func (s *projectService) validateUpdateRequest(req *services.UpdateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxProjectNameLength),
		),
		validation.Field(&req.Description, validation.RuneLength(0, config.MaxProjectDescriptionLength)),
		validation.Field(&req.Status, oneOf([]models.ProjectStatus{models.ProjectStatusActive, models.ProjectStatusArchived})),
	)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
