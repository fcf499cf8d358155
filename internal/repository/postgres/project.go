package postgres

import (
	"context"
	"fmt"
	"time"

	"designsight/internal/domain"
	"designsight/internal/domain/models"
	"designsight/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `id, name, description, status, image_ids, created_at, updated_at`

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	return &PostgresProjectRepository{pool: config.Pool}
}

// Create creates a new project
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.Status,
		orEmptySlice(project.ImageIDs),
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("project %s already exists", project.ID),
				ResourceType: "project",
				ResourceID:   project.ID,
			}
		}
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by ID
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	executor := GetExecutor(ctx, r.pool)
	project, err := scanProject(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("project", id)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// List retrieves projects, most recently updated first
func (r *PostgresProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error) {
	var where whereBuilder
	if filter.Status != "" {
		where.add("status = ?", filter.Status)
	}

	executor := GetExecutor(ctx, r.pool)

	var total int
	if err := executor.QueryRow(ctx, `SELECT count(*) FROM projects`+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	limit, args := where.page(filter.Limit, filter.Offset())
	query := `SELECT ` + projectColumns + ` FROM projects` + where.clause() + ` ORDER BY updated_at DESC, id` + limit

	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, total, nil
}

// Update persists name, description, status and updated_at
func (r *PostgresProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET name = $1, description = $2, status = $3, updated_at = $4
		WHERE id = $5
	`
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		project.Name,
		project.Description,
		project.Status,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("project", project.ID)
	}
	return nil
}

// AddImage appends an image id unless it is already listed
func (r *PostgresProjectRepository) AddImage(ctx context.Context, projectID, imageID string, at time.Time) error {
	query := `
		UPDATE projects
		SET image_ids = CASE WHEN $1 = ANY(image_ids) THEN image_ids ELSE array_append(image_ids, $1) END,
		    updated_at = $2
		WHERE id = $3
	`
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, imageID, at, projectID)
	if err != nil {
		return fmt.Errorf("add project image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("project", projectID)
	}
	return nil
}

// RemoveImage removes an image id from the project's list
func (r *PostgresProjectRepository) RemoveImage(ctx context.Context, projectID, imageID string, at time.Time) error {
	query := `
		UPDATE projects
		SET image_ids = array_remove(image_ids, $1), updated_at = $2
		WHERE id = $3
	`
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, imageID, at, projectID)
	if err != nil {
		return fmt.Errorf("remove project image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("project", projectID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var status string
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&status,
		&p.ImageIDs,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = models.ProjectStatus(status)
	if p.ImageIDs == nil {
		p.ImageIDs = []string{}
	}
	return &p, nil
}
