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

const imageColumns = `id, project_id, filename, original_name, storage_path, metadata,
	analysis_status, analysis_result, analysis_started_at, created_at, updated_at`

// PostgresImageRepository implements the ImageRepository interface
type PostgresImageRepository struct {
	pool *pgxpool.Pool
}

// NewImageRepository creates a new image repository
func NewImageRepository(config *RepositoryConfig) repositories.ImageRepository {
	return &PostgresImageRepository{pool: config.Pool}
}

// Create inserts an image record
func (r *PostgresImageRepository) Create(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO images (` + imageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		image.ID,
		image.ProjectID,
		image.Filename,
		image.OriginalName,
		image.StoragePath,
		image.Metadata,
		image.AnalysisStatus,
		image.AnalysisResult,
		image.AnalysisStartedAt,
		image.CreatedAt,
		image.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("image %s already exists", image.ID),
				ResourceType: "image",
				ResourceID:   image.ID,
			}
		}
		return fmt.Errorf("create image: %w", err)
	}
	return nil
}

// GetByID retrieves an image by ID
func (r *PostgresImageRepository) GetByID(ctx context.Context, id string) (*models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1`

	executor := GetExecutor(ctx, r.pool)
	image, err := scanImage(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("image", id)
		}
		return nil, fmt.Errorf("get image: %w", err)
	}
	return image, nil
}

// List retrieves images, newest first
func (r *PostgresImageRepository) List(ctx context.Context, filter models.ImageFilter) ([]models.Image, int, error) {
	var where whereBuilder
	if filter.ProjectID != "" {
		where.add("project_id = ?", filter.ProjectID)
	}
	if filter.Status != "" {
		where.add("analysis_status = ?", filter.Status)
	}

	executor := GetExecutor(ctx, r.pool)

	var total int
	if err := executor.QueryRow(ctx, `SELECT count(*) FROM images`+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count images: %w", err)
	}

	limit, args := where.page(filter.Limit, filter.Offset())
	query := `SELECT ` + imageColumns + ` FROM images` + where.clause() + ` ORDER BY created_at DESC, id` + limit

	images, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return images, total, nil
}

// UpdateAnalysis persists the analysis fields
func (r *PostgresImageRepository) UpdateAnalysis(ctx context.Context, image *models.Image) error {
	query := `
		UPDATE images
		SET analysis_status = $1, analysis_result = $2, analysis_started_at = $3, updated_at = $4
		WHERE id = $5
	`
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		image.AnalysisStatus,
		image.AnalysisResult,
		image.AnalysisStartedAt,
		image.UpdatedAt,
		image.ID,
	)
	if err != nil {
		return fmt.Errorf("update image analysis: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("image", image.ID)
	}
	return nil
}

// ClaimAnalysis is UpdateAnalysis guarded by the status and updated_at the
// caller read, so two requests cannot both move an image into processing
func (r *PostgresImageRepository) ClaimAnalysis(ctx context.Context, image *models.Image, from models.AnalysisStatus, fromUpdatedAt time.Time) error {
	query := `
		UPDATE images
		SET analysis_status = $1, analysis_result = $2, analysis_started_at = $3, updated_at = $4
		WHERE id = $5 AND analysis_status = $6 AND updated_at = $7
	`
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		image.AnalysisStatus,
		image.AnalysisResult,
		image.AnalysisStartedAt,
		image.UpdatedAt,
		image.ID,
		from,
		fromUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("claim image analysis: %w", err)
	}
	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, image.ID); err != nil {
			return err
		}
		return &domain.ConflictError{
			Message:      "image analysis state changed concurrently",
			ResourceType: "image",
			ResourceID:   image.ID,
		}
	}
	return nil
}

// Delete removes an image record
func (r *PostgresImageRepository) Delete(ctx context.Context, id string) error {
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("image", id)
	}
	return nil
}

// ListStuck returns processing images whose analysis started before cutoff.
// Rows without a start time fall back to updated_at.
func (r *PostgresImageRepository) ListStuck(ctx context.Context, cutoff time.Time) ([]models.Image, error) {
	query := `
		SELECT ` + imageColumns + `
		FROM images
		WHERE analysis_status = 'processing'
		  AND COALESCE(analysis_started_at, updated_at) < $1
		ORDER BY created_at
	`
	return r.query(ctx, query, cutoff)
}

func (r *PostgresImageRepository) query(ctx context.Context, query string, args ...any) ([]models.Image, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	images := []models.Image{}
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, *image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}
	return images, nil
}

func scanImage(row rowScanner) (*models.Image, error) {
	var img models.Image
	var status string
	err := row.Scan(
		&img.ID,
		&img.ProjectID,
		&img.Filename,
		&img.OriginalName,
		&img.StoragePath,
		&img.Metadata,
		&status,
		&img.AnalysisResult,
		&img.AnalysisStartedAt,
		&img.CreatedAt,
		&img.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	img.AnalysisStatus = models.AnalysisStatus(status)
	return &img, nil
}
