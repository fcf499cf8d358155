package postgres

import (
	"context"
	"fmt"

	"designsight/internal/domain"
	"designsight/internal/domain/models"
	"designsight/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

const feedbackColumns = `id, image_id, category, severity, title, description, x, y, width, height,
	target_roles, recommendations, status, priority, tags, created_at, updated_at, resolved_at`

// PostgresFeedbackRepository implements the FeedbackRepository interface
type PostgresFeedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(config *RepositoryConfig) repositories.FeedbackRepository {
	return &PostgresFeedbackRepository{pool: config.Pool}
}

// Create inserts a feedback item
func (r *PostgresFeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	query := `
		INSERT INTO feedback (` + feedbackColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		f.ID,
		f.ImageID,
		f.Category,
		f.Severity,
		f.Title,
		f.Description,
		f.Coordinates.X,
		f.Coordinates.Y,
		f.Coordinates.Width,
		f.Coordinates.Height,
		toStrings(f.TargetRoles),
		orEmptySlice(f.Recommendations),
		f.Status,
		f.Priority,
		orEmptySlice(f.Tags),
		f.CreatedAt,
		f.UpdatedAt,
		f.ResolvedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("feedback %s already exists", f.ID),
				ResourceType: "feedback",
				ResourceID:   f.ID,
			}
		}
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// GetByID retrieves a feedback item by ID
func (r *PostgresFeedbackRepository) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1`

	executor := GetExecutor(ctx, r.pool)
	f, err := scanFeedback(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("feedback", id)
		}
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	return f, nil
}

// List retrieves feedback matching the filter
func (r *PostgresFeedbackRepository) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error) {
	if filter.ImageIDs != nil && len(filter.ImageIDs) == 0 {
		return []models.Feedback{}, 0, nil
	}

	var where whereBuilder
	if filter.ImageIDs != nil {
		where.add("image_id = ANY(?)", filter.ImageIDs)
	}
	if filter.Category != "" {
		where.add("category = ?", filter.Category)
	}
	if filter.Severity != "" {
		where.add("severity = ?", filter.Severity)
	}
	if filter.Role != "" {
		where.add("? = ANY(target_roles)", string(filter.Role))
	}
	if filter.Status != "" {
		where.add("status = ?", filter.Status)
	}

	executor := GetExecutor(ctx, r.pool)

	var total int
	if err := executor.QueryRow(ctx, `SELECT count(*) FROM feedback`+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count feedback: %w", err)
	}

	order := ` ORDER BY created_at DESC, id`
	if filter.Sort == models.SortPriority {
		order = ` ORDER BY priority DESC, created_at DESC, id`
	}
	limit, args := where.page(filter.Limit, filter.Offset())
	query := `SELECT ` + feedbackColumns + ` FROM feedback` + where.clause() + order + limit

	items, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByImage retrieves all feedback of an image, newest first
func (r *PostgresFeedbackRepository) ListByImage(ctx context.Context, imageID string) ([]models.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE image_id = $1 ORDER BY created_at DESC, id`
	return r.query(ctx, query, imageID)
}

// Update persists every mutable field
func (r *PostgresFeedbackRepository) Update(ctx context.Context, f *models.Feedback) error {
	query := `
		UPDATE feedback
		SET category = $1, severity = $2, title = $3, description = $4,
		    x = $5, y = $6, width = $7, height = $8,
		    target_roles = $9, recommendations = $10, status = $11, priority = $12,
		    tags = $13, updated_at = $14, resolved_at = $15
		WHERE id = $16
	`
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		f.Category,
		f.Severity,
		f.Title,
		f.Description,
		f.Coordinates.X,
		f.Coordinates.Y,
		f.Coordinates.Width,
		f.Coordinates.Height,
		toStrings(f.TargetRoles),
		orEmptySlice(f.Recommendations),
		f.Status,
		f.Priority,
		orEmptySlice(f.Tags),
		f.UpdatedAt,
		f.ResolvedAt,
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("update feedback: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("feedback", f.ID)
	}
	return nil
}

// Delete removes a feedback item
func (r *PostgresFeedbackRepository) Delete(ctx context.Context, id string) error {
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("feedback", id)
	}
	return nil
}

// DeleteByImage removes all feedback of an image and returns the removed ids
func (r *PostgresFeedbackRepository) DeleteByImage(ctx context.Context, imageID string) ([]string, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, `DELETE FROM feedback WHERE image_id = $1 RETURNING id`, imageID)
	if err != nil {
		return nil, fmt.Errorf("delete image feedback: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deleted feedback id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted feedback: %w", err)
	}
	return ids, nil
}

func (r *PostgresFeedbackRepository) query(ctx context.Context, query string, args ...any) ([]models.Feedback, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	items := []models.Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return items, nil
}

func scanFeedback(row rowScanner) (*models.Feedback, error) {
	var f models.Feedback
	var category, severity, status string
	var roles []string
	err := row.Scan(
		&f.ID,
		&f.ImageID,
		&category,
		&severity,
		&f.Title,
		&f.Description,
		&f.Coordinates.X,
		&f.Coordinates.Y,
		&f.Coordinates.Width,
		&f.Coordinates.Height,
		&roles,
		&f.Recommendations,
		&status,
		&f.Priority,
		&f.Tags,
		&f.CreatedAt,
		&f.UpdatedAt,
		&f.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Category = models.Category(category)
	f.Severity = models.Severity(severity)
	f.Status = models.FeedbackStatus(status)
	f.TargetRoles = fromStrings[models.Role](roles)
	f.Recommendations = orEmptySlice(f.Recommendations)
	f.Tags = orEmptySlice(f.Tags)
	return &f, nil
}
