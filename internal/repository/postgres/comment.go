package postgres

import (
	"context"
	"fmt"

	"designsight/internal/domain"
	"designsight/internal/domain/models"
	"designsight/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

const commentColumns = `id, feedback_id, parent_comment_id, author, content, mentions, attachments,
	reactions, status, edit_history, created_at, updated_at`

// PostgresCommentRepository implements the CommentRepository interface.
// Nested author, mention, attachment, reaction and edit records live in
// JSONB columns.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(config *RepositoryConfig) repositories.CommentRepository {
	return &PostgresCommentRepository{pool: config.Pool}
}

// Create inserts a comment
func (r *PostgresCommentRepository) Create(ctx context.Context, c *models.Comment) error {
	query := `
		INSERT INTO comments (` + commentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		c.ID,
		c.FeedbackID,
		c.ParentCommentID,
		c.Author,
		c.Content,
		orEmptySlice(c.Mentions),
		orEmptySlice(c.Attachments),
		orEmptySlice(c.Reactions),
		c.Status,
		orEmptySlice(c.EditHistory),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("comment %s already exists", c.ID),
				ResourceType: "comment",
				ResourceID:   c.ID,
			}
		}
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by ID, including deleted comments
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	executor := GetExecutor(ctx, r.pool)
	c, err := scanComment(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("comment", id)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// List retrieves comments matching the filter, newest first
func (r *PostgresCommentRepository) List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, int, error) {
	var where whereBuilder
	if filter.FeedbackID != "" {
		where.add("feedback_id = ?", filter.FeedbackID)
	}
	if filter.ParentCommentID != "" {
		where.add("parent_comment_id = ?", filter.ParentCommentID)
	}
	if filter.AuthorRole != "" {
		where.add("author->>'role' = ?", string(filter.AuthorRole))
	}
	if !filter.IncludeDeleted {
		where.add("status <> ?", string(models.CommentDeleted))
	}

	executor := GetExecutor(ctx, r.pool)

	var total int
	if err := executor.QueryRow(ctx, `SELECT count(*) FROM comments`+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	limit, args := where.page(filter.Limit, filter.Offset())
	query := `SELECT ` + commentColumns + ` FROM comments` + where.clause() + ` ORDER BY created_at DESC, id` + limit

	comments, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// ListByFeedback retrieves every comment of a feedback item, oldest first
func (r *PostgresCommentRepository) ListByFeedback(ctx context.Context, feedbackID string) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE feedback_id = $1 ORDER BY created_at, id`
	return r.query(ctx, query, feedbackID)
}

// ListReplies retrieves direct replies of a comment, oldest first
func (r *PostgresCommentRepository) ListReplies(ctx context.Context, parentID string) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE parent_comment_id = $1 ORDER BY created_at, id`
	return r.query(ctx, query, parentID)
}

// Update persists the mutable fields of a comment
func (r *PostgresCommentRepository) Update(ctx context.Context, c *models.Comment) error {
	query := `
		UPDATE comments
		SET content = $1, mentions = $2, attachments = $3, reactions = $4,
		    status = $5, edit_history = $6, updated_at = $7
		WHERE id = $8
	`
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		c.Content,
		orEmptySlice(c.Mentions),
		orEmptySlice(c.Attachments),
		orEmptySlice(c.Reactions),
		c.Status,
		orEmptySlice(c.EditHistory),
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("comment", c.ID)
	}
	return nil
}

// DeleteByFeedback physically removes the comments of the given feedback items
func (r *PostgresCommentRepository) DeleteByFeedback(ctx context.Context, feedbackIDs ...string) error {
	if len(feedbackIDs) == 0 {
		return nil
	}
	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, `DELETE FROM comments WHERE feedback_id = ANY($1)`, feedbackIDs); err != nil {
		return fmt.Errorf("delete feedback comments: %w", err)
	}
	return nil
}

func (r *PostgresCommentRepository) query(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	var status string
	err := row.Scan(
		&c.ID,
		&c.FeedbackID,
		&c.ParentCommentID,
		&c.Author,
		&c.Content,
		&c.Mentions,
		&c.Attachments,
		&c.Reactions,
		&status,
		&c.EditHistory,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = models.CommentStatus(status)
	c.Mentions = orEmptySlice(c.Mentions)
	c.Attachments = orEmptySlice(c.Attachments)
	c.Reactions = orEmptySlice(c.Reactions)
	c.EditHistory = orEmptySlice(c.EditHistory)
	return &c, nil
}
