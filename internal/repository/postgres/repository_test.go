package postgres

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"designsight/internal/domain"
	"designsight/internal/domain/models"
	"designsight/internal/domain/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db", migrateURL("postgres://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://u:p@h/db?sslmode=disable", migrateURL("postgresql://u:p@h/db?sslmode=disable"))
	assert.Equal(t, "pgx5://h/db", migrateURL("pgx5://h/db"))
}

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "", w.clause())

	w.add("status = ?", "open")
	w.add("? = ANY(target_roles)", "pm")
	assert.Equal(t, " WHERE status = $1 AND $2 = ANY(target_roles)", w.clause())

	limit, args := w.page(20, 40)
	assert.Equal(t, " LIMIT $3 OFFSET $4", limit)
	assert.Equal(t, []any{"open", "pm", 20, 40}, args)
	assert.Len(t, w.args, 2)
}

type testRepos struct {
	projects repositories.ProjectRepository
	images   repositories.ImageRepository
	feedback repositories.FeedbackRepository
	comments repositories.CommentRepository
	tx       repositories.TransactionManager
}

// setupTestDB starts PostgreSQL in a container and applies migrations
func setupTestDB(t *testing.T) *testRepos {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("designsight_test"),
		postgres.WithUsername("designsight"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, Migrate(dsn, logger))

	pool, err := CreateConnectionPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	cfg := &RepositoryConfig{Pool: pool, Logger: logger}
	return &testRepos{
		projects: NewProjectRepository(cfg),
		images:   NewImageRepository(cfg),
		feedback: NewFeedbackRepository(cfg),
		comments: NewCommentRepository(cfg),
		tx:       NewTransactionManager(cfg),
	}
}

func TestRepositories_Integration(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	project := &models.Project{ID: "proj-1", Name: "Website", Status: models.ProjectStatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.projects.Create(ctx, project))

	image := &models.Image{
		ID: "img-1", ProjectID: project.ID, Filename: "a.png", OriginalName: "a.png", StoragePath: "a.png",
		Metadata:       models.ImageMetadata{Width: 800, Height: 600, ByteSize: 1234, MimeType: "image/png"},
		AnalysisStatus: models.AnalysisPending, CreatedAt: now, UpdatedAt: now,
	}

	t.Run("image create and project link in one transaction", func(t *testing.T) {
		err := repos.tx.ExecTx(ctx, func(ctx context.Context) error {
			if err := repos.images.Create(ctx, image); err != nil {
				return err
			}
			return repos.projects.AddImage(ctx, project.ID, image.ID, now)
		})
		require.NoError(t, err)

		got, err := repos.projects.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"img-1"}, got.ImageIDs)

		// Adding twice keeps a single entry
		require.NoError(t, repos.projects.AddImage(ctx, project.ID, image.ID, now))
		got, err = repos.projects.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"img-1"}, got.ImageIDs)
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		err := repos.tx.ExecTx(ctx, func(ctx context.Context) error {
			ghost := *image
			ghost.ID = "img-ghost"
			if err := repos.images.Create(ctx, &ghost); err != nil {
				return err
			}
			return domain.NewValidation("x", "boom")
		})
		require.Error(t, err)

		_, err = repos.images.GetByID(ctx, "img-ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("claim analysis compares status and updated_at", func(t *testing.T) {
		claimed := *image
		claimed.AnalysisStatus = models.AnalysisFailed
		claimed.UpdatedAt = now.Add(time.Second)
		require.NoError(t, repos.images.ClaimAnalysis(ctx, &claimed, models.AnalysisPending, now))

		stale := claimed
		stale.UpdatedAt = now.Add(2 * time.Second)
		err := repos.images.ClaimAnalysis(ctx, &stale, models.AnalysisPending, now)
		assert.ErrorIs(t, err, domain.ErrConflict)

		err = repos.images.ClaimAnalysis(ctx, &models.Image{ID: "img-missing"}, models.AnalysisPending, now)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("analysis result round trip", func(t *testing.T) {
		score := 80.0
		started := now
		image.AnalysisStatus = models.AnalysisProcessing
		image.AnalysisStartedAt = &started
		require.NoError(t, repos.images.UpdateAnalysis(ctx, image))

		stuck, err := repos.images.ListStuck(ctx, now.Add(time.Minute))
		require.NoError(t, err)
		require.Len(t, stuck, 1)

		image.AnalysisStatus = models.AnalysisCompleted
		image.AnalysisResult = &models.AnalysisResult{Summary: "ok", OverallScore: &score, Raw: []byte(`{"a":1}`), ProcessedAt: now}
		require.NoError(t, repos.images.UpdateAnalysis(ctx, image))

		got, err := repos.images.GetByID(ctx, image.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AnalysisCompleted, got.AnalysisStatus)
		require.NotNil(t, got.AnalysisResult)
		assert.Equal(t, "ok", got.AnalysisResult.Summary)
		assert.Equal(t, 800, got.Metadata.Width)
	})

	fb := &models.Feedback{
		ID: "fb-1", ImageID: image.ID, Category: models.CategoryAccessibility, Severity: models.SeverityHigh,
		Title: "Contrast", Description: "Low", Coordinates: models.Coordinates{X: 1, Y: 2, Width: 10, Height: 10},
		TargetRoles: []models.Role{models.RoleDesigner, models.RolePM}, Status: models.FeedbackOpen, Priority: 4,
		CreatedAt: now, UpdatedAt: now,
	}

	t.Run("feedback filters", func(t *testing.T) {
		require.NoError(t, repos.feedback.Create(ctx, fb))

		items, total, err := repos.feedback.List(ctx, models.FeedbackFilter{
			ImageIDs:   []string{image.ID},
			Role:       models.RolePM,
			Pagination: models.Pagination{Page: 1, Limit: 10},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, []models.Role{models.RoleDesigner, models.RolePM}, items[0].TargetRoles)
		assert.Empty(t, items[0].Tags)

		items, total, err = repos.feedback.List(ctx, models.FeedbackFilter{
			ImageIDs:   []string{},
			Pagination: models.Pagination{Page: 1, Limit: 10},
		})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, items)
	})

	t.Run("comments with JSONB fields", func(t *testing.T) {
		root := &models.Comment{
			ID: "c-1", FeedbackID: fb.ID, Author: models.Author{Name: "Ana", Role: models.RoleDesigner},
			Content: "Agreed", Status: models.CommentActive, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, repos.comments.Create(ctx, root))

		parent := root.ID
		reply := &models.Comment{
			ID: "c-2", FeedbackID: fb.ID, ParentCommentID: &parent, Author: models.Author{Name: "Raj", Role: models.RoleDeveloper},
			Content: "On it", Status: models.CommentActive, CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second),
		}
		require.NoError(t, repos.comments.Create(ctx, reply))

		root.AddReaction(models.ReactionLike, models.ReactionAuthor{Name: "Raj"}, now)
		require.NoError(t, repos.comments.Update(ctx, root))

		got, err := repos.comments.GetByID(ctx, root.ID)
		require.NoError(t, err)
		require.Len(t, got.Reactions, 1)
		assert.Equal(t, "Raj", got.Reactions[0].Author.Name)

		replies, err := repos.comments.ListReplies(ctx, root.ID)
		require.NoError(t, err)
		require.Len(t, replies, 1)
		assert.Equal(t, "c-2", replies[0].ID)

		_, total, err := repos.comments.List(ctx, models.CommentFilter{
			FeedbackID: fb.ID, AuthorRole: models.RoleDeveloper, Pagination: models.Pagination{Page: 1, Limit: 10},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("cascade delete", func(t *testing.T) {
		err := repos.tx.ExecTx(ctx, func(ctx context.Context) error {
			ids, err := repos.feedback.DeleteByImage(ctx, image.ID)
			if err != nil {
				return err
			}
			assert.Equal(t, []string{fb.ID}, ids)
			if err := repos.comments.DeleteByFeedback(ctx, ids...); err != nil {
				return err
			}
			if err := repos.images.Delete(ctx, image.ID); err != nil {
				return err
			}
			return repos.projects.RemoveImage(ctx, project.ID, image.ID, now)
		})
		require.NoError(t, err)

		all, err := repos.comments.ListByFeedback(ctx, fb.ID)
		require.NoError(t, err)
		assert.Empty(t, all)

		got, err := repos.projects.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Empty(t, got.ImageIDs)
	})
}
