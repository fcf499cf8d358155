package main

import (
	"bytes"
	"context"
	"flag"
	"log"
	"log/slog"

	"designsight/internal/config"
	"designsight/internal/domain/models"
	"designsight/internal/domain/services"
	"designsight/internal/repository/postgres"
	"designsight/internal/service/critic"
	"designsight/internal/service/review"
	"designsight/internal/storage/blob"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only apply migrations, don't seed data")
	clearData := flag.Bool("clear-data", false, "Delete all rows (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: cannot run destructive operations (-drop-tables or -clear-data) in production")
	}
	if cfg.Store != config.StorePostgres {
		log.Fatalf("Seeding requires STORE=postgres (got %s)", cfg.Store)
	}

	logger, logCloser, err := config.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	ctx := context.Background()

	if *dropTables {
		logger.Info("dropping all tables")
		if err := postgres.DropAll(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	if err := postgres.Migrate(cfg.DatabaseURL, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *schemaOnly {
		logger.Info("schema setup complete (schema-only mode)")
		return
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if *clearData {
		if err := postgres.ClearData(ctx, pool); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		logger.Info("data cleared")
		return
	}

	blobs, err := blob.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	repos := postgres.NewRepositories(&postgres.RepositoryConfig{Pool: pool, Logger: logger})
	svcs := review.SetupServices(repos, blobs, critic.NewStaticCritic(), review.Options{
		StatusPolicy:   cfg.FeedbackStatusPolicy,
		StaleAfter:     cfg.AnalysisStaleAfter,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CacheSize:      cfg.ImageCacheSize,
		CacheTTL:       cfg.ImageCacheTTL,
	}, logger)

	if err := seed(ctx, svcs, logger); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	logger.Info("seeding complete")
}

// seed creates a demo project with one analyzed mockup and a short
// discussion on its first finding
func seed(ctx context.Context, svcs *review.Services, logger *slog.Logger) error {
	description := "Landing page redesign for the spring launch"
	project, err := svcs.Projects.CreateProject(ctx, &services.CreateProjectRequest{
		Name:        "Demo: Marketing Site",
		Description: &description,
	})
	if err != nil {
		return err
	}
	logger.Info("created project", "id", project.ID, "name", project.Name)

	png, err := renderMockup(800, 600)
	if err != nil {
		return err
	}
	image, err := svcs.Images.UploadImage(ctx, &services.UploadImageRequest{
		ProjectID:    project.ID,
		OriginalName: "landing-page.png",
		Size:         int64(len(png)),
		File:         bytes.NewReader(png),
	})
	if err != nil {
		return err
	}
	logger.Info("uploaded image", "id", image.ID, "width", image.Metadata.Width, "height", image.Metadata.Height)

	analysis, err := svcs.Analysis.Analyze(ctx, image.ID, services.CritiqueOptions{Role: string(models.RoleDesigner)})
	if err != nil {
		return err
	}
	logger.Info("analyzed image", "id", image.ID, "feedback", analysis.Count)

	if analysis.Count == 0 {
		return nil
	}
	return seedDiscussion(ctx, svcs, analysis.Feedback[0].ID, logger)
}

func seedDiscussion(ctx context.Context, svcs *review.Services, feedbackID string, logger *slog.Logger) error {
	designer := models.Author{Name: "Alex Rivera", Role: models.RoleDesigner}
	developer := models.Author{Name: "Sam Chen", Role: models.RoleDeveloper}
	pm := models.Author{Name: "Jordan Lee", Role: models.RolePM}

	root, err := svcs.Comments.CreateComment(ctx, &services.CreateCommentRequest{
		FeedbackID: feedbackID,
		Author:     designer,
		Content:    "Agreed, the hero and the feature grid compete for attention. I'll tighten the hierarchy.",
	})
	if err != nil {
		return err
	}

	reply, err := svcs.Comments.CreateComment(ctx, &services.CreateCommentRequest{
		FeedbackID:      feedbackID,
		ParentCommentID: &root.ID,
		Author:          developer,
		Content:         "If the grid moves below the fold we can lazy load its images too.",
	})
	if err != nil {
		return err
	}

	if _, err := svcs.Comments.CreateComment(ctx, &services.CreateCommentRequest{
		FeedbackID:      feedbackID,
		ParentCommentID: &reply.ID,
		Author:          pm,
		Content:         "Fine by me as long as the signup CTA stays above it.",
		Mentions:        []models.Mention{{UserID: "sam.chen", Name: developer.Name}},
	}); err != nil {
		return err
	}

	if _, err := svcs.Comments.AddReaction(ctx, root.ID, &services.ReactionRequest{
		Type:   string(models.ReactionThumbsUp),
		Author: models.ReactionAuthor{Name: pm.Name, Role: pm.Role},
	}); err != nil {
		return err
	}

	logger.Info("seeded discussion", "feedback_id", feedbackID, "comments", 3)
	return nil
}
