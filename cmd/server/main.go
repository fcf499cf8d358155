package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"designsight/internal/capabilities"
	"designsight/internal/config"
	"designsight/internal/domain/repositories"
	"designsight/internal/handler"
	"designsight/internal/middleware"
	"designsight/internal/repository/memory"
	"designsight/internal/repository/postgres"
	"designsight/internal/service/critic"
	"designsight/internal/service/review"
	"designsight/internal/storage/blob"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, logCloser, err := config.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.Store,
		"critic", cfg.CriticProvider,
	)

	ctx := context.Background()

	repos, pool, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	if pool != nil {
		defer pool.Close()
	}

	blobs, err := blob.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}

	imageCritic, err := critic.New(critic.Config{
		Provider: cfg.CriticProvider,
		APIKey:   cfg.AnthropicAPIKey,
		Model:    cfg.CriticModel,
		Timeout:  cfg.CriticTimeout,
	}, capabilityRegistry, logger)
	if err != nil {
		log.Fatalf("Failed to set up critic: %v", err)
	}

	svcs := review.SetupServices(repos, blobs, imageCritic, review.Options{
		StatusPolicy:   cfg.FeedbackStatusPolicy,
		StaleAfter:     cfg.AnalysisStaleAfter,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CacheSize:      cfg.ImageCacheSize,
		CacheTTL:       cfg.ImageCacheTTL,
	}, logger)

	// Images left in processing by a previous process can never finish
	if n, err := svcs.Analysis.RecoverStuck(ctx, cfg.AnalysisStaleAfter); err != nil {
		logger.Error("stuck analysis recovery failed", "error", err)
	} else if n > 0 {
		logger.Warn("recovered stuck analyses", "count", n)
	}

	logger.Info("services initialized")

	var db handler.Pinger
	if pool != nil {
		db = pool
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, &handler.Handlers{
		Health:   handler.NewHealthHandler(cfg.Store, imageCritic.Name(), db),
		Models:   handler.NewModelsHandler(cfg, logger, capabilityRegistry),
		Projects: handler.NewProjectHandler(svcs.Projects, logger),
		Images:   handler.NewImageHandler(svcs.Images, svcs.Analysis, svcs.Reports, cfg.MaxUploadBytes, logger),
		Feedback: handler.NewFeedbackHandler(svcs.Feedback, svcs.Comments, logger),
		Comments: handler.NewCommentHandler(svcs.Comments, logger),
	})

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → Logger → Metrics → Recovery → RateLimit → Routes
	var h http.Handler = mux
	if cfg.RateLimitEnabled() {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, logger)
		h = limiter.Middleware(h)
		logger.Info("rate limiting enabled", "requests", cfg.RateLimitRequests, "window", cfg.RateLimitWindow)
	}
	h = middleware.Recovery(logger)(h)
	h = middleware.Metrics()(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.RequestID()(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     h,
		ReadTimeout: 2 * time.Minute, // large uploads
		// Analysis waits on the critic, which has its own timeout
		WriteTimeout: cfg.CriticTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	logger.Info("shutting down", "signal", sig.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// openStore selects the repository backend. The pool is nil for the memory store.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories.Set, *pgxpool.Pool, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore().Repositories(), nil, nil
	}

	if err := postgres.Migrate(cfg.DatabaseURL, logger); err != nil {
		return nil, nil, err
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("database connected")

	return postgres.NewRepositories(&postgres.RepositoryConfig{Pool: pool, Logger: logger}), pool, nil
}
