// Package main is the entry point for the Stagehand API server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/stagehand-live/stagehand/internal/api"
	"github.com/stagehand-live/stagehand/internal/auth"
	"github.com/stagehand-live/stagehand/internal/character"
	"github.com/stagehand-live/stagehand/internal/config"
	"github.com/stagehand-live/stagehand/internal/db"
	"github.com/stagehand-live/stagehand/internal/event"
	"github.com/stagehand-live/stagehand/internal/gallery"
	"github.com/stagehand-live/stagehand/internal/health"
	"github.com/stagehand-live/stagehand/internal/image"
	"github.com/stagehand-live/stagehand/internal/middleware"
	"github.com/stagehand-live/stagehand/internal/overlay"
	"github.com/stagehand-live/stagehand/internal/scene"
	"github.com/stagehand-live/stagehand/internal/style"
	"github.com/stagehand-live/stagehand/internal/template"
	"github.com/stagehand-live/stagehand/internal/tracing"
	"github.com/stagehand-live/stagehand/internal/upload"
)

const (
	serviceName     = "stagehand-api"
	overlayDir      = "./web/overlay"
	shutdownTimeout = 10 * time.Second
	cleanupInterval = 5 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "summary", cfg.LogSummary())

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  serviceName,
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplingRate: cfg.TraceSampling,
		InsecureMode: cfg.TracingInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracing shutdown error", "error", err)
		}
	}()

	conn, err := db.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer conn.Close()

	if cfg.SeedOnStartup {
		if err := db.Seed(ctx, conn); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	handler, redisClient, err := buildHandler(cfg, logger, conn)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// buildHandler assembles repositories, services, the router, and the
// middleware chain. The returned Redis client is nil when no REDIS_URL is
// configured.
func buildHandler(cfg *config.Config, logger *slog.Logger, conn *sql.DB) (http.Handler, *redis.Client, error) {
	credentials, err := auth.NewCredentials(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.AdminPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build admin credentials: %w", err)
	}
	sessions := auth.NewSessionServiceWithRotation(cfg.SessionSecret, cfg.SessionSecretPrevious)

	store, uploadsDir, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	var sanitizer *image.Sanitizer
	if cfg.SanitizeUploads {
		sanitizer = image.NewSanitizer(image.DefaultSanitizerConfig())
	}

	metrics := middleware.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		return nil, nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	var redisClient *redis.Client
	var loginLimiter middleware.RateLimitStore
	checkers := map[string]health.Checker{
		"database": health.NewDBChecker(conn),
	}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
		loginLimiter = middleware.NewRedisRateLimitStore(redisClient, metrics)
		checkers["redis"] = health.NewRedisChecker(redisClient)
	} else {
		memStore := middleware.NewInMemoryRateLimitStore()
		loginLimiter = memStore
		go func() {
			ticker := time.NewTicker(cleanupInterval)
			defer ticker.Stop()
			for range ticker.C {
				memStore.Cleanup()
			}
		}()
	}

	router := api.NewRouter(api.RouterConfig{
		Scenes:         scene.NewSQLRepository(conn),
		Characters:     character.NewSQLRepository(conn),
		Events:         event.NewSQLRepository(conn),
		Styles:         style.NewSQLRepository(conn),
		Templates:      template.NewSQLRepository(conn),
		Images:         gallery.NewSQLRepository(conn),
		Store:          store,
		Sanitizer:      sanitizer,
		Hub:            overlay.NewHub(),
		Sessions:       sessions,
		Credentials:    credentials,
		LoginLimiter:   loginLimiter,
		Metrics:        metrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		HealthHandler:  health.Handler(checkers),
		UploadsDir:     uploadsDir,
		OverlayDir:     overlayDir,
		MaxUploadBytes: int64(cfg.MaxUploadSizeMB) << 20,
		SecureCookies:  cfg.Env == "production",
	})

	handler := middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSAllowedOrigins))(router)
	handler = middleware.HTTPMetrics(metrics)(handler)
	handler = middleware.Logging(logger)(handler)
	if cfg.TracingEnabled {
		handler = middleware.Tracing(serviceName)(handler)
	}
	handler = middleware.RequestID(handler)

	return handler, redisClient, nil
}

// buildStore picks the upload backend. R2 when configured, local disk
// otherwise; only the disk backend serves /uploads/ itself.
func buildStore(cfg *config.Config) (upload.Store, string, error) {
	if cfg.R2Configured() {
		store, err := upload.NewR2Store(upload.R2Config{
			BucketName:      cfg.R2BucketName,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			Endpoint:        cfg.R2Endpoint,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to build R2 store: %w", err)
		}
		return store, "", nil
	}

	store, err := upload.NewDiskStore(cfg.UploadDir, "/uploads")
	if err != nil {
		return nil, "", fmt.Errorf("failed to build upload directory: %w", err)
	}
	return store, store.Dir(), nil
}
