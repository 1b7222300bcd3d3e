package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/router"
	"github.com/anonto42/yatube/backend/pkg/config"
	"github.com/anonto42/yatube/backend/pkg/firebase"
	"github.com/anonto42/yatube/backend/pkg/storage"
	"github.com/anonto42/yatube/backend/pkg/telemetry"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()
	config.SetupLogging(cfg)
	ctx := context.Background()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}
	defer shutdownTracing(context.Background())

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize databases")
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	if cfg.AutoMigrate {
		if err := repositories.AutoMigrate(db.SQL); err != nil {
			log.Fatal().Err(err).Msg("Failed to auto migrate models")
		}
		log.Info().Msg("Auto-migrations completed.")
	}

	media, err := openMediaStore(ctx, cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize media store")
	}

	// Firebase is optional; without credentials only local tokens are accepted.
	opts := router.Options{
		DB:           db.SQL,
		Media:        media,
		MediaBaseURL: cfg.MediaBaseURL,
		JWTSecret:    cfg.JWTSecret,
		JWTTTL:       cfg.JWTTTL,
	}
	if cfg.FirebaseCredentialsPath != "" {
		firebaseClient, err := firebase.NewClient(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Firebase")
		}
		opts.FirebaseAuth = firebaseClient
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	metrics := telemetry.NewMetrics()

	// Setup global middleware
	config.SetupMiddleware(e, metrics)

	// Setup routes and dependencies
	router.SetupRoutes(e, opts)

	go func() {
		log.Info().Str("port", cfg.MetricsPort).Msg("Metrics listening")
		if err := http.ListenAndServe(":"+cfg.MetricsPort, metrics.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server stopped")
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(e, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Server stopped.")
}

func openMediaStore(ctx context.Context, cfg *config.Config, db *config.DB) (storage.ObjectStore, error) {
	switch cfg.MediaBackend {
	case "file":
		return storage.NewFileStore(cfg.MediaRoot)
	case "minio":
		store, err := storage.NewMinioStore(storage.MinioConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "gridfs":
		if db.Mongo == nil {
			return nil, errors.New("MEDIA_BACKEND=gridfs requires MONGO_URI")
		}
		return storage.NewGridFSStore(db.Mongo.Database(cfg.MongoDatabase), "media")
	default:
		return nil, fmt.Errorf("unsupported MEDIA_BACKEND %q", cfg.MediaBackend)
	}
}
