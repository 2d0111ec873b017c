package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Dr-Rakesh/Answer-automation/config"
	"github.com/Dr-Rakesh/Answer-automation/handler"
	"github.com/Dr-Rakesh/Answer-automation/middleware"
	"github.com/Dr-Rakesh/Answer-automation/pkg/logger"
	"github.com/Dr-Rakesh/Answer-automation/pkg/metrics"
	"github.com/Dr-Rakesh/Answer-automation/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found", "error", err)
	}

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Ensure working directories exist
	for _, dir := range []string{cfg.Dirs.Messages, cfg.Dirs.URLs, cfg.Dirs.Output} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("failed to create directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	// Register Prometheus collectors
	metrics.Init()

	// Optional S3-compatible artifact mirror
	var archiveSvc *service.ArchiveService
	if cfg.Archive.Enabled {
		archiveSvc, err = service.NewArchiveService(&cfg.Archive)
		if err != nil {
			slog.Error("failed to initialize archive service", "error", err)
			os.Exit(1)
		}
		if err := archiveSvc.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure archive bucket", "error", err)
			os.Exit(1)
		}
	}

	// Initialize batch store with config
	service.InitBatchStore(&cfg.Store)

	// Initialize services
	qaSvc := service.NewQAService(&cfg.QA)
	artifactStore := service.NewArtifactStore(cfg.Dirs.Messages, archiveSvc)
	processor := service.NewProcessor(qaSvc, artifactStore, service.GetBatchStore(), cfg.Dirs.Output)

	// Retention sweeper for old artifacts and outputs
	var sweeper *service.Sweeper
	if cfg.Sweeper.Enabled {
		sweeper, err = service.NewSweeper(&cfg.Sweeper, cfg.Dirs.Output, cfg.Dirs.Messages)
		if err != nil {
			slog.Error("failed to initialize sweeper", "error", err)
			os.Exit(1)
		}
		sweeper.Start()
	}

	// Initialize handlers
	processHandler := handler.NewProcessHandler(processor)
	batchHandler := handler.NewBatchHandler()
	frontendHandler := handler.NewFrontendHandler(cfg.Server.StaticDir)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(cacheMiddleware())                      // Cache control
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Frontend and static assets
	router.Static("/static", cfg.Server.StaticDir)
	router.GET("/", frontendHandler.Index)

	// Health check and metrics endpoints
	router.GET("/health", frontendHandler.Health)
	router.GET("/metrics", metrics.Handler())

	// Upload endpoint
	router.POST("/upload-file/", processHandler.Upload)

	// Batch registry
	api := router.Group("/api")
	{
		api.GET("/batches", batchHandler.List)
		api.GET("/batches/:id", batchHandler.Get)
		api.DELETE("/batches/:id", batchHandler.Delete)
	}

	// Create server. The write timeout stays unset: a batch holds its
	// request open for one API call per row and can legitimately run
	// for many minutes.
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     router,
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	if sweeper != nil {
		sweeper.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-Batch-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// cacheMiddleware sets cache control headers for static files
func cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		// Skip caching for API routes and uploads
		if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/upload-file") {
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
			return
		}

		// Set cache headers for static files (1 hour)
		if strings.HasSuffix(path, ".js") ||
			strings.HasSuffix(path, ".css") ||
			strings.HasSuffix(path, ".html") ||
			path == "/" {
			c.Header("Cache-Control", "public, max-age=3600, must-revalidate")
		}

		c.Next()
	}
}
