// Package server implements a development backend for the avatar video
// service API. Catalogs are served from built-in tables and generation
// fabricates results, so the TUI client can be exercised end to end without
// the real media pipeline.
package server

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alkime/avatarcast/internal/config"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server.
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine
}

// New creates a new Server instance.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Ensure storage directories exist
	for _, dir := range []string{cfg.UploadDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}

	router := gin.Default()

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
	}

	// Setup middleware and routes
	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server, nil
}

// Router exposes the underlying router for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server.
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/start_services", s.handleStartServices)
		api.GET("/languages", s.handleLanguages)
		api.GET("/voices", s.handleVoices)
		api.GET("/avatars", s.handleAvatars)
		api.POST("/upload", s.handleUpload)
		api.POST("/generate", s.handleGenerate)
		api.GET("/video/:id", s.handleVideo)
		api.GET("/download/:id", s.handleDownload)
	}

	// Avatar preview images and other assets
	s.router.Use(static.Serve("/static", static.LocalFile(s.config.StaticDir, false)))
}

func (s *Server) uploadPath(fileID, fileExt string) string {
	return filepath.Join(s.config.UploadDir, fileID+"."+fileExt)
}

func (s *Server) outputPath(videoID string) string {
	return filepath.Join(s.config.OutputDir, videoID+".mp4")
}
