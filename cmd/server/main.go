package main

import (
	"log"

	"github.com/alkime/avatarcast/internal/config"
	"github.com/alkime/avatarcast/internal/logger"
	"github.com/alkime/avatarcast/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	lgr := logger.SetupLogger(cfg)

	// Log startup information
	lgr.Info("Starting avatarcast development backend",
		"env", cfg.Env,
		"port", cfg.Port,
		"upload_dir", cfg.UploadDir,
		"output_dir", cfg.OutputDir,
	)

	srv, err := server.New(cfg, lgr)
	if err != nil {
		lgr.Error("Failed to create server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}

	if err := server.Run(srv); err != nil {
		lgr.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}
