package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/yigit/starmentor/internal/pkg/logger"
	"github.com/yigit/starmentor/internal/server"
)

// @title STAR Mentorship API
// @version 1.0
// @description Committee-scoped mentorship dashboard: weeks, projects, attendance, announcements and feedback

// @contact.name STAR Committee Tech Team

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer access token from /auth/signin

func main() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = filepath.Join("configs", "config.yaml")
	}
	configPath := flag.String("config", defaultPath, "path to the YAML config file")
	flag.Parse()

	srv, err := server.NewServer(*configPath)
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
