package main

import (
	"os"

	"github.com/yigit/hireboard/internal/pkg/logger"
	"github.com/yigit/hireboard/internal/server"
)

// @title Hireboard API
// @version 1.0
// @description Job board API: companies publish jobs, candidates apply, and both sides chat in realtime.

// @contact.name API Support
// @contact.email support@hireboard.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token as "Bearer <token>"

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
