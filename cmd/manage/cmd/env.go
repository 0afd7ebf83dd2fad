package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/app"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/db"
	"github.com/recipebox/recipebox/internal/logger"
)

// loadConfig reads the same environment as the server.
func loadConfig() *config.Config {
	cfg := config.Load()
	logger.Init(logger.Options{
		Development: true,
		Environment: cfg.AppEnv,
	})
	return cfg
}

// openDB connects without applying migrations.
func openDB(cfg *config.Config) (*sqlx.DB, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// openApp wires the full service graph and migrates the database.
func openApp() (*app.App, error) {
	return app.New(loadConfig())
}
