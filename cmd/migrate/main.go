// Command migrate creates or updates the database schema and exits.
// Use it when the server runs with RUN_MIGRATIONS=false.
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"library_backend/internal/app/di"
	"library_backend/internal/platform/config"
	platformdb "library_backend/internal/platform/db"
	"library_backend/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	db, err := platformdb.Open(platformdb.Config{
		Driver:        cfg.DBDriver,
		DatabaseURL:   cfg.DatabaseURL,
		SQLitePath:    cfg.SQLitePath,
		RunMigrations: true,
	}, di.Models()...)
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("migration complete")
}
