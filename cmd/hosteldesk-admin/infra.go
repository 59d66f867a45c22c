package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hosteldesk/hosteldesk/internal/bootstrap"
)

// connectDB wires up the database connection every admin command needs.
func connectDB(cmdCtx *commandContext) (*sql.DB, error) {
	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig:    cmdCtx.Config.Postgres,
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return db, nil
}

func closeDB(logger *slog.Logger, db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.Warn("db close failed", "error", err)
	}
}

// buildServices assembles the service container against the given database.
// Admin commands never need Redis; sessions the commands create are throwaway.
func buildServices(cmdCtx *commandContext, db *sql.DB) bootstrap.ServiceContainer {
	return bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cmdCtx.Config,
		DB:     db,
		Logger: cmdCtx.Logger,
	})
}
