package main

// Run database migrations:
//   go run ./cmd/migrate [up|down|status|version|redo|reset]

import (
	"context"
	"os"

	"progresslog-api/internal/shared/config"
	"progresslog-api/internal/shared/storage/db"
	"progresslog-api/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	logger, closer := telemetry.Open(cfg.LogLevel, cfg.LogFile)
	defer closer.Close()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions(), logger)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts, logger)
	if err != nil {
		logger.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		closer.Close()
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, command); err != nil {
		logger.Error("migrate.failed", map[string]any{"command": command, "error": err.Error()})
		sqlDB.Close()
		closer.Close()
		os.Exit(1)
	}
	logger.Info("migrate.done", map[string]any{"command": command})
}
