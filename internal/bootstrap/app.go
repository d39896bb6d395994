package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"progresslog-api/internal/evidence"
	"progresslog-api/internal/routes"
	"progresslog-api/internal/services/health"
	"progresslog-api/internal/shared/config"
	"progresslog-api/internal/shared/metrics"
	"progresslog-api/internal/shared/server"
	"progresslog-api/internal/shared/storage/db"
	"progresslog-api/internal/shared/telemetry"
	"progresslog-api/internal/shared/upload"
	"progresslog-api/internal/shared/validation"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Logger          *telemetry.Logger
	Metrics         *metrics.Metrics
	Intake          *upload.Intake
	EvidenceRepo    evidence.Repo
	EvidenceService *evidence.Service
	Health          *health.Service

	closers []io.Closer
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	cfg.Normalize()
	ctx := context.Background()
	validation.MaxBodySize = cfg.BodyLimit

	logger, logCloser := telemetry.Open(cfg.LogLevel, cfg.LogFile)
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
		closers: []io.Closer{logCloser},
	}

	sqlDB, err := buildDB(ctx, cfg, logger)
	if err != nil {
		app.Close()
		return nil, err
	}
	if sqlDB != nil {
		app.DB = sqlDB
		app.closers = append(app.closers, sqlDB)
	}

	intake, err := upload.New(upload.Options{
		Dir:         cfg.UploadDir,
		URLPrefix:   cfg.UploadURLPrefix,
		MaxFileSize: cfg.MaxFileSize,
		MaxFiles:    cfg.MaxFiles,
		Sniff:       cfg.SniffUploads,
		Metrics:     app.Metrics,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("upload intake: %w", err)
	}
	app.Intake = intake

	if app.DB != nil {
		app.EvidenceRepo = &evidence.PGRepo{DB: app.DB}
	} else {
		app.EvidenceRepo = evidence.NewMemoryRepo()
	}
	app.EvidenceService = &evidence.Service{
		Repo:    app.EvidenceRepo,
		Files:   intake.Store(),
		Metrics: app.Metrics,
		Logger:  logger,
	}
	app.Health = health.NewService(app.DB, cfg.Version)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:  cfg,
		Logger:  logger,
		Metrics: app.Metrics,
		Routes: routes.Deps{
			Health:   app.Health,
			Evidence: evidence.NewHandler(app.EvidenceService),
			Intake:   intake,
		},
	})

	logger.Info("bootstrap.ready", map[string]any{
		"env":        cfg.Env,
		"upload_dir": intake.Dir(),
		"database":   app.DB != nil,
		"version":    cfg.Version,
	})
	return app, nil
}

// Close releases the database pool and log file.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config, logger *telemetry.Logger) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			logger.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions(), logger)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts, logger)
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			logger.Warn("bootstrap.db.memory", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch env {
	case "development", "test":
		return true
	default:
		return false
	}
}
