package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tankgo/internal/bootstrap/config"
	"tankgo/internal/bootstrap/database"
	"tankgo/internal/bootstrap/logging"
	"tankgo/internal/errs"
	"tankgo/internal/infrastructure/persistence/schema"
	"tankgo/internal/infrastructure/persistence/sqlite/model"
	"tankgo/internal/infrastructure/remote"
	"tankgo/internal/ports"
	"tankgo/internal/usecase/accounts"
	"tankgo/internal/usecase/favorites"
	"tankgo/internal/usecase/health"
	"tankgo/internal/usecase/offline"
	"tankgo/internal/usecase/session"
	"tankgo/internal/usecase/stations"
)

// SchemaVersion is bumped whenever a model changes shape.
const SchemaVersion = "1"

type App struct {
	Config config.Config
	DB     *gorm.DB

	Host      *offline.Host
	Accounts  *accounts.Service
	Session   *session.Session
	Favorites *favorites.Service
	Stations  *stations.Service
	Health    *health.Checker
	Probe     *health.Probe
	Control   *remote.ControlClient

	// RemoteStations reads station details straight from the API.
	RemoteStations ports.StationsRemote
}

func New(ctx context.Context, configFile string) (*App, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "loading application config", slog.String("config_file", configFile))

	cfg, err := config.Load(logCtx, configFile)
	if err != nil {
		return nil, errs.Wrap(err, "load config")
	}

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, errs.Wrap(err, "open database")
	}

	logging.Info(logCtx, "application bootstrap completed", slog.String("database_driver", cfg.Database.Driver))

	return &App{
		Config: cfg,
		DB:     db,
	}, nil
}

func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration")

	if err := a.DB.WithContext(ctx).AutoMigrate(
		&schema.SchemaMeta{},
		&model.ClientKV{},
		&model.CacheNamespace{},
		&model.CachedResponse{},
		&model.User{},
		&model.UserFavorite{},
		&model.Station{},
	); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}

	meta := schema.SchemaMeta{Key: "schema_version", Value: SchemaVersion}
	if err := a.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error; err != nil {
		return errs.Wrap(err, "record schema version")
	}

	logging.Info(logCtx, "schema migration completed", slog.String("schema_version", SchemaVersion))
	return nil
}

func (a *App) Close(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	sqlDB, err := a.DB.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}

	if err := sqlDB.Close(); err != nil {
		return errs.Wrap(err, "close sql db")
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "bootstrap.app")), "database connection closed")
	return nil
}
