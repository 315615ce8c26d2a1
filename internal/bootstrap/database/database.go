package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tankgo/internal/bootstrap/config"
	"tankgo/internal/bootstrap/logging"
	"tankgo/internal/errs"
)

// Open connects to the configured database. SQLite files get WAL journaling and a busy
// timeout so concurrent cache writes queue instead of failing with SQLITE_BUSY.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.database"))

	switch strings.ToLower(cfg.Driver) {
	case "sqlite", "sqlite3":
		if err := ensureSQLiteDirectory(logCtx, cfg.DSN); err != nil {
			return nil, errs.Wrap(err, "ensure sqlite directory")
		}

		dsn := withPragmas(cfg.DSN, cfg.BusyTimeout)
		db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		})
		if err != nil {
			return nil, errs.Wrap(err, "open sqlite db")
		}
		logging.Info(logCtx, "database opened",
			slog.String("driver", "sqlite"),
			slog.String("dsn", cfg.DSN),
			slog.Duration("busy_timeout", cfg.BusyTimeout),
		)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// withPragmas appends busy_timeout and WAL pragmas unless the DSN already sets any pragma.
// In-memory databases only get the busy timeout.
func withPragmas(dsn string, busyTimeout time.Duration) string {
	candidate := strings.TrimSpace(dsn)
	if candidate == "" || strings.Contains(candidate, "_pragma=") {
		return candidate
	}

	pragmas := url.Values{}
	if busyTimeout > 0 {
		pragmas.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	}
	if !isMemory(candidate) {
		pragmas.Add("_pragma", "journal_mode(WAL)")
	}
	if len(pragmas) == 0 {
		return candidate
	}

	sep := "?"
	if strings.Contains(candidate, "?") {
		sep = "&"
	}
	return candidate + sep + pragmas.Encode()
}

func isMemory(dsn string) bool {
	lower := strings.ToLower(dsn)
	return lower == ":memory:" || strings.Contains(lower, "mode=memory") || strings.HasPrefix(lower, "file::memory:")
}

func gormLogLevel(raw string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func ensureSQLiteDirectory(ctx context.Context, dsn string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	candidate := strings.TrimSpace(dsn)
	if candidate == "" || isMemory(candidate) {
		return nil
	}

	candidate = strings.TrimPrefix(candidate, "file:")
	if idx := strings.Index(candidate, "?"); idx >= 0 {
		candidate = candidate[:idx]
	}

	dir := filepath.Dir(candidate)
	if dir == "" || dir == "." {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrapf(err, "create sqlite directory %q", dir)
	}

	logging.Debug(ctx, "sqlite directory ensured", slog.String("dir", dir))
	return nil
}
