package bootstrap

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"tankgo/internal/bootstrap/config"
	"tankgo/internal/bootstrap/logging"
	"tankgo/internal/errs"
	"tankgo/internal/usecase/offline"
)

// WorkerConfig turns the worker section into the interception layer config. A manifest
// file, when configured, overrides version, offline document and precache list.
func WorkerConfig(ctx context.Context, cfg config.WorkerConfig) (offline.Config, error) {
	origin, err := url.Parse(strings.TrimSpace(cfg.Origin))
	if err != nil {
		return offline.Config{}, errs.Wrap(err, "parse worker.origin")
	}

	out := offline.Config{
		Origin:               origin,
		Version:              cfg.Version,
		CachePrefix:          cfg.CachePrefix,
		APIPathPrefix:        cfg.APIPathPrefix,
		StationsPath:         cfg.StationsPath,
		OfflineDocument:      cfg.OfflineDocument,
		SkipWaitingOnInstall: cfg.SkipWaitingOnInstall,
	}
	if len(cfg.Precache) > 0 {
		out.Precache = cfg.Precache
	}
	if raw := strings.TrimSpace(cfg.APIOrigin); raw != "" {
		apiOrigin, err := url.Parse(raw)
		if err != nil {
			return offline.Config{}, errs.Wrap(err, "parse worker.api_origin")
		}
		out.APIOrigin = apiOrigin
	}

	if path := strings.TrimSpace(cfg.Manifest); path != "" {
		manifest, err := offline.LoadManifest(path)
		if err != nil {
			return offline.Config{}, errs.Wrap(err, "load precache manifest")
		}
		out = manifest.Apply(out)
		logging.Info(logging.WithComponent(ctx, "bootstrap.worker"), "precache manifest applied",
			slog.String("path", path), slog.String("version", out.Version), slog.Int("assets", len(out.Precache)))
	}
	return out, nil
}
