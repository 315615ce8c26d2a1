package offline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"tankgo/internal/bootstrap/logging"
	domainoffline "tankgo/internal/domain/offline"
	"tankgo/internal/errs"
	"tankgo/internal/ports"
)

// install fetches every precache entry and writes them in one batch. Any failure leaves the
// static namespace as it was before and retires the worker.
func (w *Worker) install(ctx context.Context) error {
	if err := w.transition(domainoffline.StateInstalling); err != nil {
		return err
	}
	logCtx := logging.WithAttrs(ctx, slog.String("version", w.version), slog.String("namespace", w.namespaces.Static))
	logging.Info(logCtx, "installing worker", slog.Int("assets", len(w.cfg.Precache)))

	if err := w.installAssets(logCtx); err != nil {
		w.markRedundant()
		logging.Error(logCtx, "worker install failed", slog.Any("err", errs.Loggable(err)))
		return fmt.Errorf("%w: %w", domainoffline.ErrInstallFailed, err)
	}

	if err := w.transition(domainoffline.StateWaiting); err != nil {
		return err
	}
	logging.Info(logCtx, "worker installed")
	return nil
}

func (w *Worker) installAssets(ctx context.Context) error {
	entries := make([]ports.CachedEntry, 0, len(w.cfg.Precache))
	for _, path := range w.cfg.Precache {
		target := w.resolve(path)
		req := domainoffline.Request{
			Method: http.MethodGet,
			URL:    target,
			Mode:   domainoffline.ModeSameOrigin,
			Header: http.Header{},
		}
		resp, err := w.fetcher.Fetch(ctx, req)
		if err != nil {
			return errs.Wrapf(err, "fetch precache asset %s", path)
		}
		if !resp.OK() {
			return fmt.Errorf("fetch precache asset %s: status %d", path, resp.Status)
		}
		entries = append(entries, ports.CachedEntry{Key: domainoffline.KeyForURL(target), Response: resp})
	}

	existed, err := w.store.Has(ctx, w.namespaces.Static)
	if err != nil {
		return err
	}
	static, err := w.store.Open(ctx, w.namespaces.Static)
	if err != nil {
		return err
	}
	if err := static.PutAll(ctx, entries); err != nil {
		if !existed {
			if _, delErr := w.store.Delete(ctx, w.namespaces.Static); delErr != nil {
				logging.Warn(ctx, "discard partial namespace failed", slog.Any("err", errs.Loggable(delErr)))
			}
		}
		return err
	}
	if _, err := w.store.Open(ctx, w.namespaces.API); err != nil {
		return err
	}
	return nil
}
