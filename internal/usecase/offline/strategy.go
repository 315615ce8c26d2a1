package offline

import (
	"context"
	"log/slog"

	"tankgo/internal/bootstrap/logging"
	domainoffline "tankgo/internal/domain/offline"
	"tankgo/internal/errs"
)

// Handle applies the routed strategy to req.
func (w *Worker) Handle(ctx context.Context, req domainoffline.Request) (domainoffline.Response, error) {
	strategy := w.router.Route(req)
	logCtx := logging.WithAttrs(ctx,
		slog.String("strategy", strategy.String()),
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
	)

	switch strategy {
	case domainoffline.StrategyNetworkFirst:
		return w.networkFirst(logCtx, req)
	case domainoffline.StrategyCacheFirst:
		return w.cacheFirst(logCtx, req)
	default:
		return w.fetcher.Fetch(logCtx, req)
	}
}

func (w *Worker) cacheFirst(ctx context.Context, req domainoffline.Request) (domainoffline.Response, error) {
	key := domainoffline.KeyFor(req)
	if req.Cacheable() {
		cached, found, err := w.store.Match(ctx, key)
		if err != nil {
			logging.Warn(ctx, "cache lookup failed, trying network", slog.Any("err", errs.Loggable(err)))
		} else if found {
			logging.Debug(ctx, "served from cache")
			return cached, nil
		}
	}

	resp, err := w.fetcher.Fetch(ctx, req)
	if err != nil {
		if req.IsNavigation() {
			if doc, ok := w.offlineDocument(ctx); ok {
				logging.Info(ctx, "network failed, served offline document")
				return doc, nil
			}
		}
		return domainoffline.Response{}, err
	}

	if resp.OK() && req.Cacheable() {
		w.remember(ctx, w.namespaces.Static, key, resp)
	}
	return resp, nil
}

func (w *Worker) networkFirst(ctx context.Context, req domainoffline.Request) (domainoffline.Response, error) {
	key := domainoffline.KeyFor(req)
	resp, err := w.fetcher.Fetch(ctx, req)
	if err == nil {
		if resp.OK() && req.Cacheable() {
			w.remember(ctx, w.namespaces.API, key, resp)
		}
		return resp, nil
	}
	if !domainoffline.IsNetworkError(err) {
		return domainoffline.Response{}, err
	}

	logging.Info(ctx, "network failed, looking up cache", slog.Any("err", errs.Loggable(err)))
	cached, found, matchErr := w.store.Match(ctx, key)
	if matchErr != nil {
		logging.Error(ctx, "cache fallback failed", slog.Any("err", errs.Loggable(matchErr)))
		return domainoffline.InternalErrorResponse(), nil
	}
	if !found {
		return domainoffline.OfflineResponse(), nil
	}
	return cached, nil
}

func (w *Worker) offlineDocument(ctx context.Context) (domainoffline.Response, bool) {
	doc, found, err := w.store.Match(ctx, domainoffline.KeyForURL(w.resolve(w.cfg.OfflineDocument)))
	if err != nil {
		logging.Warn(ctx, "offline document lookup failed", slog.Any("err", errs.Loggable(err)))
		return domainoffline.Response{}, false
	}
	return doc, found
}

// remember writes resp into namespace. Failures are logged and never reach the caller.
func (w *Worker) remember(ctx context.Context, namespace string, key domainoffline.RequestKey, resp domainoffline.Response) {
	cache, err := w.store.Open(ctx, namespace)
	if err == nil {
		err = cache.Put(ctx, key, resp)
	}
	if err != nil {
		logging.Warn(ctx, "cache write failed", slog.String("namespace", namespace), slog.Any("err", errs.Loggable(err)))
	}
}
