package offline

import (
	"context"
	"log/slog"
	"net/http"

	"tankgo/internal/bootstrap/logging"
	domainoffline "tankgo/internal/domain/offline"
	domainstations "tankgo/internal/domain/stations"
	"tankgo/internal/errs"
)

// PrewarmResult reports what a pre-warm batch did before it stopped.
type PrewarmResult struct {
	Cached  []string
	Skipped []string
}

// Prewarm fetches each station detail in order and stores 2xx responses in the API
// namespace. A network failure aborts the remaining IDs and is returned.
func (w *Worker) Prewarm(ctx context.Context, stationIDs []string) (PrewarmResult, error) {
	var result PrewarmResult
	logCtx := logging.WithAttrs(ctx, slog.String("namespace", w.namespaces.API))

	api, err := w.store.Open(logCtx, w.namespaces.API)
	if err != nil {
		return result, errs.Wrap(err, "open api namespace")
	}

	for _, id := range stationIDs {
		if err := logCtx.Err(); err != nil {
			return result, errs.Wrap(err, "check context")
		}

		segment, err := domainstations.PathSegment(id)
		if err != nil {
			logging.Warn(logCtx, "pre-warm skipped invalid station id", slog.String("station", id))
			result.Skipped = append(result.Skipped, id)
			continue
		}
		target := domainoffline.Resolve(w.cfg.APIOrigin, w.cfg.StationsPath).JoinPath(segment)
		req := domainoffline.Request{
			Method: http.MethodGet,
			URL:    target,
			Mode:   domainoffline.ModeCORS,
			Header: http.Header{},
		}
		resp, err := w.fetcher.Fetch(logCtx, req)
		if err != nil {
			logging.Error(logCtx, "pre-warm aborted", slog.String("station", id), slog.Any("err", errs.Loggable(err)))
			return result, errs.Wrapf(err, "pre-warm station %s", id)
		}
		if !resp.OK() {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if err := api.Put(logCtx, domainoffline.KeyForURL(target), resp); err != nil {
			logging.Warn(logCtx, "pre-warm cache write failed", slog.String("station", id), slog.Any("err", errs.Loggable(err)))
			result.Skipped = append(result.Skipped, id)
			continue
		}
		result.Cached = append(result.Cached, id)
	}

	logging.Info(logCtx, "pre-warm finished", slog.Int("cached", len(result.Cached)), slog.Int("skipped", len(result.Skipped)))
	return result, nil
}
