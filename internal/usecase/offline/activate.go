package offline

import (
	"context"
	"log/slog"

	"tankgo/internal/bootstrap/logging"
	domainoffline "tankgo/internal/domain/offline"
	"tankgo/internal/errs"
)

// activate deletes every namespace that is not current for this worker.
func (w *Worker) activate(ctx context.Context) error {
	if err := w.transition(domainoffline.StateActivating); err != nil {
		return err
	}
	logCtx := logging.WithAttrs(ctx, slog.String("version", w.version))

	existing, err := w.store.Keys(logCtx)
	if err != nil {
		w.markRedundant()
		return errs.Wrap(err, "list namespaces")
	}
	for _, name := range w.namespaces.Stale(existing) {
		if _, err := w.store.Delete(logCtx, name); err != nil {
			w.markRedundant()
			return errs.Wrapf(err, "delete stale namespace %s", name)
		}
		logging.Info(logCtx, "deleted stale namespace", slog.String("namespace", name))
	}

	if err := w.transition(domainoffline.StateActive); err != nil {
		return err
	}
	logging.Info(logCtx, "worker activated")
	return nil
}
