package offline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tankgo/internal/bootstrap/logging"
	domainoffline "tankgo/internal/domain/offline"
)

// Dispatch delivers a control message to the registration.
func (h *Host) Dispatch(ctx context.Context, cmd domainoffline.Command) (PrewarmResult, error) {
	if ctx == nil {
		return PrewarmResult{}, errors.New("context is required")
	}
	if cmd == nil {
		return PrewarmResult{}, domainoffline.ErrInvalidCommand
	}
	logCtx := logging.WithAttrs(logging.WithComponent(ctx, "usecase.offline.messages"), slog.String("type", string(cmd.Type())))

	switch msg := cmd.(type) {
	case domainoffline.SkipWaiting:
		logging.Info(logCtx, "control message received")
		return PrewarmResult{}, h.SkipWaiting(logCtx)
	case domainoffline.CacheFavorites:
		logging.Info(logCtx, "control message received", slog.Int("favoritos", len(msg.StationIDs)))
		controller := h.Controller()
		if controller == nil {
			return PrewarmResult{}, domainoffline.ErrNoController
		}
		return controller.Prewarm(logCtx, msg.StationIDs)
	default:
		return PrewarmResult{}, fmt.Errorf("%w: %s", domainoffline.ErrUnknownCommand, cmd.Type())
	}
}

// Sync handles a background sync event. The favorites tag is a reserved hook with no
// pending work; other tags are ignored.
func (h *Host) Sync(ctx context.Context, tag string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	logCtx := logging.WithAttrs(logging.WithComponent(ctx, "usecase.offline.messages"), slog.String("tag", tag))
	if tag != domainoffline.SyncTagFavorites {
		logging.Debug(logCtx, "sync tag ignored")
		return nil
	}
	logging.Info(logCtx, "syncing pending favorites")
	return nil
}

// CacheFavorites sends a CACHE_FAVORITES message to this host.
func (h *Host) CacheFavorites(ctx context.Context, stationIDs []string) error {
	_, err := h.Dispatch(ctx, domainoffline.CacheFavorites{StationIDs: stationIDs})
	return err
}
