package offline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"tankgo/internal/bootstrap/logging"
	domainoffline "tankgo/internal/domain/offline"
	"tankgo/internal/errs"
	"tankgo/internal/ports"
)

const (
	activeVersionKey  = "worker:active_version"
	waitingVersionKey = "worker:waiting_version"
)

// Host owns the registration for one origin: at most one active (controlling) worker and at
// most one waiting worker.
type Host struct {
	base    Config
	store   ports.ResponseStore
	fetcher ports.Fetcher
	kv      ports.Cache

	mu      sync.Mutex
	active  *Worker
	waiting *Worker
}

// NewHost validates base; kv may be nil when versions need not survive restarts.
func NewHost(base Config, store ports.ResponseStore, fetcher ports.Fetcher, kv ports.Cache) (*Host, error) {
	if store == nil {
		return nil, errors.New("response store is required")
	}
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if _, err := base.withDefaults(); err != nil {
		return nil, err
	}
	return &Host{base: base, store: store, fetcher: fetcher, kv: kv}, nil
}

// ConfiguredVersion is the version named by the base config.
func (h *Host) ConfiguredVersion() string {
	return h.base.Version
}

// Register installs version. The first worker, or any worker when SkipWaitingOnInstall is
// set, activates right away; otherwise it waits for SkipWaiting.
func (h *Host) Register(ctx context.Context, version string) (*Worker, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	cfg := h.base
	cfg.Version = version
	worker, err := newWorker(cfg, h.store, h.fetcher)
	if err != nil {
		return nil, err
	}
	logCtx := logging.WithComponent(ctx, "usecase.offline.host")

	if active := h.Controller(); active != nil && active.Version() == worker.Version() {
		logging.Info(logCtx, "worker version already active", slog.String("version", worker.Version()))
		return active, nil
	}

	if err := worker.install(logCtx); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.waiting != nil {
		h.waiting.markRedundant()
		h.waiting = nil
	}

	if h.active == nil || h.base.SkipWaitingOnInstall {
		if err := h.promoteLocked(logCtx, worker); err != nil {
			return nil, err
		}
		return worker, nil
	}

	h.waiting = worker
	h.persist(logCtx, waitingVersionKey, worker.Version())
	logging.Info(logCtx, "worker waiting for activation", slog.String("version", worker.Version()))
	return worker, nil
}

// SkipWaiting activates the waiting worker. Without one it does nothing.
func (h *Host) SkipWaiting(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	logCtx := logging.WithComponent(ctx, "usecase.offline.host")

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.waiting == nil {
		logging.Debug(logCtx, "skip waiting ignored, no waiting worker")
		return nil
	}
	worker := h.waiting
	h.waiting = nil
	return h.promoteLocked(logCtx, worker)
}

// promoteLocked activates worker and hands it control. Caller holds h.mu.
func (h *Host) promoteLocked(ctx context.Context, worker *Worker) error {
	if err := worker.activate(ctx); err != nil {
		return errs.Wrapf(err, "activate worker %s", worker.Version())
	}

	previous := h.active
	h.active = worker
	if previous != nil {
		previous.markRedundant()
	}
	logging.Info(ctx, "worker claimed origin", slog.String("version", worker.Version()), slog.String("origin", worker.cfg.Origin.String()))

	h.persist(ctx, activeVersionKey, worker.Version())
	h.clear(ctx, waitingVersionKey)
	return nil
}

// Resume restores the persisted active and waiting workers without reinstalling.
func (h *Host) Resume(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if h.kv == nil {
		return nil
	}
	logCtx := logging.WithComponent(ctx, "usecase.offline.host")

	h.mu.Lock()
	defer h.mu.Unlock()

	activeVersion, found, err := h.kv.Get(logCtx, activeVersionKey)
	if err != nil {
		return errs.Wrap(err, "load active worker version")
	}
	if found && strings.TrimSpace(activeVersion) != "" {
		worker, err := h.restore(activeVersion, domainoffline.StateActive)
		if err != nil {
			return err
		}
		h.active = worker
		logging.Info(logCtx, "resumed active worker", slog.String("version", worker.Version()))
	}

	waitingVersion, found, err := h.kv.Get(logCtx, waitingVersionKey)
	if err != nil {
		return errs.Wrap(err, "load waiting worker version")
	}
	if found && strings.TrimSpace(waitingVersion) != "" {
		worker, err := h.restore(waitingVersion, domainoffline.StateWaiting)
		if err != nil {
			return err
		}
		h.waiting = worker
		logging.Info(logCtx, "resumed waiting worker", slog.String("version", worker.Version()))
	}
	return nil
}

func (h *Host) restore(version string, state domainoffline.State) (*Worker, error) {
	cfg := h.base
	cfg.Version = version
	worker, err := newWorker(cfg, h.store, h.fetcher)
	if err != nil {
		return nil, errs.Wrapf(err, "restore worker %s", version)
	}
	worker.state = state
	return worker, nil
}

// Controller is the active worker, or nil when the origin is uncontrolled.
func (h *Host) Controller() *Worker {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *Host) Waiting() *Worker {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.waiting
}

// Handle routes req through the controller; uncontrolled requests go straight to the network.
func (h *Host) Handle(ctx context.Context, req domainoffline.Request) (domainoffline.Response, error) {
	if ctx == nil {
		return domainoffline.Response{}, errors.New("context is required")
	}
	controller := h.Controller()
	if controller == nil {
		return h.fetcher.Fetch(ctx, req)
	}
	return controller.Handle(ctx, req)
}

// Status is a snapshot of the registration.
type Status struct {
	Origin         string   `json:"origin"`
	ActiveVersion  string   `json:"active_version,omitempty"`
	ActiveState    string   `json:"active_state,omitempty"`
	WaitingVersion string   `json:"waiting_version,omitempty"`
	Namespaces     []string `json:"namespaces"`
}

func (h *Host) Status(ctx context.Context) (Status, error) {
	cfg, _ := h.base.withDefaults()
	status := Status{Origin: cfg.Origin.String()}
	if active := h.Controller(); active != nil {
		status.ActiveVersion = active.Version()
		status.ActiveState = active.State().String()
	}
	if waiting := h.Waiting(); waiting != nil {
		status.WaitingVersion = waiting.Version()
	}

	names, err := h.store.Keys(ctx)
	if err != nil {
		return status, err
	}
	status.Namespaces = names
	return status, nil
}

func (h *Host) persist(ctx context.Context, key string, value string) {
	if h.kv == nil {
		return
	}
	if err := h.kv.Set(ctx, key, value, 0); err != nil {
		logging.Warn(ctx, "persist worker version failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}

func (h *Host) clear(ctx context.Context, key string) {
	if h.kv == nil {
		return
	}
	if err := h.kv.Delete(ctx, key); err != nil {
		logging.Warn(ctx, "clear worker version failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}
