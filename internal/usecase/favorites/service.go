package favorites

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"tankgo/internal/bootstrap/logging"
	domainfavorites "tankgo/internal/domain/favorites"
	"tankgo/internal/errs"
	"tankgo/internal/ports"
)

// Warmer receives the current favorites so their details can be cached for offline use.
type Warmer interface {
	CacheFavorites(ctx context.Context, stationIDs []string) error
}

// Service is the client-side projection of the user's remote favorites. The local set only
// changes after the remote confirms a change.
type Service struct {
	remote ports.FavoritesRemote

	mu      sync.Mutex
	token   string
	set     domainfavorites.Set
	loading bool
	lastErr error

	// epoch changes with every credential change. generation also changes on every Load and
	// confirmed mutation, so an in-flight Load result older than either is dropped.
	epoch      uint64
	generation uint64
}

func NewService(remote ports.FavoritesRemote) *Service {
	return &Service{remote: remote}
}

// SetCredential replaces the bearer token, clears the set and reloads it for the new
// credential. An empty token leaves the set empty.
func (s *Service) SetCredential(ctx context.Context, token string) error {
	s.SetToken(token)
	return s.Load(ctx)
}

// SetToken replaces the bearer token and clears the set without loading. Any load still in
// flight is discarded.
func (s *Service) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
	s.epoch++
	s.generation++
	s.set = domainfavorites.Set{}
	s.loading = false
	s.lastErr = nil
}

// Load replaces the set with the remote list. Without a credential it clears the set and makes
// no network call. A result superseded by a later Load or credential change is discarded.
func (s *Service) Load(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	logCtx := logging.WithComponent(ctx, "usecase.favorites")

	s.mu.Lock()
	s.generation++
	generation := s.generation
	token := s.token
	if token == "" {
		s.set = domainfavorites.Set{}
		s.loading = false
		s.lastErr = nil
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	records, err := s.remote.List(logCtx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		logging.Debug(logCtx, "discarding stale favorites load", slog.Uint64("generation", generation))
		return nil
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		logging.Warn(logCtx, "load favorites failed", slog.Any("err", errs.Loggable(err)))
		return err
	}
	s.set = domainfavorites.SetFromRecords(records)
	logging.Info(logCtx, "favorites loaded", slog.Int("count", s.set.Len()))
	return nil
}

func (s *Service) IsFavorite(stationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Has(stationID)
}

// Add asks the remote to add stationID and inserts it locally once confirmed.
func (s *Service) Add(ctx context.Context, stationID string) error {
	return s.mutate(ctx, "add", stationID, s.remote.Add, func(set *domainfavorites.Set, id string) { set.Add(id) })
}

// Remove asks the remote to delete stationID and removes it locally once confirmed.
func (s *Service) Remove(ctx context.Context, stationID string) error {
	return s.mutate(ctx, "remove", stationID, s.remote.Remove, func(set *domainfavorites.Set, id string) { set.Remove(id) })
}

// Toggle removes a member or adds a non-member. Concurrent toggles of the same ID are not
// serialized; the last confirmed call wins.
func (s *Service) Toggle(ctx context.Context, stationID string) error {
	if s.IsFavorite(stationID) {
		return s.Remove(ctx, stationID)
	}
	return s.Add(ctx, stationID)
}

func (s *Service) mutate(
	ctx context.Context,
	op string,
	stationID string,
	call func(ctx context.Context, token string, stationID string) error,
	apply func(set *domainfavorites.Set, id string),
) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	id := strings.TrimSpace(stationID)
	if id == "" {
		return errors.New("station id is required")
	}
	logCtx := logging.WithAttrs(logging.WithComponent(ctx, "usecase.favorites"), slog.String("op", op), slog.String("station", id))

	s.mu.Lock()
	token := s.token
	epoch := s.epoch
	if token == "" {
		s.mu.Unlock()
		return domainfavorites.ErrAuthRequired
	}
	s.lastErr = nil
	s.mu.Unlock()

	err := call(logCtx, token, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		logging.Debug(logCtx, "credential changed during request, result dropped")
		return err
	}
	if err != nil {
		s.lastErr = err
		logging.Warn(logCtx, "favorite change rejected", slog.Any("err", errs.Loggable(err)))
		return err
	}
	// A Load still in flight may hold a snapshot taken before this change.
	s.generation++
	s.loading = false
	apply(&s.set, id)
	return nil
}

// IDs returns the current set in insertion order.
func (s *Service) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.IDs()
}

func (s *Service) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Service) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Service) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// WarmOffline hands the current set to w, skipping the call when the set is empty.
func (s *Service) WarmOffline(ctx context.Context, w Warmer) (int, error) {
	if w == nil {
		return 0, errors.New("warmer is required")
	}
	ids := s.IDs()
	if len(ids) == 0 {
		return 0, nil
	}
	if err := w.CacheFavorites(ctx, ids); err != nil {
		return 0, errs.Wrap(err, "cache favorites offline")
	}
	return len(ids), nil
}
