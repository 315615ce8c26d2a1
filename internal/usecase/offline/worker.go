package offline

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	domainoffline "tankgo/internal/domain/offline"
	"tankgo/internal/ports"
)

const (
	DefaultCachePrefix   = "tankgo"
	DefaultAPIPathPrefix = "/api/"
	DefaultStationsPath  = "/api/gasolineras"
)

// Config describes one origin's worker script. Version selects the namespaces.
type Config struct {
	Origin               *url.URL
	APIOrigin            *url.URL // station detail host for pre-warm; defaults to Origin
	Version              string
	CachePrefix          string
	APIPathPrefix        string
	StationsPath         string
	Precache             []string
	OfflineDocument      string
	SkipWaitingOnInstall bool
}

func (c Config) withDefaults() (Config, error) {
	if c.Origin == nil || !c.Origin.IsAbs() || c.Origin.Host == "" {
		return Config{}, errors.New("worker origin must be an absolute url")
	}
	origin := *c.Origin
	origin.Path = ""
	origin.RawQuery = ""
	origin.Fragment = ""
	c.Origin = &origin
	if c.APIOrigin == nil {
		c.APIOrigin = c.Origin
	} else if !c.APIOrigin.IsAbs() || c.APIOrigin.Host == "" {
		return Config{}, errors.New("worker api origin must be an absolute url")
	}

	if strings.TrimSpace(c.CachePrefix) == "" {
		c.CachePrefix = DefaultCachePrefix
	}
	if strings.TrimSpace(c.APIPathPrefix) == "" {
		c.APIPathPrefix = DefaultAPIPathPrefix
	}
	if strings.TrimSpace(c.StationsPath) == "" {
		c.StationsPath = DefaultStationsPath
	}
	if strings.TrimSpace(c.OfflineDocument) == "" {
		c.OfflineDocument = domainoffline.DefaultOfflineDocument
	}
	if c.Precache == nil {
		c.Precache = domainoffline.DefaultPrecache
	}
	precache, err := domainoffline.NormalizePrecache(c.Precache)
	if err != nil {
		return Config{}, err
	}
	c.Precache = precache
	return c, nil
}

// Worker is one installed version of the interception layer.
type Worker struct {
	cfg        Config
	version    string
	namespaces domainoffline.Namespaces
	router     domainoffline.Router
	store      ports.ResponseStore
	fetcher    ports.Fetcher

	mu    sync.RWMutex
	state domainoffline.State
}

func newWorker(cfg Config, store ports.ResponseStore, fetcher ports.Fetcher) (*Worker, error) {
	resolved, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	version, err := domainoffline.NormalizeVersion(resolved.Version)
	if err != nil {
		return nil, err
	}
	namespaces, err := domainoffline.NamespacesFor(resolved.CachePrefix, version)
	if err != nil {
		return nil, err
	}
	resolved.Version = version

	return &Worker{
		cfg:        resolved,
		version:    version,
		namespaces: namespaces,
		router:     domainoffline.Router{Origin: resolved.Origin, APIPrefix: resolved.APIPathPrefix},
		store:      store,
		fetcher:    fetcher,
		state:      domainoffline.StateNew,
	}, nil
}

func (w *Worker) Version() string {
	return w.version
}

func (w *Worker) Namespaces() domainoffline.Namespaces {
	return w.namespaces
}

func (w *Worker) State() domainoffline.State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Worker) transition(to domainoffline.State) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, err := domainoffline.Transition(w.state, to)
	if err != nil {
		return err
	}
	w.state = next
	return nil
}

// markRedundant retires the worker from any live state.
func (w *Worker) markRedundant() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.CanTransition(domainoffline.StateRedundant) {
		w.state = domainoffline.StateRedundant
	}
}

func (w *Worker) resolve(path string) *url.URL {
	return domainoffline.Resolve(w.cfg.Origin, path)
}
