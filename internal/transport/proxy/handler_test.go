package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	domainoffline "tankgo/internal/domain/offline"
	cacheinfra "tankgo/internal/infrastructure/cache"
	"tankgo/internal/infrastructure/persistence/sqlite/model"
	"tankgo/internal/infrastructure/remote"
	"tankgo/internal/usecase/offline"
)

type fixture struct {
	proxy   *httptest.Server
	origin  *httptest.Server
	offline *atomic.Bool
	hits    *atomic.Int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	offlineFlag := &atomic.Bool{}
	hits := &atomic.Int64{}
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if offlineFlag.Load() {
			panic(http.ErrAbortHandler)
		}
		hits.Add(1)
		switch {
		case r.URL.Path == "/" || r.URL.Path == "/index.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>shell</html>"))
		case strings.HasPrefix(r.URL.Path, "/api/gasolineras/"):
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"IDEESS":"` + strings.TrimPrefix(r.URL.Path, "/api/gasolineras/") + `"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(origin.Close)

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "proxy.sqlite")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.ClientKV{}, &model.CacheNamespace{}, &model.CachedResponse{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	originURL, _ := url.Parse(origin.URL)
	host, err := offline.NewHost(offline.Config{
		Origin:   originURL,
		Version:  "v1",
		Precache: []string{"/", "/index.html"},
	}, cacheinfra.NewSQLiteResponseStore(db), remote.NewHTTPFetcher(origin.Client()), cacheinfra.NewSQLiteCache(db))
	if err != nil {
		t.Fatalf("NewHost() error = %v", err)
	}
	if _, err := host.Register(context.Background(), "v1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	handler, err := NewHandler(host, originURL)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	proxy := httptest.NewServer(handler)
	t.Cleanup(proxy.Close)

	return &fixture{proxy: proxy, origin: origin, offline: offlineFlag, hits: hits}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := f.proxy.Client().Get(f.proxy.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func TestProxyServesShellFromCache(t *testing.T) {
	f := newFixture(t)
	before := f.hits.Load()

	resp, body := f.get(t, "/index.html")
	if resp.StatusCode != http.StatusOK || string(body) != "<html>shell</html>" {
		t.Fatalf("GET /index.html = %d %s", resp.StatusCode, body)
	}
	if resp.Header.Get(SourceHeader) != string(domainoffline.SourceCache) {
		t.Fatalf("source = %q", resp.Header.Get(SourceHeader))
	}
	if f.hits.Load() != before {
		t.Fatalf("cache hit must not reach the origin")
	}
}

func TestProxyNetworkFirstFallsBackOffline(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/api/gasolineras/1")
	if resp.StatusCode != http.StatusOK || resp.Header.Get(SourceHeader) != string(domainoffline.SourceNetwork) {
		t.Fatalf("online = %d %s %q", resp.StatusCode, body, resp.Header.Get(SourceHeader))
	}

	f.offline.Store(true)
	resp, body = f.get(t, "/api/gasolineras/1")
	if resp.StatusCode != http.StatusOK || resp.Header.Get(SourceHeader) != string(domainoffline.SourceCache) {
		t.Fatalf("offline cached = %d %s", resp.StatusCode, body)
	}

	resp, body = f.get(t, "/api/gasolineras/2")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("offline uncached status = %d", resp.StatusCode)
	}
	var synthetic map[string]any
	if err := json.Unmarshal(body, &synthetic); err != nil {
		t.Fatalf("decode synthetic: %v", err)
	}
	if synthetic["error"] != "Sin conexión" || synthetic["offline"] != true {
		t.Fatalf("synthetic = %v", synthetic)
	}

	resp, _ = f.get(t, "/missing.png")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("offline uncached static = %d, want 502", resp.StatusCode)
	}
}

func TestProxyControlEndpoints(t *testing.T) {
	f := newFixture(t)
	client := f.proxy.Client()

	resp, err := client.Post(f.proxy.URL+remote.ControlMessagePath, "application/json",
		bytes.NewReader([]byte(`{"type":"CACHE_FAVORITES","favoritos":["7"]}`)))
	if err != nil {
		t.Fatalf("post message: %v", err)
	}
	var reply map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&reply)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || reply["ok"] != true {
		t.Fatalf("message reply = %d %v", resp.StatusCode, reply)
	}

	f.offline.Store(true)
	cached, body := f.get(t, "/api/gasolineras/7")
	if cached.StatusCode != http.StatusOK || !strings.Contains(string(body), `"7"`) {
		t.Fatalf("prewarmed detail = %d %s", cached.StatusCode, body)
	}

	resp, err = client.Post(f.proxy.URL+remote.ControlMessagePath, "application/json", bytes.NewReader([]byte(`{"type":"NOPE"}`)))
	if err != nil {
		t.Fatalf("post unknown: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown message status = %d", resp.StatusCode)
	}

	resp, err = client.Post(f.proxy.URL+remote.ControlSyncPath+"?tag=sync-favorites", "", nil)
	if err != nil {
		t.Fatalf("post sync: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sync status = %d", resp.StatusCode)
	}

	status, body := f.get(t, remote.ControlStatusPath)
	if status.StatusCode != http.StatusOK || !strings.Contains(string(body), `"active_version":"v1"`) {
		t.Fatalf("status = %d %s", status.StatusCode, body)
	}
}
