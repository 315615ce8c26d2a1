package favorites

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	domainfavorites "tankgo/internal/domain/favorites"
	"tankgo/internal/infrastructure/remote"
)

type fakeRemote struct {
	mu       sync.Mutex
	records  map[string][]string
	calls    int
	listErr  error
	addErr   error
	blockOn  string
	started  chan struct{}
	released chan struct{}
	// snapshotFirst makes a blocked List return the records as they were before blocking.
	snapshotFirst bool

	changeStarted  chan struct{}
	changeReleased chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{records: make(map[string][]string)}
}

func (f *fakeRemote) List(_ context.Context, token string) ([]domainfavorites.Record, error) {
	f.mu.Lock()
	f.calls++
	block := f.blockOn == token
	snapshot := f.recordsLocked(token)
	f.mu.Unlock()
	if block {
		close(f.started)
		<-f.released
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if block && f.snapshotFirst {
		return snapshot, nil
	}
	return f.recordsLocked(token), nil
}

func (f *fakeRemote) recordsLocked(token string) []domainfavorites.Record {
	records := make([]domainfavorites.Record, 0, len(f.records[token]))
	for _, id := range f.records[token] {
		records = append(records, domainfavorites.Record{StationID: id})
	}
	return records
}

func (f *fakeRemote) remoteIDs(token string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.records[token]...)
}

func (f *fakeRemote) Add(_ context.Context, token string, stationID string) error {
	f.waitChange()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.addErr != nil {
		return f.addErr
	}
	for _, id := range f.records[token] {
		if id == stationID {
			return nil
		}
	}
	f.records[token] = append(f.records[token], stationID)
	return nil
}

func (f *fakeRemote) Remove(_ context.Context, token string, stationID string) error {
	f.waitChange()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	ids := f.records[token]
	for i, id := range ids {
		if id == stationID {
			f.records[token] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return &domainfavorites.RemoteRejectedError{Op: "remove", Status: http.StatusNotFound, Message: "Favorito no encontrado."}
}

func (f *fakeRemote) waitChange() {
	if f.changeStarted != nil {
		close(f.changeStarted)
		<-f.changeReleased
	}
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestLoadWithoutCredentialMakesNoNetworkCall(t *testing.T) {
	remote := newFakeRemote()
	svc := NewService(remote)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if remote.callCount() != 0 {
		t.Fatalf("remote calls = %d, want 0", remote.callCount())
	}
	if len(svc.IDs()) != 0 || svc.LastError() != nil {
		t.Fatalf("IDs() = %v, LastError() = %v", svc.IDs(), svc.LastError())
	}
	if err := svc.Add(context.Background(), "A"); !errors.Is(err, domainfavorites.ErrAuthRequired) {
		t.Fatalf("Add() error = %v, want ErrAuthRequired", err)
	}
	if remote.callCount() != 0 {
		t.Fatal("Add without credential must not reach the remote")
	}
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	remote := newFakeRemote()
	remote.records["tok"] = []string{"A"}
	svc := NewService(remote)
	ctx := context.Background()
	if err := svc.SetCredential(ctx, "tok"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}

	for _, id := range []string{"A", "B"} {
		before := svc.IsFavorite(id)
		if err := svc.Toggle(ctx, id); err != nil {
			t.Fatalf("Toggle(%s) error = %v", id, err)
		}
		if svc.IsFavorite(id) == before {
			t.Fatalf("Toggle(%s) did not flip membership", id)
		}
		if err := svc.Toggle(ctx, id); err != nil {
			t.Fatalf("Toggle(%s) second error = %v", id, err)
		}
		if svc.IsFavorite(id) != before {
			t.Fatalf("Toggle(%s) twice changed membership", id)
		}
	}
}

func TestFailedChangeLeavesSetUntouched(t *testing.T) {
	remote := newFakeRemote()
	svc := NewService(remote)
	ctx := context.Background()
	_ = svc.SetCredential(ctx, "tok")

	remote.addErr = &domainfavorites.RemoteRejectedError{Op: "add", Status: http.StatusUnauthorized, Message: "Unauthorized"}
	err := svc.Add(ctx, "A")
	if domainfavorites.UserMessage(err) != "Unauthorized" {
		t.Fatalf("Add() error = %v", err)
	}
	if svc.IsFavorite("A") || svc.LastError() == nil {
		t.Fatal("failed add must not change the set and must be recorded")
	}

	if err := svc.Remove(ctx, "Z"); domainfavorites.UserMessage(err) != "Favorito no encontrado." {
		t.Fatalf("Remove(missing) error = %v", err)
	}
}

func TestLoadRecordsNetworkError(t *testing.T) {
	remote := newFakeRemote()
	remote.listErr = &domainfavorites.NetworkError{Op: "list", Err: errors.New("offline")}
	svc := NewService(remote)

	err := svc.SetCredential(context.Background(), "tok")
	var netErr *domainfavorites.NetworkError
	if !errors.As(err, &netErr) || !errors.As(svc.LastError(), &netErr) {
		t.Fatalf("SetCredential() error = %v, LastError() = %v", err, svc.LastError())
	}
	if svc.Loading() {
		t.Fatal("Loading() must be false after a failed load")
	}
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	remote := newFakeRemote()
	remote.records["old"] = []string{"OLD"}
	remote.records["new"] = []string{"NEW"}
	remote.blockOn = "old"
	remote.started = make(chan struct{})
	remote.released = make(chan struct{})
	svc := NewService(remote)
	ctx := context.Background()

	svc.mu.Lock()
	svc.token = "old"
	svc.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- svc.Load(ctx) }()
	<-remote.started

	if err := svc.SetCredential(ctx, "new"); err != nil {
		t.Fatalf("SetCredential(new) error = %v", err)
	}
	close(remote.released)
	if err := <-done; err != nil {
		t.Fatalf("stale Load() error = %v", err)
	}

	ids := svc.IDs()
	if len(ids) != 1 || ids[0] != "NEW" {
		t.Fatalf("IDs() = %v, want [NEW]", ids)
	}
}

func TestConfirmedRemoveDropsOlderLoad(t *testing.T) {
	remote := newFakeRemote()
	remote.records["tok"] = []string{"A", "B"}
	svc := NewService(remote)
	ctx := context.Background()
	if err := svc.SetCredential(ctx, "tok"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}

	remote.mu.Lock()
	remote.blockOn = "tok"
	remote.snapshotFirst = true
	remote.started = make(chan struct{})
	remote.released = make(chan struct{})
	remote.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- svc.Load(ctx) }()
	<-remote.started

	if err := svc.Remove(ctx, "A"); err != nil {
		t.Fatalf("Remove(A) error = %v", err)
	}
	close(remote.released)
	if err := <-done; err != nil {
		t.Fatalf("older Load() error = %v", err)
	}

	if svc.IsFavorite("A") {
		t.Fatalf("IDs() = %v, remote = %v: removed favorite came back", svc.IDs(), remote.remoteIDs("tok"))
	}
	for _, id := range svc.IDs() {
		found := false
		for _, remoteID := range remote.remoteIDs("tok") {
			found = found || remoteID == id
		}
		if !found {
			t.Fatalf("local %s is not on the remote", id)
		}
	}
	if svc.Loading() {
		t.Fatal("Loading() must be false after the older load is dropped")
	}
}

func TestCredentialRoundTripDropsInFlightChange(t *testing.T) {
	remote := newFakeRemote()
	svc := NewService(remote)
	ctx := context.Background()
	if err := svc.SetCredential(ctx, "a"); err != nil {
		t.Fatalf("SetCredential(a) error = %v", err)
	}

	remote.changeStarted = make(chan struct{})
	remote.changeReleased = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- svc.Add(ctx, "X") }()
	<-remote.changeStarted

	svc.SetToken("b")
	svc.SetToken("a")
	close(remote.changeReleased)
	if err := <-done; err != nil {
		t.Fatalf("Add(X) error = %v", err)
	}

	if svc.IsFavorite("X") {
		t.Fatalf("IDs() = %v: change confirmed under an earlier session was applied", svc.IDs())
	}
}

type recordingWarmer struct {
	ids []string
}

func (w *recordingWarmer) CacheFavorites(_ context.Context, ids []string) error {
	w.ids = ids
	return nil
}

func TestWarmOfflineSendsCurrentSet(t *testing.T) {
	remote := newFakeRemote()
	remote.records["tok"] = []string{"A", "B"}
	svc := NewService(remote)
	ctx := context.Background()

	warmer := &recordingWarmer{}
	if n, err := svc.WarmOffline(ctx, warmer); err != nil || n != 0 || warmer.ids != nil {
		t.Fatalf("WarmOffline(empty) = %d, %v", n, err)
	}
	_ = svc.SetCredential(ctx, "tok")
	if n, err := svc.WarmOffline(ctx, warmer); err != nil || n != 2 || strings.Join(warmer.ids, ",") != "A,B" {
		t.Fatalf("WarmOffline() = %d, %v, ids=%v", n, err, warmer.ids)
	}
}

// End to end over HTTP: load [A,B], toggle A, toggle C against a live remote.
func TestFavoritesScenarioAgainstHTTPRemote(t *testing.T) {
	var mu sync.Mutex
	stored := []string{"A", "B"}

	router := mux.NewRouter()
	router.HandleFunc("/api/usuarios/favoritos", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		body := make([]string, 0, len(stored))
		for _, id := range stored {
			body = append(body, `{"ideess":"`+id+`","created_at":"2026-10-01T10:00:00Z"}`)
		}
		_, _ = w.Write([]byte("[" + strings.Join(body, ",") + "]"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/usuarios/favoritos", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		stored = append(stored, "C")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Favorito añadido."}`))
	}).Methods(http.MethodPost)
	router.HandleFunc("/api/usuarios/favoritos/{ideess}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		id := mux.Vars(r)["ideess"]
		for i, candidate := range stored {
			if candidate == id {
				stored = append(stored[:i], stored[i+1:]...)
				break
			}
		}
		_, _ = w.Write([]byte(`{"message":"Favorito eliminado."}`))
	}).Methods(http.MethodDelete)

	server := httptest.NewServer(router)
	defer server.Close()

	client := remote.NewFavoritesClient(server.Client(), remote.Endpoints{
		BaseURL:       server.URL,
		FavoritesPath: "/api/usuarios/favoritos",
		StationsPath:  "/api/gasolineras",
	})
	svc := NewService(client)
	ctx := context.Background()

	if err := svc.SetCredential(ctx, "tok"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}
	if err := svc.Toggle(ctx, "A"); err != nil {
		t.Fatalf("Toggle(A) error = %v", err)
	}
	if err := svc.Toggle(ctx, "C"); err != nil {
		t.Fatalf("Toggle(C) error = %v", err)
	}

	if got := strings.Join(svc.IDs(), ","); got != "B,C" {
		t.Fatalf("IDs() = %s, want B,C", got)
	}
	mu.Lock()
	remoteSet := strings.Join(stored, ",")
	mu.Unlock()
	if remoteSet != "B,C" {
		t.Fatalf("remote = %s, want B,C", remoteSet)
	}
}
