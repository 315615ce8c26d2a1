package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tankgo/internal/domain/favorites"
	"tankgo/internal/domain/offline"
	"tankgo/internal/domain/stations"
	"tankgo/internal/ports"
)

func testEndpoints(baseURL string) Endpoints {
	return Endpoints{
		BaseURL:       baseURL,
		FavoritesPath: "/api/usuarios/favoritos",
		StationsPath:  "/api/gasolineras",
		AuthPath:      "/api/usuarios",
	}
}

func TestFavoritesClientRoundTrip(t *testing.T) {
	var gotAuth, gotDelete string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/usuarios/favoritos":
			_, _ = w.Write([]byte(`[{"ideess":"B","created_at":"2026-10-01T10:00:00Z"},{"ideess":"A","created_at":"2026-10-01T09:00:00Z"}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/usuarios/favoritos":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["ideess"] != "C" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"IDEESS requerido."}`))
				return
			}
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodDelete:
			gotDelete = r.URL.Path
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Favorito no encontrado."}`))
		}
	}))
	defer server.Close()

	client := NewFavoritesClient(server.Client(), testEndpoints(server.URL))
	ctx := context.Background()

	records, err := client.List(ctx, "tok")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 || records[0].StationID != "B" {
		t.Fatalf("List() = %+v", records)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q", gotAuth)
	}

	if err := client.Add(ctx, "tok", "C"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	err = client.Remove(ctx, "tok", "Z")
	var rejected *favorites.RemoteRejectedError
	if !errors.As(err, &rejected) || rejected.Status != http.StatusNotFound || rejected.Message != "Favorito no encontrado." {
		t.Fatalf("Remove() error = %v", err)
	}
	if gotDelete != "/api/usuarios/favoritos/Z" {
		t.Fatalf("delete path = %q", gotDelete)
	}
}

func TestFavoritesClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := NewFavoritesClient(nil, testEndpoints(baseURL))
	_, err := client.List(context.Background(), "tok")
	var netErr *favorites.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("List() error = %v, want NetworkError", err)
	}
}

func TestStationGetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/gasolineras/1" {
			_, _ = w.Write([]byte(`{"IDEESS":"1","Rótulo":"CEPSA","Latitud":"40,1"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewFavoritesClient(server.Client(), testEndpoints(server.URL))
	station, err := client.Get(context.Background(), "1")
	if err != nil || station.Rotulo != "CEPSA" {
		t.Fatalf("Get() = %+v, %v", station, err)
	}
	if _, err := client.Get(context.Background(), "2"); !errors.Is(err, ports.ErrStationNotFound) {
		t.Fatalf("Get(missing) error = %v", err)
	}
}

func TestResolveRejectsTraversalSegments(t *testing.T) {
	endpoints := testEndpoints("http://api.test")
	got, err := endpoints.resolve(endpoints.StationsPath, "a b")
	if err != nil || got != "http://api.test/api/gasolineras/a%20b" {
		t.Fatalf("resolve(a b) = %q, %v", got, err)
	}
	for _, id := range []string{"..", "../usuarios"} {
		if _, err := endpoints.resolve(endpoints.FavoritesPath, id); !errors.Is(err, stations.ErrInvalidStation) {
			t.Fatalf("resolve(%q) error = %v, want ErrInvalidStation", id, err)
		}
	}
}

func TestAuthClientLoginAndMe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/usuarios/login":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "Secreta1!" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Credenciales inválidas."}`))
				return
			}
			_, _ = w.Write([]byte(`{"token":"tok-1"}`))
		case "/api/usuarios/me":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"id":7,"nombre":"Ana","email":"ana@example.es","is_admin":false}`))
		}
	}))
	defer server.Close()

	client := NewAuthClient(server.Client(), testEndpoints(server.URL))
	ctx := context.Background()

	if _, err := client.Login(ctx, "ana@example.es", "mala"); favorites.UserMessage(err) != "Credenciales inválidas." {
		t.Fatalf("Login(bad) error = %v", err)
	}
	token, err := client.Login(ctx, "ana@example.es", "Secreta1!")
	if err != nil || token != "tok-1" {
		t.Fatalf("Login() = %q, %v", token, err)
	}
	profile, err := client.Me(ctx, token)
	if err != nil || profile.ID != 7 || profile.Nombre != "Ana" {
		t.Fatalf("Me() = %+v, %v", profile, err)
	}
}

func TestHTTPFetcherKeepsStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"x":1}`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client())
	req, err := offline.NewRequest(http.MethodGet, server.URL+"/api/x")
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	resp, err := fetcher.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if resp.Status != http.StatusTeapot || string(resp.Body) != `{"x":1}` || resp.Source != offline.SourceNetwork {
		t.Fatalf("Fetch() = %+v", resp)
	}

	server.Close()
	if _, err := fetcher.Fetch(context.Background(), req); !offline.IsNetworkError(err) {
		t.Fatalf("Fetch(closed) error = %v, want NetworkError", err)
	}
}

func TestControlClientPostsCommands(t *testing.T) {
	var gotBody, gotTag string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ControlMessagePath:
			raw, _ := io.ReadAll(r.Body)
			gotBody = string(raw)
			_, _ = w.Write([]byte(`{"ok":true}`))
		case ControlSyncPath:
			gotTag = r.URL.Query().Get("tag")
			_, _ = w.Write([]byte(`{"ok":true}`))
		default:
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"no active worker"}`))
		}
	}))
	defer server.Close()

	client := NewControlClient(server.Client(), server.URL+"/")
	ctx := context.Background()
	if err := client.CacheFavorites(ctx, []string{"A", " ", "B"}); err != nil {
		t.Fatalf("CacheFavorites() error = %v", err)
	}
	if gotBody != `{"type":"CACHE_FAVORITES","favoritos":["A","B"]}` {
		t.Fatalf("body = %s", gotBody)
	}
	if err := client.Sync(ctx, offline.SyncTagFavorites); err != nil || gotTag != offline.SyncTagFavorites {
		t.Fatalf("Sync() = %v tag %q", err, gotTag)
	}
	if _, err := client.Status(ctx); err == nil {
		t.Fatalf("Status() expected error on 409")
	}
}

func TestControlClientUnreachableProxy(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	target := server.URL
	server.Close()

	err := NewControlClient(nil, target).SkipWaiting(context.Background())
	if !offline.IsNetworkError(err) {
		t.Fatalf("SkipWaiting() error = %v, want network error", err)
	}
}
