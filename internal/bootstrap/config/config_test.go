package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMergesFileEnvAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte(`
database:
  dsn: ` + filepath.Join(dir, "db.sqlite") + `
worker:
  origin: https://gasolineras.example.es
  precache:
    - /
    - /index.html
remote:
  timeout: 2s
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TANKGO_AUTH_JWT_SECRET", "from-env")
	t.Setenv("TANKGO_WORKER_VERSION", "v7")

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Worker.Origin != "https://gasolineras.example.es" || len(cfg.Worker.Precache) != 2 {
		t.Fatalf("worker = %+v", cfg.Worker)
	}
	if cfg.Worker.Version != "v7" || cfg.Auth.JWTSecret != "from-env" {
		t.Fatalf("env overrides not applied: %+v %+v", cfg.Worker, cfg.Auth)
	}
	if cfg.Remote.Timeout != 2*time.Second || cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Fatalf("durations = %v %v", cfg.Remote.Timeout, cfg.Auth.TokenTTL)
	}
	if !cfg.Worker.SkipWaitingOnInstall || cfg.Remote.FavoritesPath != "/api/usuarios/favoritos" {
		t.Fatalf("defaults missing: %+v %+v", cfg.Worker, cfg.Remote)
	}
}

func TestLoadRequiresExplicitFile(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load(missing explicit file) expected error")
	}
}
