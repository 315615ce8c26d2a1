package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainaccounts "tankgo/internal/domain/accounts"
	domainfavorites "tankgo/internal/domain/favorites"
	"tankgo/internal/ports"
	"tankgo/internal/usecase/favorites"
	"tankgo/internal/usecase/session"
)

type memoryKV struct {
	values map[string]string
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

type stubAuth struct {
	token string
}

func (s stubAuth) Login(context.Context, string, string) (string, error) {
	return s.token, nil
}

func (s stubAuth) Register(context.Context, ports.RegisterInput) (domainaccounts.Profile, error) {
	return domainaccounts.Profile{}, nil
}

func (s stubAuth) Me(context.Context, string) (domainaccounts.Profile, error) {
	return domainaccounts.Profile{ID: 1, Nombre: "Ana", Email: "ana@example.es"}, nil
}

type stubFavorites struct {
	byToken map[string][]string
}

func (s stubFavorites) List(_ context.Context, token string) ([]domainfavorites.Record, error) {
	records := make([]domainfavorites.Record, 0, len(s.byToken[token]))
	for _, id := range s.byToken[token] {
		records = append(records, domainfavorites.Record{StationID: id})
	}
	return records, nil
}

func (stubFavorites) Add(context.Context, string, string) error    { return nil }
func (stubFavorites) Remove(context.Context, string, string) error { return nil }

func TestStartSessionLoadsFavorites(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	sess := session.New(stubAuth{token: token}, &memoryKV{values: map[string]string{}})
	favs := favorites.NewService(stubFavorites{byToken: map[string][]string{token: {"A", "B"}}})

	profile, err := startSession(context.Background(), sess, favs, "ana@example.es", "Abcdef1_")
	if err != nil {
		t.Fatalf("startSession() error = %v", err)
	}
	if profile.Email != "ana@example.es" {
		t.Fatalf("profile = %+v", profile)
	}
	if !favs.Authenticated() {
		t.Fatal("favorites must hold the new token")
	}
	if ids := favs.IDs(); len(ids) != 2 || ids[0] != "A" || ids[1] != "B" {
		t.Fatalf("IDs() = %v, want [A B]", ids)
	}
}
