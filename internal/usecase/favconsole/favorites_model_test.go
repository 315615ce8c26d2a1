package favconsole

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	domainfavorites "tankgo/internal/domain/favorites"
	"tankgo/internal/usecase/favorites"
)

type memoryRemote struct {
	mu  sync.Mutex
	ids []string
}

func (r *memoryRemote) List(context.Context, string) ([]domainfavorites.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]domainfavorites.Record, 0, len(r.ids))
	for _, id := range r.ids {
		records = append(records, domainfavorites.Record{StationID: id})
	}
	return records, nil
}

func (r *memoryRemote) Add(_ context.Context, _ string, stationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, stationID)
	return nil
}

func (r *memoryRemote) Remove(_ context.Context, _ string, stationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range r.ids {
		if id == stationID {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			return nil
		}
	}
	return &domainfavorites.RemoteRejectedError{Op: "remove", Status: 404, Message: "Favorito no encontrado."}
}

type recordingWarmer struct {
	ids []string
}

func (w *recordingWarmer) CacheFavorites(_ context.Context, ids []string) error {
	w.ids = append([]string(nil), ids...)
	return nil
}

func newTestModel(t *testing.T, ids ...string) (*favoritesModel, *memoryRemote, *recordingWarmer) {
	t.Helper()
	remote := &memoryRemote{ids: ids}
	service := favorites.NewService(remote)
	ctx := context.Background()
	if err := service.SetCredential(ctx, "token"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}
	warmer := &recordingWarmer{}
	model := NewFavoritesModel(ctx, service, Options{Warmer: warmer}).(*favoritesModel)
	run(t, model, model.Init())
	return model, remote, warmer
}

func run(t *testing.T, model *favoritesModel, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		_, cmd = model.Update(msg)
	}
}

func press(t *testing.T, model *favoritesModel, key string) tea.Cmd {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := model.Update(msg)
	return cmd
}

func TestToggleSelectedRemovesFavorite(t *testing.T) {
	model, remote, _ := newTestModel(t, "A", "B")
	if len(model.ids) != 2 {
		t.Fatalf("ids = %v", model.ids)
	}

	cmd := press(t, model, "t")
	if _, busy := model.pending["A"]; !busy {
		t.Fatalf("A must be pending while the toggle runs")
	}
	if again := press(t, model, "t"); again != nil {
		t.Fatalf("second toggle of a pending station must be ignored")
	}
	run(t, model, cmd)

	if len(model.pending) != 0 {
		t.Fatalf("pending = %v", model.pending)
	}
	if strings.Join(model.ids, ",") != "B" || strings.Join(remote.ids, ",") != "B" {
		t.Fatalf("ids = %v remote = %v", model.ids, remote.ids)
	}
}

func TestAddByTypedID(t *testing.T) {
	model, _, _ := newTestModel(t, "A")

	press(t, model, "a")
	if !model.adding {
		t.Fatalf("a must open the input")
	}
	press(t, model, "1")
	press(t, model, "2")
	run(t, model, press(t, model, "enter"))

	if strings.Join(model.ids, ",") != "A,12" {
		t.Fatalf("ids = %v", model.ids)
	}
	if !strings.Contains(model.View(), "12") {
		t.Fatalf("View() must list the new favorite")
	}

	press(t, model, "a")
	press(t, model, "A")
	if cmd := press(t, model, "enter"); cmd != nil {
		t.Fatalf("adding an existing favorite must not call the remote")
	}
	if !strings.Contains(model.status, "ya es favorito") {
		t.Fatalf("status = %q", model.status)
	}
}

func TestWarmOfflineSendsCurrentSet(t *testing.T) {
	model, _, warmer := newTestModel(t, "A", "B")

	run(t, model, press(t, model, "o"))
	if strings.Join(warmer.ids, ",") != "A,B" {
		t.Fatalf("warmed = %v", warmer.ids)
	}
	if !strings.Contains(model.status, "2 favoritos") {
		t.Fatalf("status = %q", model.status)
	}
}

func TestQuitKey(t *testing.T) {
	model, _, _ := newTestModel(t)
	cmd := press(t, model, "q")
	if cmd == nil {
		t.Fatalf("q must return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q must quit")
	}
}
