package favconsole

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tankgo/internal/bootstrap/logging"
	domainfavorites "tankgo/internal/domain/favorites"
	"tankgo/internal/errs"
	"tankgo/internal/usecase/favorites"
)

const maxAuditLines = 6

type Options struct {
	// Warmer receives the pre-warm request; nil disables the o key.
	Warmer favorites.Warmer
}

type favoritesModel struct {
	ctx     context.Context
	service *favorites.Service
	warmer  favorites.Warmer

	ids           []string
	selectedIndex int
	pending       map[string]struct{}
	loading       bool
	adding        bool
	input         string
	status        string
	auditLogs     []string
}

type favoritesLoadedMsg struct {
	ids []string
	err error
}

type toggleDoneMsg struct {
	stationID string
	added     bool
	err       error
}

type warmDoneMsg struct {
	count int
	err   error
}

func NewFavoritesModel(ctx context.Context, service *favorites.Service, options Options) tea.Model {
	return &favoritesModel{
		ctx:     ctx,
		service: service,
		warmer:  options.Warmer,
		pending: make(map[string]struct{}),
		status:  "Cargando favoritos",
	}
}

func (m *favoritesModel) Init() tea.Cmd {
	m.loading = true
	return m.loadCmd()
}

func (m *favoritesModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case favoritesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = domainfavorites.UserMessage(msg.err)
			return m, nil
		}
		m.ids = msg.ids
		m.clampSelection()
		if len(m.ids) == 0 {
			m.status = "No tienes favoritos"
			return m, nil
		}
		m.status = fmt.Sprintf("%d favoritos", len(m.ids))
		return m, nil
	case toggleDoneMsg:
		delete(m.pending, msg.stationID)
		if msg.err != nil {
			m.status = domainfavorites.UserMessage(msg.err)
			m.appendAuditLog(msg.stationID, "error: "+msg.err.Error())
		} else {
			result := "eliminado"
			if msg.added {
				result = "añadido"
			}
			m.status = fmt.Sprintf("%s %s", msg.stationID, result)
			m.appendAuditLog(msg.stationID, result)
		}
		m.ids = m.service.IDs()
		m.clampSelection()
		return m, nil
	case warmDoneMsg:
		if msg.err != nil {
			m.status = "Pre-caché fallida: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("%d favoritos disponibles sin conexión", msg.count)
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.loading = true
			m.status = "Recargando"
			return m, m.loadCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.ids)-1 {
				m.selectedIndex++
			}
			return m, nil
		case "t":
			if id, ok := m.selectedID(); ok {
				return m, m.toggleCmd(id)
			}
			return m, nil
		case "a":
			m.adding = true
			m.input = ""
			return m, nil
		case "o":
			return m, m.warmCmd()
		}
	}
	return m, nil
}

func (m *favoritesModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input = ""
		return m, nil
	case tea.KeyEnter:
		m.adding = false
		id := strings.TrimSpace(m.input)
		m.input = ""
		if id == "" {
			return m, nil
		}
		if m.service.IsFavorite(id) {
			m.status = id + " ya es favorito"
			return m, nil
		}
		return m, m.toggleCmd(id)
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

func (m *favoritesModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))
	pendingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Mis gasolineras favoritas"))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Favoritos"))
	builder.WriteString("\n")
	switch {
	case m.loading:
		builder.WriteString(dimStyle.Render("- cargando..."))
		builder.WriteString("\n")
	case len(m.ids) == 0:
		builder.WriteString(dimStyle.Render("- sin favoritos"))
		builder.WriteString("\n")
	default:
		for index, id := range m.ids {
			line := id
			if _, busy := m.pending[id]; busy {
				line = pendingStyle.Render(id + " (pendiente)")
			}
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + line))
			} else {
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
	}
	builder.WriteString("\n")

	if m.adding {
		builder.WriteString(sectionStyle.Render("Añadir IDEESS"))
		builder.WriteString("\n> " + m.input + "_\n\n")
	}

	builder.WriteString(sectionStyle.Render("Estado"))
	builder.WriteString("\n- " + firstNonEmpty(m.status, "listo") + "\n\n")

	if len(m.auditLogs) > 0 {
		builder.WriteString(sectionStyle.Render("Historial"))
		builder.WriteString("\n")
		for _, line := range m.auditLogs {
			builder.WriteString("- " + line + "\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(dimStyle.Render("Teclas: ↑/k ↓/j mover  t alternar  a añadir  o sin conexión  g recargar  q salir"))
	return builder.String()
}

func (m *favoritesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.service.Load(m.ctx); err != nil {
			return favoritesLoadedMsg{err: err}
		}
		return favoritesLoadedMsg{ids: m.service.IDs()}
	}
}

// toggleCmd ignores a second toggle while one is pending for the same station.
func (m *favoritesModel) toggleCmd(stationID string) tea.Cmd {
	if _, busy := m.pending[stationID]; busy {
		return nil
	}
	m.pending[stationID] = struct{}{}
	wasFavorite := m.service.IsFavorite(stationID)

	return func() tea.Msg {
		err := m.service.Toggle(m.ctx, stationID)
		if err != nil {
			logging.Warn(logging.WithComponent(m.ctx, "usecase.favconsole"), "toggle failed",
				slog.String("station", stationID), slog.Any("err", errs.Loggable(err)))
		}
		return toggleDoneMsg{stationID: stationID, added: !wasFavorite, err: err}
	}
}

func (m *favoritesModel) warmCmd() tea.Cmd {
	if m.warmer == nil {
		m.status = "Pre-caché no disponible"
		return nil
	}
	m.status = "Guardando favoritos sin conexión"
	return func() tea.Msg {
		count, err := m.service.WarmOffline(m.ctx, m.warmer)
		return warmDoneMsg{count: count, err: err}
	}
}

func (m *favoritesModel) selectedID() (string, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.ids) {
		return "", false
	}
	return m.ids[m.selectedIndex], true
}

func (m *favoritesModel) clampSelection() {
	if m.selectedIndex >= len(m.ids) {
		m.selectedIndex = len(m.ids) - 1
	}
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}
}

func (m *favoritesModel) appendAuditLog(stationID string, result string) {
	m.auditLogs = append(m.auditLogs, stationID+" "+result)
	if len(m.auditLogs) > maxAuditLines {
		m.auditLogs = m.auditLogs[len(m.auditLogs)-maxAuditLines:]
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
