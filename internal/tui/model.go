package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mesh-retriever/internal/domain"
)

// Searcher is the TUI-facing subset of the query engine.
type Searcher interface {
	Search(ctx context.Context, query string, collections []string, limit int) ([]domain.SearchHit, error)
}

// Model is the Bubble Tea model for the interactive query console.
type Model struct {
	searcher    Searcher
	collections []string
	limit       int
	input       textinput.Model
	viewport    viewport.Model
	hits        []domain.SearchHit
	status      string
	cursor      int
	ready       bool
}

// New creates a console over the given engine and target collections.
func New(searcher Searcher, collections []string, limit int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type query and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	if limit <= 0 {
		limit = 5
	}
	return Model{
		searcher:    searcher,
		collections: collections,
		limit:       limit,
		input:       ti,
		viewport:    vp,
		status:      fmt.Sprintf("Searching %s. Type to query.", strings.Join(collections, ", ")),
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentHit())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				hits, err := m.searcher.Search(context.Background(), q, m.collections, m.limit)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.hits = nil
				} else {
					m.status = fmt.Sprintf("%d results for %q", len(hits), q)
					m.hits = hits
					m.cursor = 0
				}
				m.viewport.SetContent(m.renderCurrentHit())
				return m, nil
			}
		case "down":
			if len(m.hits) > 0 {
				m.cursor = (m.cursor + 1) % len(m.hits)
				m.viewport.SetContent(m.renderCurrentHit())
				return m, nil
			}
		case "up":
			if len(m.hits) > 0 {
				m.cursor = (m.cursor - 1 + len(m.hits)) % len(m.hits)
				m.viewport.SetContent(m.renderCurrentHit())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the console layout and the current hit.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Mesh Retriever")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentHit() string {
	if len(m.hits) == 0 {
		return "No results yet."
	}
	h := m.hits[m.cursor]
	title := titleStyle.Render(fmt.Sprintf("Result %d/%d  %s  score=%.4f", m.cursor+1, len(m.hits), h.Source, h.Score))
	body := strings.TrimSpace(h.Content)
	return title + "\n\n" + body
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
