package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/spindle/internal/trace"
)

// keyMap defines keybindings for the interactive TUI.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tuiBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	zeroStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true)
	nanStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// traceModel is the Bubble Tea model for browsing a dial trace.
type traceModel struct {
	result   trace.Result
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	content  string
}

func newTraceModel(res trace.Result) traceModel {
	h := help.New()
	content := renderTraceContent(res)
	return traceModel{
		result:  res,
		help:    h,
		keys:    defaultKeyMap,
		content: content,
	}
}

func renderTraceContent(res trace.Result) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(
		fmt.Sprintf("Dial trace: %d instruction(s), %d zero crossing(s)",
			len(res.Steps), res.Count)))
	sb.WriteString("\n\n")
	sb.WriteString(statusStyle.Render(
		fmt.Sprintf("    starting position %d", res.Start)))
	sb.WriteString("\n")

	if len(res.Steps) == 0 {
		sb.WriteString(statusStyle.Render("    No instructions to replay."))
		sb.WriteString("\n")
		return sb.String()
	}

	// Build the step table.
	rows := make([][]string, 0, len(res.Steps))
	for _, st := range res.Steps {
		hit := ""
		if st.Zero {
			hit = "*"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", st.Index),
			st.Token,
			st.Direction,
			st.Distance,
			st.Position,
			hit,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tuiBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tuiHeaderStyle
			}
			if row >= 0 && row < len(rows) {
				if rows[row][5] == "*" {
					return zeroStyle
				}
				if col >= 3 && col <= 4 && rows[row][col] == "NaN" {
					return nanStyle
				}
			}
			return lipgloss.NewStyle()
		}).
		Headers("#", "TOKEN", "DIR", "DIST", "POS", "ZERO").
		Rows(rows...)

	sb.WriteString(t.String())
	sb.WriteString("\n")

	return sb.String()
}

func (m traceModel) Init() tea.Cmd {
	return nil
}

func (m traceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 0
		footerHeight := 2
		verticalMargin := headerHeight + footerHeight

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-verticalMargin)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - verticalMargin
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m traceModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveTrace launches the Bubble Tea TUI for browsing a
// dial trace.
func runInteractiveTrace(res trace.Result) error {
	model := newTraceModel(res)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
