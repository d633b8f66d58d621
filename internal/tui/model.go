// Package tui provides the Bubble Tea picker interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tverner/pickr/internal/model"
	"github.com/tverner/pickr/internal/picker"
	"github.com/tverner/pickr/internal/settings"
)

type phase int

const (
	phaseExclude phase = iota
	phaseProposing
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	proposedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C89A3A")).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the full-screen picker UI.
type Model struct {
	settings *model.Settings
	path     string
	picker   *picker.Picker

	phase    phase
	list     table.Model
	excluded map[int]bool
	proposed *model.Person
	tally    model.SessionTally
	saveErr  error
	fatalErr error

	width  int
	height int

	save func(path string, s *model.Settings) error
}

// NewModel constructs the picker TUI model.
func NewModel(s *model.Settings, path string, pk *picker.Picker) *Model {
	m := &Model{
		settings: s,
		path:     path,
		picker:   pk,
		excluded: map[int]bool{},
		save:     settings.Save,
	}
	m.list = table.New(
		table.WithColumns(m.listColumns()),
		table.WithRows(m.listRows()),
		table.WithFocused(true),
		table.WithHeight(listHeight(len(s.Persons))),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("#8C8C8C")).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#4A4A4A"))
	m.list.SetStyles(styles)
	return m
}

// Err reports the fatal error that ended the session, if any.
func (m *Model) Err() error {
	return m.fatalErr
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeySpace:
			if m.phase == phaseExclude {
				m.toggleExclusion()
			}
			return m, nil
		case tea.KeyEnter:
			if m.phase == phaseExclude {
				return m, m.confirmExclusions()
			}
			return m, nil
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "y":
			if m.phase == phaseProposing {
				return m, m.decide(picker.Accepted)
			}
		case "n", "r":
			if m.phase == phaseProposing {
				return m, m.decide(picker.Rejected)
			}
		}
		if m.phase == phaseExclude {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		return m, nil
	default:
		if m.phase == phaseExclude {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.phase {
	case phaseExclude:
		content = strings.Join([]string{
			titleStyle.Render("Who is in today?"),
			"",
			m.list.View(),
			"",
			hintStyle.Render("space exclude/include · enter start · q quit"),
		}, "\n")
	case phaseProposing:
		if m.proposed == nil {
			return ""
		}
		content = strings.Join([]string{
			proposedStyle.Render(m.proposed.Name),
			"",
			hintStyle.Render("y accept · n reject · q quit"),
		}, "\n")
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		if footer == "" {
			return content
		}
		return content + "\n" + footer
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Proposals %d", m.tally.Proposals),
		fmt.Sprintf("Accepted %d", m.tally.Accepts),
		fmt.Sprintf("Rejected %d", m.tally.Rejects),
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.saveErr != nil {
		footer += "  " + errorStyle.Render(fmt.Sprintf("save failed: %v (file may be stale)", m.saveErr))
	}
	return footer
}

func (m *Model) toggleExclusion() {
	idx := m.list.Cursor()
	if idx < 0 || idx >= len(m.settings.Persons) {
		return
	}
	m.excluded[idx] = !m.excluded[idx]
	m.list.SetRows(m.listRows())
}

func (m *Model) confirmExclusions() tea.Cmd {
	for idx, excluded := range m.excluded {
		if excluded {
			m.settings.Persons[idx].Active = false
		}
	}
	m.phase = phaseProposing
	return m.propose()
}

func (m *Model) decide(d picker.Decision) tea.Cmd {
	picker.Apply(m.settings, m.proposed, d)
	m.tally.Proposals++
	if d == picker.Accepted {
		m.tally.Accepts++
	} else {
		m.tally.Rejects++
	}
	m.saveErr = m.save(m.path, m.settings)
	return m.propose()
}

func (m *Model) propose() tea.Cmd {
	proposed, err := m.picker.Propose(m.settings)
	if err != nil {
		m.fatalErr = err
		return tea.Quit
	}
	m.proposed = proposed
	return nil
}

func (m *Model) listColumns() []table.Column {
	nameWidth := len("Name")
	for _, p := range m.settings.Persons {
		if w := runewidth.StringWidth(p.Name); w > nameWidth {
			nameWidth = w
		}
	}
	return []table.Column{
		{Title: "", Width: 3},
		{Title: "Name", Width: nameWidth},
		{Title: "Unproposed", Width: 10},
		{Title: "Rejected", Width: 8},
		{Title: "Weight", Width: 6},
	}
}

func (m *Model) listRows() []table.Row {
	rows := make([]table.Row, 0, len(m.settings.Persons))
	for i, p := range m.settings.Persons {
		marker := ""
		if m.excluded[i] {
			marker = "✗"
		}
		rows = append(rows, table.Row{
			marker,
			p.Name,
			fmt.Sprintf("%d", p.TimesUnproposed),
			fmt.Sprintf("%d", p.TimesRejected),
			fmt.Sprintf("%.2f", picker.Weight(p, m.settings.UnproposedFactor, m.settings.RejectedFactor)),
		})
	}
	return rows
}

func listHeight(persons int) int {
	if persons < 1 {
		return 1
	}
	if persons > 12 {
		return 12
	}
	return persons
}
