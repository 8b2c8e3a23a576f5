package model

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/statalabs/stallama/stata"
	"github.com/statalabs/stallama/style"
)

// ReferenceInsertMsg is sent when the user picks a command to insert into
// the prompt.
type ReferenceInsertMsg struct {
	Command string
}

// ReferenceDismissMsg is sent when the user closes the reference.
type ReferenceDismissMsg struct{}

// referenceEntry is one Stata command with its short description.
type referenceEntry struct {
	Name        string
	Description string
}

// ReferenceModel is a filterable overlay listing common Stata commands.
// Picking one inserts its name into the prompt.
type ReferenceModel struct {
	active   bool
	filter   textinput.Model
	entries  []referenceEntry
	filtered []referenceEntry
	cursor   int
	width    int
	height   int
}

// NewReference builds the overlay from the built-in Stata command table.
func NewReference() ReferenceModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(style.Primary)

	entries := make([]referenceEntry, 0, len(stata.CommonCommands))
	for name, desc := range stata.CommonCommands {
		entries = append(entries, referenceEntry{Name: name, Description: desc})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return ReferenceModel{filter: ti, entries: entries}
}

const refMaxVisible = 12

// Open activates the overlay.
func (m *ReferenceModel) Open(width, height int) tea.Cmd {
	m.active = true
	m.filtered = m.entries
	m.cursor = 0
	m.width = width
	m.height = height
	m.filter.SetValue("")
	m.filter.Width = width/2 - 6
	return m.filter.Focus()
}

// IsActive reports whether the overlay is visible.
func (m ReferenceModel) IsActive() bool { return m.active }

// Update handles keyboard events for the overlay.
func (m ReferenceModel) Update(msg tea.Msg) (ReferenceModel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, key.NewBinding(key.WithKeys("esc", "ctrl+c"))):
			m.active = false
			m.filter.Blur()
			return m, func() tea.Msg { return ReferenceDismissMsg{} }

		case key.Matches(k, key.NewBinding(key.WithKeys("enter"))):
			if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
				name := m.filtered[m.cursor].Name
				m.active = false
				m.filter.Blur()
				return m, func() tea.Msg { return ReferenceInsertMsg{Command: name} }
			}
			return m, nil

		case key.Matches(k, key.NewBinding(key.WithKeys("up"))):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(k, key.NewBinding(key.WithKeys("down"))):
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	prev := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != prev {
		m.applyFilter()
	}
	return m, cmd
}

// applyFilter filters entries by substring match on name or description.
func (m *ReferenceModel) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	if query == "" {
		m.filtered = m.entries
		m.cursor = 0
		return
	}
	var results []referenceEntry
	for _, e := range m.entries {
		if strings.Contains(e.Name, query) || strings.Contains(strings.ToLower(e.Description), query) {
			results = append(results, e)
		}
	}
	m.filtered = results
	m.cursor = 0
}

// View renders the overlay centered in the window.
func (m ReferenceModel) View() string {
	if !m.active {
		return ""
	}

	boxWidth := m.width / 2
	if boxWidth < 44 {
		boxWidth = 44
	}
	if boxWidth > m.width-4 {
		boxWidth = m.width - 4
	}

	var sb strings.Builder
	sb.WriteString(style.Bold.Foreground(style.Primary).Render("Stata Commands"))
	sb.WriteByte('\n')
	sb.WriteString(m.filter.View())
	sb.WriteByte('\n')
	sb.WriteString(lipgloss.NewStyle().Foreground(style.Border).Render(strings.Repeat("─", boxWidth-4)))
	sb.WriteByte('\n')

	start := 0
	if len(m.filtered) > refMaxVisible {
		start = m.cursor - refMaxVisible/2
		if start < 0 {
			start = 0
		}
		if start+refMaxVisible > len(m.filtered) {
			start = len(m.filtered) - refMaxVisible
		}
	}
	end := start + refMaxVisible
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	if start == end {
		sb.WriteString(style.Faint.Render("  No matching commands"))
	}

	for i := start; i < end; i++ {
		e := m.filtered[i]
		if i == m.cursor {
			sb.WriteString(lipgloss.NewStyle().Foreground(style.Primary).Bold(true).Render("> "))
			sb.WriteString(lipgloss.NewStyle().Foreground(style.Secondary).Bold(true).Render(e.Name))
		} else {
			sb.WriteString("  ")
			sb.WriteString(lipgloss.NewStyle().Foreground(style.Secondary).Render(e.Name))
		}
		sb.WriteString(style.Faint.Render("  " + e.Description))
		if i < end-1 {
			sb.WriteByte('\n')
		}
	}

	if len(m.filtered) > refMaxVisible {
		sb.WriteByte('\n')
		sb.WriteString(style.Faint.Render("  ... type to filter"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Border).
		Padding(1, 2).
		Width(boxWidth).
		Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
