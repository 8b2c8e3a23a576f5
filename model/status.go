package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/statalabs/stallama/style"
)

// StatusModel renders the bottom status line. It has two visual states:
//
//   - generating: spinner + "generating" + elapsed time
//   - idle: model name + key hints
type StatusModel struct {
	spin      spinner.Model
	modelName string
	active    bool
	started   time.Time
	elapsed   time.Duration
}

// NewStatus returns an idle StatusModel.
func NewStatus() StatusModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = style.SpinnerStyle
	return StatusModel{spin: sp}
}

// SetModel stores the model name for idle display.
func (m *StatusModel) SetModel(name string) {
	m.modelName = name
}

// SetActive marks the status line as generating (true) or idle (false).
func (m *StatusModel) SetActive(active bool) {
	m.active = active
	if active {
		m.started = time.Now()
		m.elapsed = 0
	}
}

// Tick advances the elapsed timer while generating.
func (m *StatusModel) Tick() {
	if m.active {
		m.elapsed = time.Since(m.started)
	}
}

// Init starts the spinner.
func (m StatusModel) Init() tea.Cmd {
	return m.spin.Tick
}

// Update advances the spinner animation.
func (m StatusModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(message)
	return m, cmd
}

// View renders the status line.
func (m StatusModel) View() string {
	if m.active {
		return m.spin.View() + style.StatusBar.Render(
			fmt.Sprintf(" generating · %.1fs · Esc to cancel", m.elapsed.Seconds()))
	}
	hints := " · /help for commands · Ctrl+C to quit"
	if m.modelName == "" {
		return style.StatusBar.Render(strings.TrimPrefix(hints, " · "))
	}
	return style.StatusBar.Render(m.modelName + hints)
}
