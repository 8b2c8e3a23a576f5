package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/statalabs/stallama/style"
)

// InputModel wraps a single-line prompt with submission history and
// tab completion over slash commands.
type InputModel struct {
	ti       textinput.Model
	history  []string
	histPos  int
	commands []string
}

// NewInput constructs the prompt. commands is the list of completable
// slash commands, without the leading slash.
func NewInput(commands []string) InputModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about Stata, or /explain <code>"
	ti.Prompt = style.PromptChar.Render("❯ ")
	ti.CharLimit = 0
	ti.Focus()
	return InputModel{ti: ti, commands: commands}
}

// Value returns the current prompt text.
func (m InputModel) Value() string { return m.ti.Value() }

// Reset clears the prompt and records text in the history.
func (m *InputModel) Reset(text string) {
	if text != "" {
		if n := len(m.history); n == 0 || m.history[n-1] != text {
			m.history = append(m.history, text)
		}
	}
	m.histPos = len(m.history)
	m.ti.Reset()
}

// Insert appends text at the end of the prompt.
func (m *InputModel) Insert(text string) {
	v := m.ti.Value()
	if v != "" && !strings.HasSuffix(v, " ") {
		v += " "
	}
	m.ti.SetValue(v + text)
	m.ti.CursorEnd()
}

// SetWidth resizes the prompt.
func (m *InputModel) SetWidth(w int) {
	m.ti.Width = w
}

// Focus gives the prompt keyboard focus.
func (m *InputModel) Focus() tea.Cmd { return m.ti.Focus() }

// Blur removes keyboard focus.
func (m *InputModel) Blur() { m.ti.Blur() }

// Update handles history navigation and completion before delegating to
// the underlying textinput.
func (m InputModel) Update(msg tea.Msg) (InputModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyUp:
			m.historyPrev()
			return m, nil
		case tea.KeyDown:
			m.historyNext()
			return m, nil
		case tea.KeyTab:
			m.complete()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *InputModel) historyPrev() {
	if len(m.history) == 0 || m.histPos == 0 {
		return
	}
	m.histPos--
	m.ti.SetValue(m.history[m.histPos])
	m.ti.CursorEnd()
}

func (m *InputModel) historyNext() {
	if m.histPos >= len(m.history) {
		return
	}
	m.histPos++
	if m.histPos == len(m.history) {
		m.ti.Reset()
		return
	}
	m.ti.SetValue(m.history[m.histPos])
	m.ti.CursorEnd()
}

// complete expands a partial slash command when exactly one matches.
func (m *InputModel) complete() {
	v := m.ti.Value()
	if !strings.HasPrefix(v, "/") || strings.ContainsRune(v, ' ') {
		return
	}
	partial := strings.TrimPrefix(v, "/")
	var match string
	for _, c := range m.commands {
		if strings.HasPrefix(c, partial) {
			if match != "" {
				return
			}
			match = c
		}
	}
	if match != "" {
		m.ti.SetValue("/" + match + " ")
		m.ti.CursorEnd()
	}
}

// View renders the prompt line.
func (m InputModel) View() string {
	return m.ti.View()
}
