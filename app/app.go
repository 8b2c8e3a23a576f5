package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/statalabs/stallama/client"
	"github.com/statalabs/stallama/model"
	"github.com/statalabs/stallama/msg"
	"github.com/statalabs/stallama/render"
	"github.com/statalabs/stallama/stata"
	"github.com/statalabs/stallama/style"
)

// ProgramReady delivers the running tea.Program so stream pumps can send
// messages from their own goroutines.
type ProgramReady struct{ Program *tea.Program }

// slashCommands is everything Tab can complete to.
var slashCommands = []string{
	"explain", "fix", "optimize",
	"help", "clear", "export", "theme", "exit", "quit",
}

// Model is the top-level program model. It owns the conversation state
// machine: at most one exchange is in flight at a time, and every stream
// message carries the exchange number it belongs to so that anything from
// a cancelled exchange is dropped on arrival.
type Model struct {
	banner model.BannerModel
	chat   model.ChatModel
	input  model.InputModel
	status model.StatusModel
	ref    model.ReferenceModel

	state     State
	client    *client.Client
	stream    *client.Stream
	program   *tea.Program
	exchange  int
	cancelled bool

	width       int
	height      int
	keys        KeyMap
	confirmQuit bool
}

// New builds the initial model around the given API client.
func New(c *client.Client, version string) Model {
	return Model{
		banner: model.NewBanner(version),
		chat:   model.NewChat(80, 20),
		input:  model.NewInput(slashCommands),
		status: model.NewStatus(),
		ref:    model.NewReference(),
		state:  StateConnecting,
		client: c,
		keys:   DefaultKeyMap(),
		width:  80,
		height: 24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkHealth(), m.status.Init(), m.input.Focus(), tea.WindowSize())
}

func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := rawMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.chat.SetSize(v.Width, m.chatHeight())
		m.input.SetWidth(v.Width - 4)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(v)

	case model.ReferenceInsertMsg:
		m.input.Insert(v.Command)
		return m, m.input.Focus()

	case model.ReferenceDismissMsg:
		return m, m.input.Focus()

	case ProgramReady:
		m.program = v.Program
		return m, nil

	case msg.HealthResult:
		return m.handleHealth(v)

	case client.StreamStarted:
		return m.handleStarted(v)

	case client.StreamDelta:
		if v.Exchange == m.exchange && m.state == StateStreaming {
			m.chat.AppendDelta(v.Text)
		}
		return m, nil

	case client.StreamErrored:
		if v.Exchange != m.exchange {
			return m, nil
		}
		m.chat.RenderError(v.Message)
		return m.finishExchange()

	case client.StreamDone:
		if v.Exchange != m.exchange {
			return m, nil
		}
		m.chat.Finalize()
		return m.finishExchange()

	case client.StreamClosed:
		return m.handleClosed(v)

	case msg.ExportResult:
		if v.Err != nil {
			m.chat.AddSystemWarning(fmt.Sprintf("Export failed: %v", v.Err))
		} else {
			m.chat.AddSystemMessage("Transcript saved to " + v.Path)
		}
		return m, nil

	case msg.TickMsg:
		if m.state.Generating() {
			m.status.Tick()
			return m, m.tickCmd()
		}
		return m, nil
	}

	updated, cmd := m.status.Update(rawMsg)
	if st, ok := updated.(model.StatusModel); ok {
		m.status = st
	}
	return m, cmd
}

func (m Model) View() string {
	if m.state == StateConnecting {
		return "\n  " + style.BannerTitle.Render("Stallama") + "\n\n  Connecting to server...\n"
	}
	if m.ref.IsActive() {
		return m.ref.View()
	}
	var sections []string
	sections = append(sections, m.banner.View())
	sections = append(sections, m.chat.View())
	sections = append(sections, m.status.View())
	sections = append(sections, m.input.View())
	if m.confirmQuit {
		sections = append(sections, "  Press Ctrl+C again to quit, or any key to cancel.")
	}
	return strings.Join(sections, "\n")
}

func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmQuit {
		if key.Matches(k, m.keys.Cancel) {
			return m, tea.Quit
		}
		m.confirmQuit = false
		return m, nil
	}
	if m.ref.IsActive() {
		var cmd tea.Cmd
		m.ref, cmd = m.ref.Update(k)
		return m, cmd
	}
	if m.state.Generating() {
		return m.handleGeneratingKey(k)
	}
	return m.handleIdleKey(k)
}

func (m Model) handleIdleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Escape):
		m.input.Reset("")
		return m, nil
	case key.Matches(k, m.keys.Cancel):
		if m.input.Value() == "" {
			m.confirmQuit = true
			return m, nil
		}
		m.input.Reset("")
		return m, nil
	case key.Matches(k, m.keys.QuitEOF):
		if m.input.Value() == "" {
			return m, tea.Quit
		}
	case key.Matches(k, m.keys.ClearInput):
		m.input.Reset("")
		return m, nil
	case key.Matches(k, m.keys.Reference):
		m.input.Blur()
		return m, m.ref.Open(m.width, m.height)
	case key.Matches(k, m.keys.Submit):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset(text)
		return m.submitInput(text)
	case key.Matches(k, m.keys.ScrollTop):
		m.chat.ScrollToTop()
		return m, nil
	case key.Matches(k, m.keys.ScrollBottom):
		m.chat.ScrollToBottom()
		return m, nil
	case key.Matches(k, m.keys.PageUp), key.Matches(k, m.keys.PageDown):
		updated, cmd := m.chat.Update(k)
		if c, ok := updated.(model.ChatModel); ok {
			m.chat = c
		}
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(k)
	return m, cmd
}

func (m Model) handleGeneratingKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Cancel), key.Matches(k, m.keys.Escape):
		return m.cancelGeneration()
	case key.Matches(k, m.keys.PageUp), key.Matches(k, m.keys.PageDown):
		updated, cmd := m.chat.Update(k)
		if c, ok := updated.(model.ChatModel); ok {
			m.chat = c
		}
		return m, cmd
	}
	// Typing is ignored while a response is in flight.
	return m, nil
}

// submitInput classifies one submission: local commands run immediately,
// named commands go to their endpoint, everything else is free-form chat.
// Callers guarantee state is not Generating here.
func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	switch {
	case text == "/exit" || text == "/quit":
		return m, tea.Quit
	case text == "/help":
		m.chat.AddSystemMessage(helpText())
		return m, nil
	case text == "/clear":
		m.chat.Clear()
		m.chat.AddSystemMessage("History cleared.")
		return m, nil
	case text == "/export":
		m.chat.AddUserMessage(text)
		return m, m.exportTranscript()
	case strings.HasPrefix(text, "/theme"):
		name := strings.TrimSpace(strings.TrimPrefix(text, "/theme"))
		if _, ok := style.Themes[name]; !ok {
			m.chat.AddSystemWarning("Unknown theme. Available: dark, light")
			return m, nil
		}
		style.SetTheme(name)
		m.chat.AddSystemMessage("Theme set to " + name)
		return m, nil
	}

	if name, code, ok := parseSlash(text); ok {
		if code == "" {
			m.chat.AddSystemWarning(fmt.Sprintf("Usage: /%s <stata code>", name))
			return m, nil
		}
		m.chat.AddUserMessage(text)
		return m.beginExchange(m.openCommand(name, code))
	}

	m.chat.AddUserMessage(text)
	return m.beginExchange(m.openChat(text))
}

// parseSlash splits "/explain regress y x" into ("explain", "regress y x").
// Only known command names match; anything else is treated as chat text.
func parseSlash(text string) (name, code string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	rest := strings.TrimPrefix(text, "/")
	name, code, _ = strings.Cut(rest, " ")
	if !stata.IsCommand(name) {
		return "", "", false
	}
	return name, strings.TrimSpace(code), true
}

// beginExchange starts a new exchange: bumps the exchange number, opens
// the response buffer, and takes the generation lock.
func (m Model) beginExchange(open func(exchange int) tea.Cmd) (tea.Model, tea.Cmd) {
	m.exchange++
	m.cancelled = false
	m.state = StateSubmitting
	m.chat.BeginResponse()
	m.status.SetActive(true)
	m.input.Blur()
	return m, tea.Batch(open(m.exchange), m.tickCmd())
}

func (m Model) handleStarted(v client.StreamStarted) (tea.Model, tea.Cmd) {
	if v.Exchange != m.exchange || !m.state.Generating() {
		// Stale stream from a cancelled exchange.
		v.Stream.Close()
		return m, nil
	}
	if m.program == nil {
		v.Stream.Close()
		m.chat.RenderError("internal: program not ready")
		return m.finishExchange()
	}
	m.stream = v.Stream
	m.state = StateStreaming
	return m, m.stream.Pump(m.program, v.Exchange)
}

func (m Model) handleClosed(v client.StreamClosed) (tea.Model, tea.Cmd) {
	if v.Exchange != m.exchange {
		return m, nil
	}
	switch {
	case m.cancelled:
		// The close was ours; partial output was already committed.
	case v.Err != nil:
		m.chat.RenderError(fmt.Sprintf("connection lost: %v", v.Err))
	case v.Incomplete:
		m.chat.RenderError("response ended unexpectedly")
	}
	return m.finishExchange()
}

// cancelGeneration aborts the in-flight exchange by closing its stream.
// The pump goroutine unwinds on the resulting read error; its terminal
// message is matched by exchange number and absorbed in handleClosed.
func (m Model) cancelGeneration() (tea.Model, tea.Cmd) {
	if m.stream != nil {
		m.stream.Close()
		m.stream = nil
	}
	m.cancelled = true
	if m.chat.PendingText() != "" {
		m.chat.Finalize()
	} else {
		m.chat.Discard()
	}
	m.chat.AddSystemMessage("Generation cancelled.")
	return m.finishExchange()
}

// finishExchange releases the generation lock. Runs on every terminal
// outcome, including abnormal stream teardown.
func (m Model) finishExchange() (tea.Model, tea.Cmd) {
	m.stream = nil
	m.state = StateIdle
	m.status.SetActive(false)
	return m, m.input.Focus()
}

func (m Model) handleHealth(h msg.HealthResult) (tea.Model, tea.Cmd) {
	if h.Err != nil {
		// Advisory only: the app stays usable, requests may still fail.
		m.chat.AddSystemWarning(fmt.Sprintf("Server unreachable: %v", h.Err))
	} else {
		m.banner.SetHealth(h)
		m.status.SetModel(h.Model)
	}
	m.state = StateIdle
	m.chat.SetSize(m.width, m.chatHeight())
	return m, m.input.Focus()
}

// -- Commands -----------------------------------------------------------------

func (m Model) checkHealth() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		health, err := c.Health()
		if err != nil {
			return msg.HealthResult{Err: err}
		}
		return msg.HealthResult{
			Status:     health.Status,
			Model:      health.Model,
			OllamaHost: health.OllamaHost,
			Version:    health.Version,
		}
	}
}

func (m Model) openChat(message string) func(int) tea.Cmd {
	c := m.client
	return func(exchange int) tea.Cmd {
		return func() tea.Msg {
			s, err := c.OpenChat(context.Background(), message)
			if err != nil {
				return client.StreamErrored{Exchange: exchange, Message: err.Error()}
			}
			return client.StreamStarted{Exchange: exchange, Stream: s}
		}
	}
}

func (m Model) openCommand(name, code string) func(int) tea.Cmd {
	c := m.client
	return func(exchange int) tea.Cmd {
		return func() tea.Msg {
			s, err := c.OpenCommand(context.Background(), name, code)
			if err != nil {
				return client.StreamErrored{Exchange: exchange, Message: err.Error()}
			}
			return client.StreamStarted{Exchange: exchange, Stream: s}
		}
	}
}

func (m Model) exportTranscript() tea.Cmd {
	entries := m.chat.Entries()
	return func() tea.Msg {
		path := fmt.Sprintf("stallama-transcript-%s.html", time.Now().Format("20060102-150405"))
		doc := render.Transcript(entries)
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			return msg.ExportResult{Err: err}
		}
		return msg.ExportResult{Path: path}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg { return msg.TickMsg{} })
}

// chatHeight calculates available lines for the chat viewport.
func (m Model) chatHeight() int {
	h := m.height - 4 // banner + status + input + spacing
	if h < 5 {
		h = 5
	}
	return h
}

func helpText() string {
	return `Commands:
  /explain <code>   Explain what a Stata snippet does
  /fix <code>       Diagnose and fix a Stata snippet
  /optimize <code>  Suggest a faster or cleaner rewrite
  /export           Save the conversation as an HTML transcript
  /theme <name>     Switch color theme (dark, light)
  /clear            Clear the conversation
  /help             Show this help
  /exit             Quit

Keybindings:
  Enter        Submit
  Esc          Cancel generation / clear input
  Ctrl+C       Cancel / quit
  Ctrl+U       Clear input
  Ctrl+R       Browse common Stata commands
  Tab          Complete slash commands
  Up/Down      Input history
  PgUp/PgDn    Scroll history
  Home/End     Jump to top / bottom`
}
