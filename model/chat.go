package model

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/statalabs/stallama/markdown"
	"github.com/statalabs/stallama/render"
	"github.com/statalabs/stallama/style"
)

// messageRole identifies who sent a message.
type messageRole int

const (
	roleUser messageRole = iota
	roleAssistant
	roleSystem
)

// ChatMessage is a single entry in the conversation history.
type ChatMessage struct {
	Role      messageRole
	Content   string
	IsError   bool
	IsWarning bool
	Timestamp time.Time
}

// ChatModel is a scrollable viewport displaying the conversation. It is
// the terminal rendering target for a streamed response: deltas accumulate
// in a plain-text buffer shown as-is (never interpreted as markup), and
// the buffer is converted to styled rich text exactly once, at Finalize.
type ChatModel struct {
	vp       viewport.Model
	messages []ChatMessage
	width    int
	height   int

	streaming bool
	pending   string
}

var _ render.Sink = (*ChatModel)(nil)

// NewChat constructs a ChatModel sized to width x height.
func NewChat(width, height int) ChatModel {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return ChatModel{vp: vp, width: width, height: height}
}

// AddUserMessage appends the user's message verbatim.
func (m *ChatModel) AddUserMessage(text string) {
	m.messages = append(m.messages, ChatMessage{Role: roleUser, Content: text, Timestamp: time.Now()})
	m.refresh()
}

// AddSystemMessage appends a dimmed system-role message.
func (m *ChatModel) AddSystemMessage(text string) {
	m.messages = append(m.messages, ChatMessage{Role: roleSystem, Content: text, Timestamp: time.Now()})
	m.refresh()
}

// AddSystemWarning appends a warning-styled system message.
func (m *ChatModel) AddSystemWarning(text string) {
	m.messages = append(m.messages, ChatMessage{Role: roleSystem, Content: "⚠ " + text, IsWarning: true, Timestamp: time.Now()})
	m.refresh()
}

// BeginResponse opens the response buffer for the next exchange.
func (m *ChatModel) BeginResponse() {
	m.streaming = true
	m.pending = ""
	m.refresh()
}

// AppendDelta concatenates a fragment onto the in-progress response and
// scrolls to the newest content.
func (m *ChatModel) AppendDelta(text string) {
	if !m.streaming {
		return
	}
	m.pending += text
	m.refresh()
}

// Finalize converts the accumulated response to rich text in one pass and
// commits it to the history.
func (m *ChatModel) Finalize() {
	if !m.streaming {
		return
	}
	m.streaming = false
	m.messages = append(m.messages, ChatMessage{
		Role:      roleAssistant,
		Content:   m.pending,
		Timestamp: time.Now(),
	})
	m.pending = ""
	m.refresh()
}

// RenderError replaces the in-progress response with a visually distinct
// error message. Finalize is not called for a failed exchange.
func (m *ChatModel) RenderError(message string) {
	m.streaming = false
	m.pending = ""
	m.messages = append(m.messages, ChatMessage{
		Role:      roleAssistant,
		Content:   message,
		IsError:   true,
		Timestamp: time.Now(),
	})
	m.refresh()
}

// Discard abandons the in-progress response without committing it.
func (m *ChatModel) Discard() {
	m.streaming = false
	m.pending = ""
	m.refresh()
}

// Streaming reports whether a response buffer is open.
func (m *ChatModel) Streaming() bool { return m.streaming }

// PendingText returns the raw accumulated response so far.
func (m *ChatModel) PendingText() string { return m.pending }

// MessageCount returns the number of committed messages.
func (m *ChatModel) MessageCount() int { return len(m.messages) }

// Clear drops the conversation.
func (m *ChatModel) Clear() {
	m.messages = nil
	m.streaming = false
	m.pending = ""
	m.refresh()
}

// Entries exports the committed conversation for transcript rendering.
func (m *ChatModel) Entries() []render.TranscriptEntry {
	var out []render.TranscriptEntry
	for _, msg := range m.messages {
		role := "system"
		switch msg.Role {
		case roleUser:
			role = "user"
		case roleAssistant:
			role = "assistant"
		}
		out = append(out, render.TranscriptEntry{Role: role, Content: msg.Content, IsError: msg.IsError})
	}
	return out
}

// SetSize resizes the underlying viewport.
func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.Width = width
	m.vp.Height = height
	m.refresh()
}

// ScrollToTop jumps the viewport to the oldest message.
func (m *ChatModel) ScrollToTop() { m.vp.GotoTop() }

// ScrollToBottom jumps the viewport to the newest content.
func (m *ChatModel) ScrollToBottom() { m.vp.GotoBottom() }

// Init satisfies tea.Model.
func (m ChatModel) Init() tea.Cmd {
	return nil
}

// Update forwards keyboard and mouse events to the viewport.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View returns the rendered viewport content.
func (m ChatModel) View() string {
	return m.vp.View()
}

// refresh re-renders all messages into the viewport and scrolls down.
func (m *ChatModel) refresh() {
	m.vp.SetContent(m.renderAll())
	m.vp.GotoBottom()
}

func (m *ChatModel) renderAll() string {
	if len(m.messages) == 0 && !m.streaming {
		return style.Hint.Render("  No messages yet. Type below to get started.")
	}

	var sb strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(msg))
	}
	if m.streaming {
		if len(m.messages) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(style.AssistantLabel.Render("◈ Stallama"))
		sb.WriteString("\n")
		// Plain text during streaming; rich conversion happens at Finalize.
		sb.WriteString(m.pending)
	}
	return sb.String()
}

func (m *ChatModel) renderMessage(msg ChatMessage) string {
	switch msg.Role {
	case roleUser:
		return style.UserLabel.Render("❯ You") + "\n" + msg.Content

	case roleAssistant:
		if msg.IsError {
			return style.ErrorText.Render("Error: " + msg.Content)
		}
		return style.AssistantLabel.Render("◈ Stallama") + "\n" + markdown.RenderWidth(msg.Content, m.width-2)

	case roleSystem:
		if msg.IsWarning {
			return style.WarningText.Render(msg.Content)
		}
		return style.Faint.Render(msg.Content)

	default:
		return msg.Content
	}
}
