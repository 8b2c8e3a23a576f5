package model

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statalabs/stallama/style"
)

func TestChatAccumulatesDeltasAndFinalizesOnce(t *testing.T) {
	c := NewChat(80, 20)
	c.BeginResponse()
	c.AppendDelta("Hello")
	c.AppendDelta(" world")

	assert.True(t, c.Streaming())
	assert.Equal(t, "Hello world", c.PendingText())
	assert.Equal(t, 0, c.MessageCount())

	c.Finalize()
	assert.False(t, c.Streaming())
	assert.Empty(t, c.PendingText())
	require.Equal(t, 1, c.MessageCount())

	entries := c.Entries()
	assert.Equal(t, "assistant", entries[0].Role)
	assert.Equal(t, "Hello world", entries[0].Content)

	// A second Finalize must not commit anything else.
	c.Finalize()
	assert.Equal(t, 1, c.MessageCount())
}

func TestChatDeltasIgnoredOutsideResponse(t *testing.T) {
	c := NewChat(80, 20)
	c.AppendDelta("stray")
	assert.Empty(t, c.PendingText())
	assert.Equal(t, 0, c.MessageCount())
}

func TestChatRenderErrorReplacesPending(t *testing.T) {
	c := NewChat(80, 20)
	c.BeginResponse()
	c.AppendDelta("half an ans")
	c.RenderError("model unavailable")

	assert.False(t, c.Streaming())
	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsError)
	assert.Equal(t, "model unavailable", entries[0].Content)
}

func TestChatDiscardDropsPendingWithoutCommit(t *testing.T) {
	c := NewChat(80, 20)
	c.BeginResponse()
	c.AppendDelta("never mind")
	c.Discard()

	assert.False(t, c.Streaming())
	assert.Empty(t, c.PendingText())
	assert.Equal(t, 0, c.MessageCount())
}

func TestChatEntriesRoles(t *testing.T) {
	c := NewChat(80, 20)
	c.AddUserMessage("what does regress do?")
	c.AddSystemMessage("note")
	c.BeginResponse()
	c.AppendDelta("It fits a linear model.")
	c.Finalize()

	entries := c.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "user", entries[0].Role)
	assert.Equal(t, "system", entries[1].Role)
	assert.Equal(t, "assistant", entries[2].Role)
}

func TestStatusIdleLineHasNoStraySeparator(t *testing.T) {
	s := NewStatus()
	assert.Equal(t, style.StatusBar.Render("/help for commands · Ctrl+C to quit"), s.View())

	s.SetModel("llama3.2")
	assert.Equal(t, style.StatusBar.Render("llama3.2 · /help for commands · Ctrl+C to quit"), s.View())
}

func TestChatWarningsAreMarked(t *testing.T) {
	c := NewChat(80, 20)
	c.AddSystemWarning("server unreachable")
	c.AddSystemMessage("plain note")

	require.Len(t, c.messages, 2)
	assert.True(t, c.messages[0].IsWarning)
	assert.Equal(t, "⚠ server unreachable", c.messages[0].Content)
	assert.False(t, c.messages[1].IsWarning)
}

func TestInputHistoryNavigation(t *testing.T) {
	in := NewInput(nil)
	in.Reset("first")
	in.Reset("second")

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "second", in.Value())
	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "first", in.Value())
	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "second", in.Value())
	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Empty(t, in.Value())
}

func TestInputTabCompletesUniquePrefix(t *testing.T) {
	in := NewInput([]string{"explain", "fix", "optimize", "export"})

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/f")})
	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "/fix ", in.Value())
}

func TestInputTabIgnoresAmbiguousPrefix(t *testing.T) {
	in := NewInput([]string{"explain", "fix", "optimize", "export"})

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/ex")})
	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "/ex", in.Value())
}

func TestReferenceFilterAndInsert(t *testing.T) {
	r := NewReference()
	r.Open(100, 40)
	require.True(t, r.IsActive())

	r, _ = r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("regr")})
	require.NotEmpty(t, r.filtered)
	assert.Equal(t, "regress", r.filtered[0].Name)

	r, cmd := r.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	insert, ok := msg.(ReferenceInsertMsg)
	require.True(t, ok)
	assert.Equal(t, "regress", insert.Command)
	assert.False(t, r.IsActive())
}

func TestReferenceEscDismisses(t *testing.T) {
	r := NewReference()
	r.Open(100, 40)

	r, cmd := r.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(ReferenceDismissMsg)
	assert.True(t, ok)
	assert.False(t, r.IsActive())
}
