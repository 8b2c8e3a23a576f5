package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statalabs/stallama/client"
)

func newTestModel() Model {
	m := New(client.New("http://127.0.0.1:1"), "test")
	m.state = StateIdle
	return m
}

func press(m Model, k tea.KeyMsg) Model {
	updated, _ := m.Update(k)
	return updated.(Model)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSubmissionWhileGeneratingHasNoEffect(t *testing.T) {
	m := newTestModel()
	m.state = StateStreaming
	m.exchange = 3
	m.chat.BeginResponse()
	m.chat.AppendDelta("partial")

	before := m.chat.MessageCount()

	m = press(m, keyRunes("another question"))
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, StateStreaming, m.state)
	assert.Equal(t, 3, m.exchange)
	assert.Equal(t, before, m.chat.MessageCount())
	assert.Equal(t, "partial", m.chat.PendingText())
	assert.Empty(t, m.input.Value())
}

func TestSubmitTakesAndDoneReleasesLock(t *testing.T) {
	m := newTestModel()

	m = press(m, keyRunes("hello"))
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, StateSubmitting, m.state)
	require.True(t, m.state.Generating())
	exchange := m.exchange

	m.state = StateStreaming
	updated, _ := m.Update(client.StreamDelta{Exchange: exchange, Text: "Hello"})
	m = updated.(Model)
	updated, _ = m.Update(client.StreamDelta{Exchange: exchange, Text: " world"})
	m = updated.(Model)
	assert.Equal(t, "Hello world", m.chat.PendingText())

	updated, _ = m.Update(client.StreamDone{Exchange: exchange})
	m = updated.(Model)

	assert.Equal(t, StateIdle, m.state)
	entries := m.chat.Entries()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, "assistant", last.Role)
	assert.Equal(t, "Hello world", last.Content)
	assert.False(t, last.IsError)
}

func TestErrorFrameRendersErrorAndReturnsToIdle(t *testing.T) {
	m := newTestModel()
	m.state = StateStreaming
	m.exchange = 1
	m.chat.BeginResponse()

	updated, _ := m.Update(client.StreamErrored{Exchange: 1, Message: "model unavailable"})
	m = updated.(Model)

	assert.Equal(t, StateIdle, m.state)
	entries := m.chat.Entries()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.True(t, last.IsError)
	assert.Equal(t, "model unavailable", last.Content)
}

func TestStreamEndWithoutTerminalFrameReleasesLock(t *testing.T) {
	m := newTestModel()
	m.state = StateStreaming
	m.exchange = 1
	m.chat.BeginResponse()
	m.chat.AppendDelta("partial answer")

	updated, _ := m.Update(client.StreamClosed{Exchange: 1, Incomplete: true})
	m = updated.(Model)

	assert.Equal(t, StateIdle, m.state)
	assert.False(t, m.chat.Streaming())
	entries := m.chat.Entries()
	require.NotEmpty(t, entries)
	assert.True(t, entries[len(entries)-1].IsError)
}

func TestStaleExchangeMessagesAreDropped(t *testing.T) {
	m := newTestModel()
	m.state = StateStreaming
	m.exchange = 5
	m.chat.BeginResponse()

	updated, _ := m.Update(client.StreamDelta{Exchange: 4, Text: "stale"})
	m = updated.(Model)
	assert.Empty(t, m.chat.PendingText())

	updated, _ = m.Update(client.StreamErrored{Exchange: 4, Message: "old failure"})
	m = updated.(Model)
	assert.Equal(t, StateStreaming, m.state)

	updated, _ = m.Update(client.StreamDone{Exchange: 4})
	m = updated.(Model)
	assert.Equal(t, StateStreaming, m.state)
}

func TestCancelCommitsPartialAndReleasesLock(t *testing.T) {
	m := newTestModel()
	m.state = StateStreaming
	m.exchange = 2
	m.chat.BeginResponse()
	m.chat.AppendDelta("half a thought")

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, StateIdle, m.state)
	entries := m.chat.Entries()
	require.NotEmpty(t, entries)
	var sawPartial bool
	for _, e := range entries {
		if e.Role == "assistant" && e.Content == "half a thought" {
			sawPartial = true
		}
	}
	assert.True(t, sawPartial)

	// The pump's terminal message arrives afterwards and must be absorbed.
	updated, _ := m.Update(client.StreamClosed{Exchange: 2, Err: assert.AnError})
	m = updated.(Model)
	assert.Equal(t, StateIdle, m.state)
}

func TestParseSlash(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		code     string
		ok       bool
	}{
		{"/explain regress y x1 x2", "explain", "regress y x1 x2", true},
		{"/fix summarize income", "fix", "summarize income", true},
		{"/optimize foreach v of varlist inc* {", "optimize", "foreach v of varlist inc* {", true},
		{"/explain", "explain", "", true},
		{"/frobnicate stuff", "", "", false},
		{"plain question", "", "", false},
	}
	for _, tt := range tests {
		name, code, ok := parseSlash(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.name, name, tt.in)
			assert.Equal(t, tt.code, code, tt.in)
		}
	}
}

func TestEmptyCommandBodyDoesNotOpenExchange(t *testing.T) {
	m := newTestModel()

	m = press(m, keyRunes("/explain"))
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, StateIdle, m.state)
	assert.Equal(t, 0, m.exchange)
}
