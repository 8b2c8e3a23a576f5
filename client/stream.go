package client

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// -- Raw stream event types (client-internal; app consumes them) --------------

// StreamStarted is dispatched once the response headers arrive and the
// stream is open. It carries the stream handle so the app can abort it.
type StreamStarted struct {
	Exchange int
	Stream   *Stream
}

// StreamDelta carries one incremental text fragment.
type StreamDelta struct {
	Exchange int
	Text     string
}

// StreamErrored is dispatched when the backend reports an error frame.
// Terminal for the exchange.
type StreamErrored struct {
	Exchange int
	Message  string
}

// StreamDone is dispatched on the terminal done frame.
type StreamDone struct {
	Exchange int
}

// StreamClosed is dispatched when the stream ends without a done or error
// frame, or tears down with a transport or framing defect. Terminal.
type StreamClosed struct {
	Exchange   int
	Incomplete bool // ended cleanly but no terminal frame was seen
	Err        error
}

// Pump returns a tea.Cmd that consumes the stream and sends one message per
// semantic event, in decode order. It always closes the stream, and always
// ends the exchange with exactly one terminal message: StreamDone,
// StreamErrored, or StreamClosed.
func (s *Stream) Pump(p *tea.Program, exchange int) tea.Cmd {
	return func() tea.Msg {
		defer s.Close()
		for {
			ev, err := s.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return StreamClosed{Exchange: exchange, Incomplete: true}
				}
				return StreamClosed{Exchange: exchange, Err: err}
			}
			switch ev.Kind {
			case EventDelta:
				p.Send(StreamDelta{Exchange: exchange, Text: ev.Text})
			case EventError:
				return StreamErrored{Exchange: exchange, Message: ev.Text}
			case EventDone:
				return StreamDone{Exchange: exchange}
			}
		}
	}
}
