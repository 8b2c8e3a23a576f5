package client

import (
	"encoding/json"
	"fmt"
)

// Frame is one decoded record from the response stream.
type Frame struct {
	Content string `json:"content"`
	Error   string `json:"error"`
	Done    bool   `json:"done"`
}

// EventKind classifies a frame into its semantic event.
type EventKind int

const (
	// EventIgnored carries no recognized field and is skipped.
	EventIgnored EventKind = iota
	// EventDelta appends a text fragment to the in-progress response.
	EventDelta
	// EventError terminates the exchange with a backend-reported error.
	EventError
	// EventDone marks the response complete and ready for final rendering.
	EventDone
)

// Event is one classified frame. Text carries the delta fragment or error
// message depending on Kind.
type Event struct {
	Kind EventKind
	Text string
}

// MalformedFrameError reports a record payload that could not be parsed.
// It indicates a transport or backend defect, so it is surfaced to the
// caller instead of being dropped.
type MalformedFrameError struct {
	Payload string
	Err     error
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("malformed frame %q: %v", e.Payload, e.Err)
}

func (e *MalformedFrameError) Unwrap() error { return e.Err }

// Interpret parses one raw record payload and classifies it. An error
// field wins over everything else; a delta beats done; a frame with no
// recognized field is EventIgnored.
func Interpret(payload string) (Event, error) {
	var f Frame
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return Event{}, &MalformedFrameError{Payload: payload, Err: err}
	}
	switch {
	case f.Error != "":
		return Event{Kind: EventError, Text: f.Error}, nil
	case f.Content != "":
		return Event{Kind: EventDelta, Text: f.Content}, nil
	case f.Done:
		return Event{Kind: EventDone}, nil
	}
	return Event{Kind: EventIgnored}, nil
}
