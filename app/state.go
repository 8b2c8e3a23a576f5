package app

// State represents the current application state.
type State int

const (
	StateConnecting State = iota // Waiting for the initial health check
	StateIdle                    // Ready for user input
	StateSubmitting              // Request sent, stream not yet open
	StateStreaming               // Receiving response fragments
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// Generating reports whether an exchange is in flight. At most one
// exchange may be in flight at a time; new submissions are ignored
// while this is true.
func (s State) Generating() bool {
	return s == StateSubmitting || s == StateStreaming
}
