// Package render owns the response buffer of an in-progress exchange and
// its one-time conversion to rich text.
package render

// Sink receives the streamed output of one exchange. AppendDelta is called
// once per delta frame with raw text; Finalize runs exactly once, at the
// done frame, converting everything accumulated so far; RenderError
// replaces the displayed content with a visually distinct error message
// and suppresses Finalize. Any rendering target (terminal, web, native)
// can implement it.
type Sink interface {
	AppendDelta(text string)
	Finalize()
	RenderError(message string)
}
