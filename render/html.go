package render

import (
	"regexp"
	"strings"
)

var (
	escaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)

	fencedRe = regexp.MustCompile("(?s)```(.*?)```")
	inlineRe = regexp.MustCompile("`([^`]+)`")
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// Finalize converts accumulated plain text to sanitized HTML in one
// deterministic pass. Escaping runs first so no input is ever interpreted
// as markup, and fenced blocks are converted before inline code so a
// block's backticks are not mis-parsed as inline spans.
func Finalize(text string) string {
	out := escaper.Replace(text)
	out = fencedRe.ReplaceAllString(out, "<pre><code>$1</code></pre>")
	out = inlineRe.ReplaceAllString(out, "<code>$1</code>")
	out = boldRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = strings.ReplaceAll(out, "\n", "<br>")
	return out
}

// ErrorHTML formats a terminal error as a visually distinct block. The
// message passes through the escaper only; no markup substitution applies.
func ErrorHTML(message string) string {
	return `<div class="error">Error: ` + escaper.Replace(message) + `</div>`
}

// HTMLSink accumulates streamed deltas and renders them as HTML. During
// streaming the buffer is exposed as unconverted plain text; Finalize
// produces the rich-text form exactly once.
type HTMLSink struct {
	buf   strings.Builder
	html  string
	final bool
}

// NewHTMLSink returns an empty sink.
func NewHTMLSink() *HTMLSink {
	return &HTMLSink{}
}

// AppendDelta concatenates text onto the response buffer. No escaping is
// applied here: the buffer is plain text until Finalize.
func (s *HTMLSink) AppendDelta(text string) {
	if s.final {
		return
	}
	s.buf.WriteString(text)
}

// Finalize converts the accumulated buffer. Calling it again has no
// further effect on the output.
func (s *HTMLSink) Finalize() {
	if s.final {
		return
	}
	s.html = Finalize(s.buf.String())
	s.final = true
}

// RenderError replaces the output with an error block and ends the sink.
func (s *HTMLSink) RenderError(message string) {
	s.html = ErrorHTML(message)
	s.final = true
}

// Text returns the raw accumulated plain text.
func (s *HTMLSink) Text() string { return s.buf.String() }

// HTML returns the converted output. Empty until Finalize or RenderError.
func (s *HTMLSink) HTML() string { return s.html }

var _ Sink = (*HTMLSink)(nil)
