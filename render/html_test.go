package render

import (
	"strings"
	"testing"
)

func TestFinalize_Pipeline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"escapes markup", `a < b & "c"`, "a &lt; b &amp; &quot;c&quot;"},
		{"bold", "use **preserve** here", "use <strong>preserve</strong> here"},
		{"inline code", "run `summarize` first", "run <code>summarize</code> first"},
		{
			"fenced block",
			"```\nregress y x\n```",
			"<pre><code><br>regress y x<br></code></pre>",
		},
		{
			"line breaks",
			"one\ntwo",
			"one<br>two",
		},
		{
			"escape happens before markup inside fences",
			"```\nif x < 1 {\n}\n```",
			"<pre><code><br>if x &lt; 1 {<br>}<br></code></pre>",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Finalize(tc.in); got != tc.want {
				t.Errorf("Finalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFinalize_FencedBeforeInline(t *testing.T) {
	// A fenced block's backticks must not be consumed as inline spans.
	got := Finalize("```\ngen x = 1\n```\nand `di x`")
	if !strings.Contains(got, "<pre><code>") {
		t.Fatalf("fenced block not converted: %q", got)
	}
	if !strings.Contains(got, "<code>di x</code>") {
		t.Fatalf("inline span not converted: %q", got)
	}
	if strings.Contains(got, "```") {
		t.Fatalf("stray fence marker in output: %q", got)
	}
}

func TestFinalize_DeterministicOnSameInput(t *testing.T) {
	in := "**bold** `code`\n```\nblock < block\n```"
	first := Finalize(in)
	for i := 0; i < 5; i++ {
		if got := Finalize(in); got != first {
			t.Fatalf("output varies across calls: %q vs %q", got, first)
		}
	}
}

func TestHTMLSink_AccumulatesAndFinalizesOnce(t *testing.T) {
	s := NewHTMLSink()
	s.AppendDelta("Hello")
	s.AppendDelta(" **world**")

	if s.Text() != "Hello **world**" {
		t.Fatalf("Text = %q", s.Text())
	}
	if s.HTML() != "" {
		t.Fatalf("HTML before finalize = %q", s.HTML())
	}

	s.Finalize()
	want := "Hello <strong>world</strong>"
	if s.HTML() != want {
		t.Fatalf("HTML = %q, want %q", s.HTML(), want)
	}

	// Late deltas and a second finalize change nothing.
	s.AppendDelta("more")
	s.Finalize()
	if s.HTML() != want {
		t.Fatalf("HTML after late delta = %q", s.HTML())
	}
}

func TestHTMLSink_RenderError(t *testing.T) {
	s := NewHTMLSink()
	s.AppendDelta("partial")
	s.RenderError("model unavailable")

	want := `<div class="error">Error: model unavailable</div>`
	if s.HTML() != want {
		t.Fatalf("HTML = %q, want %q", s.HTML(), want)
	}
}

func TestErrorHTML_EscapesMessage(t *testing.T) {
	got := ErrorHTML(`<script>alert("x")</script>`)
	if strings.Contains(got, "<script>") {
		t.Fatalf("unescaped markup in error: %q", got)
	}
}

func TestTranscript(t *testing.T) {
	doc := Transcript([]TranscriptEntry{
		{Role: "user", Content: "explain `regress`"},
		{Role: "assistant", Content: "**regress** fits a linear model"},
		{Role: "system", Content: "model unavailable", IsError: true},
	})
	for _, want := range []string{
		`<p class="user">explain <code>regress</code></p>`,
		"<strong>regress</strong>",
		`<div class="error">Error: model unavailable</div>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("transcript missing %q", want)
		}
	}
}
