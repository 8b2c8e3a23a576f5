package render

import "strings"

// TranscriptEntry is one message of a finished conversation.
type TranscriptEntry struct {
	Role    string // "user", "assistant", "system"
	Content string
	IsError bool
}

const transcriptHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>stallama transcript</title>
<style>
body { font-family: sans-serif; max-width: 54em; margin: 2em auto; }
.user { color: #0e7490; }
.assistant { color: #6d28d9; }
.system { color: #6b7280; font-size: 0.9em; }
.error { color: #b91c1c; font-weight: bold; }
pre { background: #f3f4f6; padding: 0.75em; overflow-x: auto; }
code { background: #f3f4f6; }
</style>
</head>
<body>
`

// Transcript renders a full conversation as a standalone HTML document.
// Each entry runs through the same finalize pipeline as live responses.
func Transcript(entries []TranscriptEntry) string {
	var b strings.Builder
	b.WriteString(transcriptHead)
	for _, e := range entries {
		if e.IsError {
			b.WriteString(ErrorHTML(e.Content))
			b.WriteString("\n")
			continue
		}
		b.WriteString(`<p class="` + e.Role + `">`)
		b.WriteString(Finalize(e.Content))
		b.WriteString("</p>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
