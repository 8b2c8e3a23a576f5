package stata

import (
	"fmt"
	"strings"
)

// FormatCode re-indents Stata code by brace depth. foreach/forvalues open
// a level even without a trailing brace on the same line.
func FormatCode(code string) string {
	var out []string
	indent := 0
	for _, line := range strings.Split(code, "\n") {
		stripped := strings.TrimSpace(line)

		if strings.HasPrefix(stripped, "}") && indent > 0 {
			indent--
		}
		if stripped == "" {
			out = append(out, "")
		} else {
			out = append(out, strings.Repeat("    ", indent)+stripped)
		}
		if strings.HasSuffix(stripped, "{") ||
			strings.HasPrefix(stripped, "foreach") ||
			strings.HasPrefix(stripped, "forvalues") {
			indent++
		}
	}
	return strings.Join(out, "\n")
}

// ValidateSyntax runs basic structural checks: balanced braces and closed
// quotes per line. nil means the code passed.
func ValidateSyntax(code string) error {
	open := strings.Count(code, "{")
	closed := strings.Count(code, "}")
	if open != closed {
		return fmt.Errorf("unbalanced braces: %d opening, %d closing", open, closed)
	}
	for i, line := range strings.Split(code, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.Count(stripped, `"`)%2 != 0 {
			return fmt.Errorf("unclosed quote on line %d", i+1)
		}
		// Apostrophes are not paired: `name' macros close with one.
	}
	return nil
}
