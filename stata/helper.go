// Package stata provides Stata-specific prompt construction and light
// code analysis for the assistant.
package stata

import (
	"regexp"
	"strings"
)

// contextBlurb is prepended to every free-form prompt so the model answers
// as a Stata assistant.
const contextBlurb = `You are a Stata programming assistant. Stata is a statistical software package
used for data analysis, data management, and graphics. When helping with Stata code:

1. Use proper Stata syntax and conventions
2. Consider data management best practices
3. Be aware of common Stata commands and their options
4. Provide clear, efficient, and well-commented code
5. Consider memory efficiency and performance
6. Follow Stata's naming conventions (lowercase for variables and commands)
7. Use appropriate data types and formats
8. Consider using -preserve- and -restore- when making temporary changes`

// codePatterns are heuristics for detecting Stata code in free text.
var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bregress\b`),
	regexp.MustCompile(`\bsummarize\b`),
	regexp.MustCompile(`\bgenerate\b`),
	regexp.MustCompile(`\btabulate\b`),
	regexp.MustCompile(`\bforeach\b`),
	regexp.MustCompile(`\bforvalues\b`),
	regexp.MustCompile(`\bif\b.*\bthen\b`),
	regexp.MustCompile(`\bdi\b|\bdisplay\b`),
	regexp.MustCompile(`[a-z_]+\s*=\s*`),   // variable assignment
	regexp.MustCompile(`\*\s*[A-Za-z]`),    // comments
}

// EnhancePrompt wraps a user prompt with the Stata context, flagging
// embedded code when the heuristics find any.
func EnhancePrompt(prompt string) string {
	var b strings.Builder
	b.WriteString(contextBlurb)
	b.WriteString("\n\n")
	if ContainsCode(prompt) {
		b.WriteString("Here is the Stata code to analyze:\n\n")
	}
	b.WriteString(prompt)
	return b.String()
}

// ContainsCode reports whether text looks like it contains Stata code.
func ContainsCode(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range codePatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(?:stata|do)?\n(.*?)```")
	inlineCodeRe  = regexp.MustCompile("`([^`]+)`")
)

// ExtractCodeBlocks pulls fenced and inline code spans out of text,
// trimmed, empty spans dropped.
func ExtractCodeBlocks(text string) []string {
	var blocks []string
	for _, m := range fencedBlockRe.FindAllStringSubmatch(text, -1) {
		if s := strings.TrimSpace(m[1]); s != "" {
			blocks = append(blocks, s)
		}
	}
	for _, m := range inlineCodeRe.FindAllStringSubmatch(text, -1) {
		if s := strings.TrimSpace(m[1]); s != "" {
			blocks = append(blocks, s)
		}
	}
	return blocks
}
