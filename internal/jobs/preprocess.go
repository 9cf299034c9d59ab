package jobs

import (
	"regexp"
	"strings"
)

var (
	reHeader   = regexp.MustCompile(`(?m)^#+\s+`)
	reLink     = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reEmphasis = regexp.MustCompile("(\\*\\*|__|`|\\*|_)")
	reControl  = regexp.MustCompile(`[\x00-\x1F\x7F-\x9F]`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

// CleanText strips markdown structure (headers, link syntax, emphasis
// markers) and control characters, then collapses runs of whitespace.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = reHeader.ReplaceAllString(text, "")
	text = reLink.ReplaceAllString(text, "$1")
	text = reEmphasis.ReplaceAllString(text, "")
	text = reControl.ReplaceAllString(text, "")
	text = reSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Chunks splits a document into cleaned line units, dropping the ones
// that clean down to nothing. The embedder requires at least one unit, so
// a document that loses every line yields a single whitespace placeholder.
func Chunks(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if cleaned := CleanText(line); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	if len(out) == 0 {
		out = []string{" "}
	}
	return out
}
