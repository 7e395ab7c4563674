// Package sanitize cleans user-supplied free text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	rich   = bluemonday.UGCPolicy()
)

// Text strips every tag and returns plain trimmed text. Entities produced by
// the policy are unescaped again so "R&D" is stored as typed.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// HTML keeps basic formatting (paragraphs, lists, links) and drops scripts,
// handlers and unsafe URLs. Used for descriptions rendered by the admin UI.
func HTML(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(rich.Sanitize(s))
}
