// internal/app/system/sanitize/sanitize.go
//
// Package sanitize strips markup from free-text input before it reaches
// the stores. Names, titles, and passwords arrive from an untrusted SPA,
// so every string field goes through Text on the way in.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes all HTML elements and attributes.
var strict = bluemonday.StrictPolicy()

// Text returns s with all markup removed, HTML entities decoded back to
// plain characters (so "O&#39;Neil" round-trips to "O'Neil"), and
// surrounding whitespace trimmed.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
