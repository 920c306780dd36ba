// Package htmlsanitize strips dangerous markup from user-supplied text
// before it is stored. Task and group descriptions accept limited HTML;
// everything else is reduced to plain text.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps a safe subset of HTML (formatting, links) and removes
// scripts, event handlers, and javascript: URLs.
func Sanitize(s string) string {
	return strings.TrimSpace(ugc.Sanitize(s))
}

// Plain strips all markup, leaving text content only. Used for fields
// that must never contain HTML (names, titles, tags).
func Plain(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
