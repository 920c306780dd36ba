// Package normalize provides canonical forms for user-supplied identity
// fields so lookups and unique indexes behave consistently.
package normalize

import "strings"

// Email lowercases and trims an email address. Email comparison and the
// unique index on users.email both operate on this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Tags trims each tag and drops empties, preserving order.
func Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
