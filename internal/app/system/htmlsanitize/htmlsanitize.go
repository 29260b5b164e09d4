// Package htmlsanitize strips markup from user-supplied free text.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element and attribute, keeping text content.
// bluemonday policies are safe for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// StripTags returns s as plain text: all tags removed, entities decoded,
// surrounding whitespace trimmed. Profile fields are stored as plain text and
// escaped by whoever renders them.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
