// Package normalize holds the pure field normalizers applied to events and
// bookings before they are persisted.
package normalize

import (
	"regexp"
	"strings"
)

// space matches what browsers treat as whitespace, not only ASCII.
const space = `\s\v\p{Z}\x{FEFF}`

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9_` + space + `-]`)
	slugSeparators = regexp.MustCompile(`[_` + space + `-]+`)
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slug converts a title into a lowercase, URL-safe slug.
//
//	Slug("React Summit 2026!!") // "react-summit-2026"
//	Slug("  Go -- Meetup ")     // "go-meetup"
//	Slug("!!!")                 // ""
//
// Punctuation is dropped without leaving a gap, while runs of whitespace,
// hyphens and underscores become a single hyphen.
func Slug(title string) string {
	s := strings.ToLower(title)
	s = strings.TrimSpace(s)
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsSlug reports whether s is a non-empty canonical slug.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}
