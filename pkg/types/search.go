package types

import (
	"strings"

	"golang.org/x/text/cases"
)

// TextMatcher is a case-insensitive substring match. Folding happens in Go
// so SQLite and Postgres rows compare the same way, including non-ASCII text.
type TextMatcher struct {
	needle string
}

// NewTextMatcher trims query and folds it. An empty query matches everything.
func NewTextMatcher(query string) TextMatcher {
	return TextMatcher{needle: foldCase(strings.TrimSpace(query))}
}

// Empty reports whether the matcher filters nothing.
func (m TextMatcher) Empty() bool {
	return m.needle == ""
}

// Match reports whether text contains the query.
func (m TextMatcher) Match(text string) bool {
	if m.needle == "" {
		return true
	}
	return strings.Contains(foldCase(text), m.needle)
}

// cases.Caser keeps state, so each call gets its own.
func foldCase(s string) string {
	return cases.Fold().String(s)
}
