// Package videoid extracts video identifiers from the URL shapes users paste:
// watch pages, short links, and embed/player paths.
package videoid

import "regexp"

// Matcher extracts an identifier from a URL, reporting whether it matched.
type Matcher func(url string) (string, bool)

var (
	watchPattern = regexp.MustCompile(`watch\?v=([a-zA-Z0-9_-]+)`)
	shortPattern = regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`)
	embedPattern = regexp.MustCompile(`/(?:embed|v)/([a-zA-Z0-9_-]+)`)
)

// PatternMatcher returns a Matcher that searches url for re and yields the
// first capture group.
func PatternMatcher(re *regexp.Regexp) Matcher {
	return func(url string) (string, bool) {
		m := re.FindStringSubmatch(url)
		if len(m) < 2 || m[1] == "" {
			return "", false
		}
		return m[1], true
	}
}

// DefaultMatchers returns the built-in matchers in priority order.
func DefaultMatchers() []Matcher {
	return []Matcher{
		PatternMatcher(watchPattern),
		PatternMatcher(shortPattern),
		PatternMatcher(embedPattern),
	}
}

// Extractor tries its matchers in order; the first match wins.
type Extractor struct {
	matchers []Matcher
}

// NewExtractor returns an Extractor over matchers, or DefaultMatchers when none are given.
func NewExtractor(matchers ...Matcher) *Extractor {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Extractor{matchers: matchers}
}

// Extract returns the id from the first matcher that accepts url.
func (e *Extractor) Extract(url string) (string, bool) {
	for _, m := range e.matchers {
		if id, ok := m(url); ok {
			return id, true
		}
	}
	return "", false
}

var defaultExtractor = NewExtractor()

// Extract runs the default matchers against url.
func Extract(url string) (string, bool) {
	return defaultExtractor.Extract(url)
}
