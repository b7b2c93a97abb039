package captions

import "strings"

// Selector is one step of the track fallback policy.
type Selector struct {
	Name  string
	Match func(Track) bool
}

// ManualTrack matches a human-authored track whose language equals lang.
func ManualTrack(lang string) Selector {
	return Selector{
		Name: "manual",
		Match: func(t Track) bool {
			return t.Language == lang && !t.AutoGenerated
		},
	}
}

// AutoGeneratedTrack matches an auto-generated track for lang, identified
// either by the "a.<lang>" id prefix or by the service's ASR track kind.
func AutoGeneratedTrack(lang string) Selector {
	prefix := AutoGeneratedPrefix + lang
	return Selector{
		Name: "auto",
		Match: func(t Track) bool {
			if strings.HasPrefix(t.ID, prefix) {
				return true
			}
			return t.AutoGenerated && t.Language == lang
		},
	}
}

// DefaultSelectors is the manual-then-auto policy for lang.
func DefaultSelectors(lang string) []Selector {
	return []Selector{ManualTrack(lang), AutoGeneratedTrack(lang)}
}

// Select returns the first track matched by the earliest selector. Each
// selector sees the whole list, so list order never outranks policy order.
func Select(tracks []Track, selectors []Selector) (Track, string, bool) {
	for _, sel := range selectors {
		for _, t := range tracks {
			if sel.Match(t) {
				return t, sel.Name, true
			}
		}
	}
	return Track{}, "", false
}
