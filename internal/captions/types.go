// Package captions picks a caption track for a video and downloads it.
//
// Track selection is an ordered list of Selectors evaluated against the full
// track list; the first selector with a match decides. The default policy
// prefers a manual track in the requested language and falls back to the
// auto-generated (speech recognition) track.
package captions

import "context"

// FormatSRT requests SubRip output from the caption service.
const FormatSRT = "srt"

// AutoGeneratedPrefix marks auto-generated track ids ("a.ja").
const AutoGeneratedPrefix = "a."

// Track describes one caption track offered for a video.
type Track struct {
	ID            string
	Language      string
	Kind          string
	Name          string
	AutoGenerated bool
}

// Source is the caption service. Credentials are passed on every call so a
// single Source can serve concurrent requests for different callers.
type Source interface {
	ListTracks(ctx context.Context, apiKey, videoID string) ([]Track, error)
	Download(ctx context.Context, apiKey, trackID, format string) (string, error)
}

// Resolved is the outcome of a successful resolution.
type Resolved struct {
	Track    Track
	Selector string
	Payload  string
}
