package captions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/scriptlens/scriptlens/internal/apperr"
)

// SelectorPolicy builds the ordered selectors for a language.
type SelectorPolicy func(lang string) []Selector

// Resolver finds and downloads one caption track per request.
type Resolver struct {
	source  Source
	policy  SelectorPolicy
	timeout time.Duration
	logger  *slog.Logger
}

// NewResolver returns a Resolver using the default manual-then-auto policy.
// timeout bounds each of the two service calls separately; zero disables it.
func NewResolver(source Source, timeout time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		source:  source,
		policy:  DefaultSelectors,
		timeout: timeout,
		logger:  logger,
	}
}

// WithPolicy replaces the selector policy.
func (r *Resolver) WithPolicy(policy SelectorPolicy) *Resolver {
	r.policy = policy
	return r
}

// Resolve lists the tracks for videoID, selects one for lang, and downloads
// it as SRT. It makes one list call and at most one download call.
func (r *Resolver) Resolve(ctx context.Context, apiKey, videoID, lang string) (*Resolved, error) {
	tracks, err := r.listTracks(ctx, apiKey, videoID)
	if err != nil {
		return nil, classify(err)
	}

	track, selector, ok := Select(tracks, r.policy(lang))
	if !ok {
		return nil, apperr.New(apperr.KindCaptionUnavailable,
			fmt.Sprintf("no manual or auto-generated captions found for language %q", lang), nil)
	}

	if r.logger != nil {
		r.logger.Info("caption track selected",
			"video_id", videoID,
			"track_id", track.ID,
			"language", track.Language,
			"selector", selector,
			"tracks_available", len(tracks),
		)
	}

	payload, err := r.download(ctx, apiKey, track.ID)
	if err != nil {
		return nil, classify(err)
	}

	return &Resolved{Track: track, Selector: selector, Payload: payload}, nil
}

func (r *Resolver) listTracks(ctx context.Context, apiKey, videoID string) ([]Track, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.source.ListTracks(ctx, apiKey, videoID)
}

func (r *Resolver) download(ctx context.Context, apiKey, trackID string) (string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.source.Download(ctx, apiKey, trackID, FormatSRT)
}

func (r *Resolver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// classify passes taxonomy errors through and files anything else from the
// source as an unexpected local failure.
func classify(err error) error {
	var classified *apperr.Error
	if errors.As(err, &classified) {
		return err
	}
	return apperr.New(apperr.KindLocalUnexpected,
		fmt.Sprintf("unexpected error (YouTube API): %v", err), err)
}
