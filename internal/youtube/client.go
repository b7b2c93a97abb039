// Package youtube implements captions.Source on top of the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/scriptlens/scriptlens/internal/apperr"
	"github.com/scriptlens/scriptlens/internal/captions"
)

// TrackKindASR is the track kind the API reports for speech-recognition tracks.
const TrackKindASR = "asr"

// maxCaptionBytes caps a downloaded caption document.
const maxCaptionBytes = 16 << 20

// Client talks to the YouTube Data API. It holds no credentials; the caller's
// API key travels in the request context and is added by keyTransport, so all
// calls share one connection pool.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient returns a Client. An empty endpoint uses the library default.
func NewClient(endpoint string, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Transport: &keyTransport{base: http.DefaultTransport}},
		logger:     logger,
	}
}

var _ captions.Source = (*Client)(nil)

type apiKeyContextKey struct{}

// keyTransport sets the "key" query parameter from the request context.
type keyTransport struct {
	base http.RoundTripper
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	key, _ := req.Context().Value(apiKeyContextKey{}).(string)
	if key == "" {
		return t.base.RoundTrip(req)
	}
	out := req.Clone(req.Context())
	q := out.URL.Query()
	q.Set("key", key)
	out.URL.RawQuery = q.Encode()
	return t.base.RoundTrip(out)
}

// service returns a Service on the shared HTTP client and a context carrying
// apiKey for its calls.
func (c *Client) service(ctx context.Context, apiKey string) (*yt.Service, context.Context, error) {
	opts := []option.ClientOption{option.WithHTTPClient(c.httpClient)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, ctx, fmt.Errorf("create youtube service: %w", err)
	}
	return svc, context.WithValue(ctx, apiKeyContextKey{}, apiKey), nil
}

// ListTracks returns the caption tracks the API lists for videoID.
func (c *Client) ListTracks(ctx context.Context, apiKey, videoID string) ([]captions.Track, error) {
	svc, ctx, err := c.service(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		return nil, classifyError(err)
	}

	tracks := make([]captions.Track, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil {
			continue
		}
		tracks = append(tracks, trackFromCaption(item))
	}

	c.logger.Debug("caption tracks listed", "video_id", videoID, "count", len(tracks))
	return tracks, nil
}

// Download fetches the content of trackID in the given format.
func (c *Client) Download(ctx context.Context, apiKey, trackID, format string) (string, error) {
	svc, ctx, err := c.service(ctx, apiKey)
	if err != nil {
		return "", err
	}

	call := svc.Captions.Download(trackID).Context(ctx)
	if format != "" {
		call = call.Tfmt(format)
	}

	resp, err := call.Download()
	if err != nil {
		return "", classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.New(apperr.KindUpstreamGeneric,
			fmt.Sprintf("YouTube API error: unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCaptionBytes))
	if err != nil {
		return "", classifyError(fmt.Errorf("read caption body: %w", err))
	}

	c.logger.Debug("caption downloaded", "track_id", trackID, "format", format, "bytes", len(body))
	return string(body), nil
}

func trackFromCaption(item *yt.Caption) captions.Track {
	t := captions.Track{ID: item.Id}
	if item.Snippet != nil {
		t.Language = item.Snippet.Language
		t.Kind = item.Snippet.TrackKind
		t.Name = item.Snippet.Name
	}
	t.AutoGenerated = strings.EqualFold(t.Kind, TrackKindASR) ||
		strings.HasPrefix(t.ID, captions.AutoGeneratedPrefix)
	return t
}

// classifyError files API failures by status: 403 is a key or quota problem,
// 404 a missing video or track, anything else a generic service error.
// Timeouts and transport or decoding failures are local.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.New(apperr.KindLocalUnexpected,
			"unexpected error (YouTube API): request timed out", err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := apiMessage(gerr)
		switch gerr.Code {
		case http.StatusForbidden:
			return apperr.New(apperr.KindUpstreamAuthOrQuota,
				fmt.Sprintf("YouTube API error (403): the API key may be invalid or the quota may be exhausted. (%s)", msg), err)
		case http.StatusNotFound:
			return apperr.New(apperr.KindUpstreamNotFound,
				fmt.Sprintf("YouTube API error (404): the video or its captions were not found. (%s)", msg), err)
		default:
			return apperr.New(apperr.KindUpstreamGeneric,
				fmt.Sprintf("YouTube API error: %s", msg), err)
		}
	}

	return apperr.New(apperr.KindLocalUnexpected,
		fmt.Sprintf("unexpected error (YouTube API): %v", err), err)
}

func apiMessage(gerr *googleapi.Error) string {
	if len(gerr.Errors) > 0 && gerr.Errors[0].Message != "" {
		return gerr.Errors[0].Message
	}
	if gerr.Message != "" {
		return gerr.Message
	}
	return gerr.Error()
}
