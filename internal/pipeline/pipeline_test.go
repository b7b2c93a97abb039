package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptlens/scriptlens/internal/apperr"
	"github.com/scriptlens/scriptlens/internal/captions"
)

const sampleSRT = "1\n00:00:01,000 --> 00:00:02,000\nHello\nHello\nWorld\n2\n00:00:02,000 --> 00:00:03,000\nHello\n"

type fakeResolver struct {
	resolved *captions.Resolved
	err      error

	calls   int
	apiKey  string
	videoID string
	lang    string
}

func (f *fakeResolver) Resolve(ctx context.Context, apiKey, videoID, lang string) (*captions.Resolved, error) {
	f.calls++
	f.apiKey, f.videoID, f.lang = apiKey, videoID, lang
	return f.resolved, f.err
}

type fakeAnalyzer struct {
	html string
	err  error

	calls      int
	apiKey     string
	transcript string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, apiKey, transcript string) (string, error) {
	f.calls++
	f.apiKey, f.transcript = apiKey, transcript
	return f.html, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func manualResolved(payload string) *captions.Resolved {
	return &captions.Resolved{
		Track:    captions.Track{ID: "track-ja", Language: "ja"},
		Selector: "manual",
		Payload:  payload,
	}
}

func TestProcess_Success(t *testing.T) {
	res := &fakeResolver{resolved: manualResolved(sampleSRT)}
	an := &fakeAnalyzer{html: "<h1>...</h1>"}
	p := New(res, an, Config{DefaultLanguage: "ja", Logger: testLogger()})

	got, err := p.Process(context.Background(), Request{
		VideoURL:      "https://youtu.be/abc123",
		YouTubeAPIKey: "K1",
		GeminiAPIKey:  "K2",
	})
	require.NoError(t, err)

	assert.Equal(t, "abc123", got.VideoID)
	assert.Equal(t, "Hello\nWorld\nHello", got.Transcript)
	assert.Equal(t, "<h1>...</h1>", got.AnalysisHTML)
	assert.Equal(t, "manual", got.Selector)
	assert.Empty(t, got.AnalysisMarkdown)

	assert.Equal(t, "K1", res.apiKey)
	assert.Equal(t, "abc123", res.videoID)
	assert.Equal(t, "ja", res.lang)
	assert.Equal(t, "K2", an.apiKey)
	assert.Equal(t, got.Transcript, an.transcript)
}

func TestProcess_LanguageOverride(t *testing.T) {
	res := &fakeResolver{resolved: manualResolved(sampleSRT)}
	p := New(res, &fakeAnalyzer{html: "<p>x</p>"}, Config{DefaultLanguage: "ja", Logger: testLogger()})

	_, err := p.Process(context.Background(), Request{VideoURL: "https://youtu.be/abc123", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "en", res.lang)
}

func TestProcess_InvalidReferenceShortCircuits(t *testing.T) {
	res := &fakeResolver{}
	an := &fakeAnalyzer{}
	p := New(res, an, Config{Logger: testLogger()})

	_, err := p.Process(context.Background(), Request{VideoURL: "https://example.com/nothing"})
	require.Error(t, err)

	assert.True(t, apperr.Is(err, apperr.KindInvalidVideoReference))
	assert.Equal(t, 0, res.calls)
	assert.Equal(t, 0, an.calls)
}

func TestProcess_ResolverErrorForwardedUnchanged(t *testing.T) {
	upstream := apperr.New(apperr.KindUpstreamAuthOrQuota, "YouTube API error (403): quota", nil)
	an := &fakeAnalyzer{}
	p := New(&fakeResolver{err: upstream}, an, Config{Logger: testLogger()})

	_, err := p.Process(context.Background(), Request{VideoURL: "https://youtu.be/abc123"})
	require.Error(t, err)

	assert.Same(t, upstream, err)
	assert.Equal(t, 0, an.calls)
}

func TestProcess_EmptyTranscript(t *testing.T) {
	an := &fakeAnalyzer{}
	p := New(&fakeResolver{resolved: manualResolved("1\n00:00:01,000 --> 00:00:02,000\n\n")}, an, Config{Logger: testLogger()})

	_, err := p.Process(context.Background(), Request{VideoURL: "https://youtu.be/abc123"})
	require.Error(t, err)

	assert.True(t, apperr.Is(err, apperr.KindEmptyTranscript))
	assert.Equal(t, 0, an.calls)
}

func TestProcess_AnalyzerError(t *testing.T) {
	failure := apperr.New(apperr.KindUpstreamGeneric, "Gemini API error: boom", nil)
	p := New(&fakeResolver{resolved: manualResolved(sampleSRT)}, &fakeAnalyzer{err: failure}, Config{Logger: testLogger()})

	got, err := p.Process(context.Background(), Request{VideoURL: "https://youtu.be/abc123"})
	require.Error(t, err)

	assert.Nil(t, got, "no partial results on failure")
	assert.Same(t, failure, err)
}

func TestProcess_IncludeMarkdown(t *testing.T) {
	p := New(&fakeResolver{resolved: manualResolved(sampleSRT)}, &fakeAnalyzer{html: "<h2>構成</h2><p>本文</p>"}, Config{Logger: testLogger()})

	got, err := p.Process(context.Background(), Request{VideoURL: "https://youtu.be/abc123", IncludeMarkdown: true})
	require.NoError(t, err)

	assert.Contains(t, got.AnalysisMarkdown, "## 構成")
	assert.Contains(t, got.AnalysisMarkdown, "本文")
}

func TestProcess_WithCaptionResolver(t *testing.T) {
	src := &stubSource{
		tracks: []captions.Track{
			{ID: "a.ja", Language: "ja", AutoGenerated: true},
			{ID: "manual-ja", Language: "ja"},
		},
		payload: sampleSRT,
	}
	resolver := captions.NewResolver(src, 0, testLogger())
	p := New(resolver, &fakeAnalyzer{html: "<h1>ok</h1>"}, Config{Logger: testLogger()})

	got, err := p.Process(context.Background(), Request{VideoURL: "https://www.youtube.com/watch?v=abc123", YouTubeAPIKey: "K1"})
	require.NoError(t, err)

	assert.Equal(t, "manual-ja", src.downloaded)
	assert.Equal(t, "manual-ja", got.Track.ID)
}

type stubSource struct {
	tracks     []captions.Track
	payload    string
	downloaded string
}

func (s *stubSource) ListTracks(ctx context.Context, apiKey, videoID string) ([]captions.Track, error) {
	return s.tracks, nil
}

func (s *stubSource) Download(ctx context.Context, apiKey, trackID, format string) (string, error) {
	s.downloaded = trackID
	return s.payload, nil
}
