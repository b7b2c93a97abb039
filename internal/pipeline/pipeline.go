// Package pipeline runs the per-request analysis: identifier extraction,
// caption resolution, subtitle cleaning and transcript analysis, in that
// order, stopping at the first failure.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/scriptlens/scriptlens/internal/analysis"
	"github.com/scriptlens/scriptlens/internal/apperr"
	"github.com/scriptlens/scriptlens/internal/captions"
	"github.com/scriptlens/scriptlens/internal/logging"
	"github.com/scriptlens/scriptlens/internal/subtitle"
	"github.com/scriptlens/scriptlens/internal/videoid"
)

const (
	StageExtract = "extract"
	StageResolve = "resolve"
	StageClean   = "clean"
	StageAnalyze = "analyze"
	StageRender  = "render"
)

const tracerName = "github.com/scriptlens/scriptlens/internal/pipeline"

type CaptionResolver interface {
	Resolve(ctx context.Context, apiKey, videoID, lang string) (*captions.Resolved, error)
}

type TranscriptAnalyzer interface {
	Analyze(ctx context.Context, apiKey, transcript string) (string, error)
}

// Request carries everything one run needs, credentials included.
type Request struct {
	VideoURL        string
	YouTubeAPIKey   string
	GeminiAPIKey    string
	Language        string
	IncludeMarkdown bool
}

type Result struct {
	VideoID          string
	Track            captions.Track
	Selector         string
	Transcript       string
	AnalysisHTML     string
	AnalysisMarkdown string
}

type Config struct {
	DefaultLanguage string
	Extractor       *videoid.Extractor
	Logger          *slog.Logger
}

type Pipeline struct {
	extractor       *videoid.Extractor
	resolver        CaptionResolver
	analyzer        TranscriptAnalyzer
	defaultLanguage string
	tracer          trace.Tracer
	logger          *slog.Logger
}

func New(resolver CaptionResolver, analyzer TranscriptAnalyzer, cfg Config) *Pipeline {
	extractor := cfg.Extractor
	if extractor == nil {
		extractor = videoid.NewExtractor()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lang := cfg.DefaultLanguage
	if lang == "" {
		lang = "ja"
	}
	return &Pipeline{
		extractor:       extractor,
		resolver:        resolver,
		analyzer:        analyzer,
		defaultLanguage: lang,
		tracer:          otel.Tracer(tracerName),
		logger:          logging.WithComponent(logger, "pipeline"),
	}
}

// Process runs all stages for req. The returned error is the failing stage's
// error, unchanged.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Result, error) {
	lang := req.Language
	if lang == "" {
		lang = p.defaultLanguage
	}

	ctx, span := p.tracer.Start(ctx, "pipeline.process")
	defer span.End()

	logger := p.logger
	if requestID := logging.RequestIDFrom(ctx); requestID != "" {
		logger = logging.WithRequestID(logger, requestID)
	}
	logger.Info("analysis requested",
		"language", lang,
		"youtube_api_key", logging.SanitizeToken(req.YouTubeAPIKey),
		"gemini_api_key", logging.SanitizeToken(req.GeminiAPIKey),
	)

	res := &Result{}

	err := p.stage(ctx, logger, StageExtract, func(ctx context.Context) error {
		id, ok := p.extractor.Extract(req.VideoURL)
		if !ok {
			return apperr.New(apperr.KindInvalidVideoReference, "not a valid YouTube video URL", nil)
		}
		res.VideoID = id
		return nil
	})
	if err != nil {
		return p.fail(span, err)
	}

	logger = logging.WithVideoID(logger, res.VideoID)
	span.SetAttributes(attribute.String("video.id", res.VideoID), attribute.String("caption.language", lang))

	var raw string
	err = p.stage(ctx, logger, StageResolve, func(ctx context.Context) error {
		resolved, err := p.resolver.Resolve(ctx, req.YouTubeAPIKey, res.VideoID, lang)
		if err != nil {
			return err
		}
		res.Track = resolved.Track
		res.Selector = resolved.Selector
		raw = resolved.Payload
		return nil
	})
	if err != nil {
		return p.fail(span, err)
	}

	err = p.stage(ctx, logger, StageClean, func(ctx context.Context) error {
		res.Transcript = subtitle.Clean(raw)
		if res.Transcript == "" {
			return apperr.New(apperr.KindEmptyTranscript, "could not extract any text from the caption data", nil)
		}
		return nil
	})
	if err != nil {
		return p.fail(span, err)
	}

	err = p.stage(ctx, logger, StageAnalyze, func(ctx context.Context) error {
		html, err := p.analyzer.Analyze(ctx, req.GeminiAPIKey, res.Transcript)
		if err != nil {
			return err
		}
		res.AnalysisHTML = html
		return nil
	})
	if err != nil {
		return p.fail(span, err)
	}

	if req.IncludeMarkdown {
		err = p.stage(ctx, logger, StageRender, func(ctx context.Context) error {
			md, err := analysis.ToMarkdown(res.AnalysisHTML)
			if err != nil {
				return apperr.New(apperr.KindLocalUnexpected, fmt.Sprintf("failed to render analysis: %v", err), err)
			}
			res.AnalysisMarkdown = md
			return nil
		})
		if err != nil {
			return p.fail(span, err)
		}
	}

	logger.Info("analysis completed",
		"track_id", res.Track.ID,
		"selector", res.Selector,
		"transcript_chars", len(res.Transcript),
		"analysis_chars", len(res.AnalysisHTML),
	)
	return res, nil
}

func (p *Pipeline) stage(ctx context.Context, logger *slog.Logger, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.KindOf(err).Code())
		logger.Warn("pipeline stage failed",
			"stage", name,
			"kind", apperr.KindOf(err).Code(),
			"duration_ms", duration,
			"error", err,
		)
		return err
	}

	logger.Debug("pipeline stage finished", "stage", name, "duration_ms", duration)
	return nil
}

func (p *Pipeline) fail(span trace.Span, err error) (*Result, error) {
	span.SetStatus(codes.Error, apperr.KindOf(err).Code())
	return nil, err
}
