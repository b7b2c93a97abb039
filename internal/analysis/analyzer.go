// Package analysis asks a generation model for a structural analysis of a
// transcript and prepares the returned markup for display.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/scriptlens/scriptlens/internal/apperr"
	"github.com/scriptlens/scriptlens/internal/gemini"
)

const (
	DefaultModel            = "gemini-2.5-flash-preview-09-2025"
	DefaultResponseMIMEType = "text/html"
)

// Generator is the text-generation service.
type Generator interface {
	Generate(ctx context.Context, apiKey string, req gemini.Request) (string, error)
}

// Config selects the model and bounds the generation call.
type Config struct {
	Model            string
	ResponseMIMEType string
	Timeout          time.Duration
}

// Analyzer turns a transcript into sanitized HTML analysis.
type Analyzer struct {
	gen    Generator
	cfg    Config
	logger *slog.Logger
}

// NewAnalyzer returns an Analyzer, filling in the default model and MIME type.
func NewAnalyzer(gen Generator, cfg Config, logger *slog.Logger) *Analyzer {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ResponseMIMEType == "" {
		cfg.ResponseMIMEType = DefaultResponseMIMEType
	}
	return &Analyzer{gen: gen, cfg: cfg, logger: logger}
}

// Analyze returns the model's HTML analysis of transcript. One generation
// call per invocation; failures are not retried.
func (a *Analyzer) Analyze(ctx context.Context, apiKey, transcript string) (string, error) {
	prompt, err := BuildPrompt(transcript)
	if err != nil {
		return "", apperr.New(apperr.KindLocalUnexpected,
			fmt.Sprintf("unexpected error (Gemini API): %v", err), err)
	}

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	text, err := a.gen.Generate(ctx, apiKey, gemini.Request{
		Model:             a.cfg.Model,
		SystemInstruction: prompt.System,
		Prompt:            prompt.User,
		ResponseMIMEType:  a.cfg.ResponseMIMEType,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperr.New(apperr.KindLocalUnexpected,
				"unexpected error (Gemini API): request timed out", err)
		}
		return "", apperr.New(apperr.KindUpstreamGeneric,
			fmt.Sprintf("Gemini API error: %v", err), err)
	}

	html, err := Sanitize(text)
	if err != nil {
		return "", apperr.New(apperr.KindLocalUnexpected,
			fmt.Sprintf("unexpected error (Gemini API): %v", err), err)
	}
	if strings.TrimSpace(html) == "" {
		return "", apperr.New(apperr.KindUpstreamGeneric,
			fmt.Sprintf("Gemini API error: %v", gemini.ErrEmptyResponse), gemini.ErrEmptyResponse)
	}

	if a.logger != nil {
		a.logger.Debug("analysis generated", "model", a.cfg.Model, "html_chars", len(html))
	}
	return html, nil
}
