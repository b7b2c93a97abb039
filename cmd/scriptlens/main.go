package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scriptlens/scriptlens/internal/analysis"
	"github.com/scriptlens/scriptlens/internal/api"
	"github.com/scriptlens/scriptlens/internal/captions"
	"github.com/scriptlens/scriptlens/internal/config"
	"github.com/scriptlens/scriptlens/internal/gemini"
	"github.com/scriptlens/scriptlens/internal/logging"
	"github.com/scriptlens/scriptlens/internal/observability"
	"github.com/scriptlens/scriptlens/internal/pipeline"
	"github.com/scriptlens/scriptlens/internal/web"
	"github.com/scriptlens/scriptlens/internal/youtube"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting scriptlens",
		"version", config.Version,
		"commit", config.GitCommit,
		"addr", cfg.Addr(),
		"caption_language", cfg.CaptionLanguage(),
		"model", cfg.GeminiModel(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, logger, observability.TracingConfig{
		Enabled:     cfg.TracingEnabled(),
		ServiceName: "scriptlens",
		Version:     config.Version,
		Writer:      os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	ytClient := youtube.NewClient(cfg.YouTubeEndpoint(), logger)
	resolver := captions.NewResolver(ytClient, cfg.CaptionTimeout(), logger)

	geminiClient := gemini.NewClient(cfg.GeminiEndpoint(), logger)
	analyzer := analysis.NewAnalyzer(geminiClient, analysis.Config{
		Model:            cfg.GeminiModel(),
		ResponseMIMEType: cfg.AnalysisMIMEType(),
		Timeout:          cfg.AnalysisTimeout(),
	}, logger)

	p := pipeline.New(resolver, analyzer, pipeline.Config{
		DefaultLanguage: cfg.CaptionLanguage(),
		Logger:          logger,
	})

	apiServer := api.NewServer(api.ServerConfig{
		Addr:         cfg.Addr(),
		Pipeline:     p,
		Pages:        web.NewServer(cfg.StaticDir(), logger),
		Logger:       logger,
		StartTime:    startTime,
		Version:      config.Version,
		CORSOrigins:  cfg.CORSOrigins(),
		MaxBodyBytes: cfg.MaxBodyBytes(),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush traces: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
