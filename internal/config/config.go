// Package config provides configuration management for scriptlens.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// Default values
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 5000
	DefaultLogLevel = "info"

	DefaultCaptionLanguage  = "ja"
	DefaultGeminiModel      = "gemini-2.5-flash-preview-09-2025"
	DefaultAnalysisMIMEType = "text/html"
	DefaultCaptionTimeout   = 30  // seconds
	DefaultAnalysisTimeout  = 120 // seconds
	DefaultCORSOrigins      = "*"
	DefaultMaxBodyBytes     = 1 << 20

	// Environment variable names
	EnvHost     = "SCRIPTLENS_HOST"
	EnvPort     = "SCRIPTLENS_PORT"
	EnvLogLevel = "SCRIPTLENS_LOG_LEVEL"

	EnvCaptionLanguage  = "SCRIPTLENS_CAPTION_LANGUAGE"
	EnvGeminiModel      = "SCRIPTLENS_GEMINI_MODEL"
	EnvAnalysisMIMEType = "SCRIPTLENS_ANALYSIS_MIME_TYPE"
	EnvCaptionTimeout   = "SCRIPTLENS_CAPTION_TIMEOUT"
	EnvAnalysisTimeout  = "SCRIPTLENS_ANALYSIS_TIMEOUT"
	EnvCORSOrigins      = "SCRIPTLENS_CORS_ORIGINS"
	EnvStaticDir        = "SCRIPTLENS_STATIC_DIR"
	EnvMaxBodyBytes     = "SCRIPTLENS_MAX_BODY_BYTES"
	EnvYouTubeEndpoint  = "SCRIPTLENS_YOUTUBE_ENDPOINT"
	EnvGeminiEndpoint   = "SCRIPTLENS_GEMINI_ENDPOINT"
	EnvTracing          = "SCRIPTLENS_TRACING"
)

// Config defines the application configuration interface
type Config interface {
	Host() string
	Port() int
	Addr() string
	LogLevel() string
	CaptionLanguage() string
	GeminiModel() string
	AnalysisMIMEType() string
	CaptionTimeout() time.Duration
	AnalysisTimeout() time.Duration
	CORSOrigins() []string
	StaticDir() string
	MaxBodyBytes() int64
	YouTubeEndpoint() string
	GeminiEndpoint() string
	TracingEnabled() bool
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	host     string
	port     int
	logLevel string

	captionLanguage  string
	geminiModel      string
	analysisMIMEType string
	captionTimeout   time.Duration
	analysisTimeout  time.Duration

	corsOrigins  []string
	staticDir    string
	maxBodyBytes int64

	youtubeEndpoint string
	geminiEndpoint  string
	tracing         bool
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		host:             DefaultHost,
		port:             DefaultPort,
		logLevel:         DefaultLogLevel,
		captionLanguage:  DefaultCaptionLanguage,
		geminiModel:      DefaultGeminiModel,
		analysisMIMEType: DefaultAnalysisMIMEType,
		captionTimeout:   DefaultCaptionTimeout * time.Second,
		analysisTimeout:  DefaultAnalysisTimeout * time.Second,
		corsOrigins:      splitList(DefaultCORSOrigins),
		maxBodyBytes:     DefaultMaxBodyBytes,
	}

	if h := os.Getenv(EnvHost); h != "" {
		cfg.host = h
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if lang := strings.TrimSpace(os.Getenv(EnvCaptionLanguage)); lang != "" {
		cfg.captionLanguage = lang
	}
	if m := strings.TrimSpace(os.Getenv(EnvGeminiModel)); m != "" {
		cfg.geminiModel = m
	}
	if mt := strings.TrimSpace(os.Getenv(EnvAnalysisMIMEType)); mt != "" {
		cfg.analysisMIMEType = mt
	}

	var err error
	if cfg.captionTimeout, err = secondsFromEnv(EnvCaptionTimeout, cfg.captionTimeout); err != nil {
		return nil, err
	}
	if cfg.analysisTimeout, err = secondsFromEnv(EnvAnalysisTimeout, cfg.analysisTimeout); err != nil {
		return nil, err
	}

	if origins := os.Getenv(EnvCORSOrigins); origins != "" {
		cfg.corsOrigins = splitList(origins)
	}

	cfg.staticDir = os.Getenv(EnvStaticDir)

	if mb := os.Getenv(EnvMaxBodyBytes); mb != "" {
		n, err := strconv.ParseInt(mb, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvMaxBodyBytes, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("invalid %s: must be positive", EnvMaxBodyBytes)
		}
		cfg.maxBodyBytes = n
	}

	cfg.youtubeEndpoint = os.Getenv(EnvYouTubeEndpoint)
	cfg.geminiEndpoint = os.Getenv(EnvGeminiEndpoint)

	if tr := os.Getenv(EnvTracing); tr != "" {
		enabled, err := strconv.ParseBool(tr)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvTracing, err)
		}
		cfg.tracing = enabled
	}

	return cfg, nil
}

// Host returns the interface the HTTP server binds to
func (c *EnvConfig) Host() string {
	return c.host
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// Addr returns host:port for the HTTP listener
func (c *EnvConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// CaptionLanguage returns the caption language used when a request names none
func (c *EnvConfig) CaptionLanguage() string {
	return c.captionLanguage
}

func (c *EnvConfig) GeminiModel() string {
	return c.geminiModel
}

func (c *EnvConfig) AnalysisMIMEType() string {
	return c.analysisMIMEType
}

// CaptionTimeout bounds each caption service call
func (c *EnvConfig) CaptionTimeout() time.Duration {
	return c.captionTimeout
}

// AnalysisTimeout bounds the generation call
func (c *EnvConfig) AnalysisTimeout() time.Duration {
	return c.analysisTimeout
}

func (c *EnvConfig) CORSOrigins() []string {
	return c.corsOrigins
}

// StaticDir returns the directory holding an index.html that replaces the
// built-in landing page, or "".
func (c *EnvConfig) StaticDir() string {
	return c.staticDir
}

func (c *EnvConfig) MaxBodyBytes() int64 {
	return c.maxBodyBytes
}

func (c *EnvConfig) YouTubeEndpoint() string {
	return c.youtubeEndpoint
}

func (c *EnvConfig) GeminiEndpoint() string {
	return c.geminiEndpoint
}

func (c *EnvConfig) TracingEnabled() bool {
	return c.tracing
}

func secondsFromEnv(name string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: timeout must be positive", name)
	}
	return time.Duration(n) * time.Second, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
