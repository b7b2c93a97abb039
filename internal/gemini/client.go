// Package gemini sends single-turn generation requests to the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Request is one generation call.
type Request struct {
	Model             string
	SystemInstruction string
	Prompt            string
	ResponseMIMEType  string
}

// Client holds transport settings only; the API key arrives with each call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient returns a Client. An empty baseURL uses the library default.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("empty response from model")

// Generate sends req and returns the concatenated text of the first candidate.
// It makes exactly one request and never retries.
func (c *Client) Generate(ctx context.Context, apiKey string, req Request) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.ResponseMIMEType != "" {
		genCfg.ResponseMIMEType = req.ResponseMIMEType
	}

	c.logger.Debug("gemini request",
		"model", req.Model,
		"prompt_chars", len(req.Prompt),
		"response_mime_type", req.ResponseMIMEType,
	)

	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
