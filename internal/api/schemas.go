package api

import (
	"strings"

	"github.com/scriptlens/scriptlens/internal/pipeline"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

// AnalyzeRequest is the POST /analyze body.
type AnalyzeRequest struct {
	YouTubeURL      string `json:"youtube_url"`
	YouTubeAPIKey   string `json:"youtube_api_key"`
	GeminiAPIKey    string `json:"gemini_api_key"`
	Language        string `json:"language,omitempty"`
	IncludeMarkdown bool   `json:"include_markdown,omitempty"`
}

type AnalyzeResponse struct {
	Transcript       string `json:"transcript"`
	AnalysisHTML     string `json:"analysis_html"`
	VideoID          string `json:"video_id"`
	CaptionKind      string `json:"caption_kind"`
	AnalysisMarkdown string `json:"analysis_markdown,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// missingFields lists the required fields that are absent or blank.
func (r AnalyzeRequest) missingFields() []string {
	var missing []string
	if strings.TrimSpace(r.YouTubeURL) == "" {
		missing = append(missing, "youtube_url")
	}
	if strings.TrimSpace(r.YouTubeAPIKey) == "" {
		missing = append(missing, "youtube_api_key")
	}
	if strings.TrimSpace(r.GeminiAPIKey) == "" {
		missing = append(missing, "gemini_api_key")
	}
	return missing
}

func (r AnalyzeRequest) toPipeline() pipeline.Request {
	return pipeline.Request{
		VideoURL:        strings.TrimSpace(r.YouTubeURL),
		YouTubeAPIKey:   strings.TrimSpace(r.YouTubeAPIKey),
		GeminiAPIKey:    strings.TrimSpace(r.GeminiAPIKey),
		Language:        r.Language,
		IncludeMarkdown: r.IncludeMarkdown,
	}
}

func ResultToResponse(res *pipeline.Result) AnalyzeResponse {
	return AnalyzeResponse{
		Transcript:       res.Transcript,
		AnalysisHTML:     res.AnalysisHTML,
		VideoID:          res.VideoID,
		CaptionKind:      res.Selector,
		AnalysisMarkdown: res.AnalysisMarkdown,
	}
}
