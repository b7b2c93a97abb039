package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakePages struct {
	err error
}

func (f *fakePages) ServeIndex(w http.ResponseWriter, r *http.Request) error {
	if f.err != nil {
		return f.err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<html>landing</html>"))
	return nil
}

func testRouter(pages *fakePages) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := ServerConfig{
		Pipeline:     &stubProcessor{},
		Logger:       logger,
		StartTime:    time.Now().Add(-3 * time.Second),
		Version:      "1.2.3",
		CORSOrigins:  []string{"https://app.example.com"},
		MaxBodyBytes: 1 << 20,
	}
	if pages != nil {
		cfg.Pages = pages
	}
	return NewRouter(cfg)
}

func TestHealthHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	body := decodeJSONBody(t, rr)
	if body["status"] != "ok" {
		t.Fatalf("status = %v, want ok", body["status"])
	}
	if body["version"] != "1.2.3" {
		t.Fatalf("version = %v, want 1.2.3", body["version"])
	}
	if uptime, _ := body["uptime_s"].(float64); uptime < 3 {
		t.Fatalf("uptime_s = %v, want >= 3", body["uptime_s"])
	}
}

func TestIndexHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(&fakePages{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != "<html>landing</html>" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestIndexHandler_Error(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(&fakePages{err: errors.New("disk gone")}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestIndexHandler_NoPages(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestUnknownRouteIsJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if got := decodeJSONBody(t, rr)["code"]; got != "NOT_FOUND" {
		t.Fatalf("code = %v, want NOT_FOUND", got)
	}
}

func TestWrongMethodIsJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/analyze", nil))

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
	if got := decodeJSONBody(t, rr)["code"]; got != "METHOD_NOT_ALLOWED" {
		t.Fatalf("code = %v, want METHOD_NOT_ALLOWED", got)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := testRouter(nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if got := rr.Header().Get(RequestIDHeader); len(got) != 8 {
		t.Fatalf("%s = %q, want 8 characters", RequestIDHeader, got)
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	router.ServeHTTP(rr, req)
	if got := rr.Header().Get(RequestIDHeader); got != "upstream-id" {
		t.Fatalf("%s = %q, want upstream-id", RequestIDHeader, got)
	}
}

func TestCORSPreflight(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	// Browsers send preflight header names lowercased.
	req.Header.Set("Access-Control-Request-Headers", "content-type")

	testRouter(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPost) {
		t.Fatalf("Access-Control-Allow-Methods = %q, want POST", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); !strings.EqualFold(got, "content-type") {
		t.Fatalf("Access-Control-Allow-Headers = %q, want content-type", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	testRouter(nil).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want empty", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if got := decodeJSONBody(t, rr)["code"]; got != "INTERNAL_ERROR" {
		t.Fatalf("code = %v, want INTERNAL_ERROR", got)
	}
}
