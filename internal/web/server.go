// Package web serves the landing page that drives the analysis endpoint.
package web

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
)

//go:embed static/index.html
var staticFS embed.FS

const indexFile = "index.html"

type PageService interface {
	ServeIndex(w http.ResponseWriter, r *http.Request) error
}

type Server struct {
	fsys   fs.FS
	logger *slog.Logger
}

// NewServer serves dir/index.html when dir is set, the built-in page otherwise.
func NewServer(dir string, logger *slog.Logger) *Server {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(staticFS, "static")
		if err != nil {
			panic(fmt.Sprintf("web: embedded static dir: %v", err))
		}
		fsys = sub
	}
	return &Server{fsys: fsys, logger: logger}
}

// ServeIndex writes the landing page bytes unchanged. Range and conditional
// requests are handled by http.ServeContent.
func (s *Server) ServeIndex(w http.ResponseWriter, r *http.Request) error {
	file, err := s.fsys.Open(indexFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "page not found", http.StatusNotFound)
			return nil
		}
		return fmt.Errorf("failed to open landing page: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat landing page: %w", err)
	}

	content, ok := file.(io.ReadSeeker)
	if !ok {
		return fmt.Errorf("landing page is not seekable")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, indexFile, stat.ModTime(), content)
	return nil
}
