// Package api serves layout extraction over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	htmlxml "github.com/porticus-lab/go-html-xml"
)

// DefaultMaxBodyBytes limits the size of an uploaded HTML document.
const DefaultMaxBodyBytes = 10 << 20

// Extractor loads a document and extracts its text layout.
// *htmlxml.Converter implements it.
type Extractor interface {
	ConvertHTML(ctx context.Context, html string) (*htmlxml.Result, error)
	ConvertURL(ctx context.Context, rawURL string) (*htmlxml.Result, error)
}

// Server is the HTTP API server.
type Server struct {
	router       chi.Router
	extractor    Extractor
	log          zerolog.Logger
	maxBodyBytes int64
}

// NewServer creates and configures the HTTP server. A maxBodyBytes of zero
// or less uses DefaultMaxBodyBytes.
func NewServer(ext Extractor, log zerolog.Logger, maxBodyBytes int64) *Server {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		extractor:    ext,
		log:          log,
		maxBodyBytes: maxBodyBytes,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", s.handleHealth)
	r.Post("/extract", s.handleExtract)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
