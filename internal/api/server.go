// Package api exposes processed papers over HTTP: the paper list, the
// JSON index, an HTML rendering of the markdown index, raw section
// files, and targeted search.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the read-only HTTP surface over a papers data directory.
type Server struct {
	router  chi.Router
	dataDir string
	log     *slog.Logger
}

// NewServer creates and configures the HTTP server over dataDir.
func NewServer(dataDir string, log *slog.Logger) *Server {
	s := &Server{
		dataDir: dataDir,
		log:     log,
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

	r.Get("/health", s.handleHealth)

	r.Get("/api/papers", s.handleListPapers)
	r.Get("/api/papers/{paperID}", s.handlePaperIndex)
	r.Get("/api/papers/{paperID}/index.html", s.handlePaperHTML)
	r.Get("/api/papers/{paperID}/sections/{name}", s.handleSection)
	r.Get("/api/papers/{paperID}/search", s.handleSearch)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
