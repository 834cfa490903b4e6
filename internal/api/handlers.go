package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"arxdex/internal/search"
)

// handleListPapers lists the paper directories that have been indexed.
func (s *Server) handleListPapers(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		jsonError(w, "data directory unavailable: "+err.Error(), http.StatusInternalServerError)
		return
	}
	papers := []map[string]any{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		indexed := false
		if _, err := os.Stat(filepath.Join(s.dataDir, e.Name(), "index.json")); err == nil {
			indexed = true
		}
		papers = append(papers, map[string]any{
			"id":      e.Name(),
			"indexed": indexed,
		})
	}
	sort.Slice(papers, func(i, j int) bool {
		return papers[i]["id"].(string) < papers[j]["id"].(string)
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"papers": papers})
}

// handlePaperIndex serves the stored JSON index verbatim.
func (s *Server) handlePaperIndex(w http.ResponseWriter, r *http.Request) {
	paperDir, ok := s.paperDir(w, r)
	if !ok {
		return
	}
	data, err := os.ReadFile(filepath.Join(paperDir, "index.json"))
	if err != nil {
		jsonError(w, "paper not indexed", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// handlePaperHTML renders the markdown index to HTML.
func (s *Server) handlePaperHTML(w http.ResponseWriter, r *http.Request) {
	paperDir, ok := s.paperDir(w, r)
	if !ok {
		return
	}
	md, err := os.ReadFile(filepath.Join(paperDir, "index.md"))
	if err != nil {
		jsonError(w, "paper not indexed", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := markdown.Convert(md, &buf); err != nil {
		jsonError(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// handleSection serves a single split section file as plain text.
func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	paperDir, ok := s.paperDir(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".tex") {
		jsonError(w, "invalid section name", http.StatusBadRequest)
		return
	}
	data, err := os.ReadFile(filepath.Join(paperDir, "sections", name))
	if err != nil {
		jsonError(w, "section not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(data)
}

// handleSearch dispatches on exactly one of the section, equation, or
// text query parameters.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	paperDir, ok := s.paperDir(w, r)
	if !ok {
		return
	}
	sectionsDir := filepath.Join(paperDir, "sections")

	q := r.URL.Query()
	var result any
	switch {
	case q.Get("section") != "":
		result = search.Section(sectionsDir, q.Get("section"))
	case q.Get("equation") != "":
		result = search.Equation(sectionsDir, q.Get("equation"))
	case q.Get("text") != "":
		result = search.Text(sectionsDir, q.Get("text"))
	default:
		jsonError(w, "one of section, equation, or text is required", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// paperDir resolves the {paperID} URL parameter to a directory under
// dataDir, rejecting traversal and unknown papers.
func (s *Server) paperDir(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "paperID")
	if id == "" || id != filepath.Base(id) {
		jsonError(w, "invalid paper id", http.StatusBadRequest)
		return "", false
	}
	dir := filepath.Join(s.dataDir, id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		jsonError(w, "paper not found", http.StatusNotFound)
		return "", false
	}
	return dir, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
