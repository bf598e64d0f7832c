package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lonelymovie/internal/imdb"
	"lonelymovie/internal/media"
	"lonelymovie/internal/sniff"
	"lonelymovie/internal/source"
	"lonelymovie/internal/tmdb"
)

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api", s.handleAPIRoot)
	mux.HandleFunc("GET /api/search/{query}", s.handleSearch)
	mux.HandleFunc("GET /api/autocomplete/{query}", s.handleAutocomplete)
	mux.HandleFunc("GET /api/imdb/{id}", s.handleIMDBInfo)
	mux.HandleFunc("GET /api/extract-stream/{id}", s.handleExtractStream)

	s.mountStatic(mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleAPIRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "LonelyMovie API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"search":         "/api/search/{query}",
			"autocomplete":   "/api/autocomplete/{query}",
			"extract_stream": "/api/extract-stream/{imdb_id}",
			"health":         "/health",
		},
	})
}

// searchItem carries one search hit with the media type flattened to a
// string for the response body.
type searchItem struct {
	Title  string `json:"title"`
	IMDBID string `json:"imdb_id"`
	Year   string `json:"year,omitempty"`
	URL    string `json:"url"`
	Type   string `json:"type"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	limit := limitParam(r, imdb.DefaultLimit)

	results, err := s.search.Search(query, limit)
	if err != nil {
		slog.Error("search failed", "query", query, "error", err)
		writeError(w, http.StatusInternalServerError, "Error searching for movie: "+err.Error())
		return
	}

	items := make([]searchItem, 0, len(results))
	for _, res := range results {
		items = append(items, searchItem{
			Title:  res.Title,
			IMDBID: res.IMDBID,
			Year:   res.Year,
			URL:    res.URL,
			Type:   res.Type.String(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": items,
		"query":   query,
	})
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	limit := limitParam(r, tmdb.DefaultLimit)

	suggestions, err := s.suggest.Suggest(query, limit)
	if err != nil {
		// Autocomplete is best effort; degrade to no suggestions.
		slog.Warn("autocomplete failed", "query", query, "error", err)
		suggestions = []media.Suggestion{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions": suggestions,
		"query":       query,
	})
}

func (s *Server) handleIMDBInfo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := source.ValidateIMDBID(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid IMDB ID format. Should be like 'tt1234567'")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"imdb_id":   id,
		"embed_url": source.EmbedURL("2embed.cc", id),
		"imdb_url":  source.IMDBURL(id),
	})
}

func (s *Server) handleExtractStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := source.ValidateIMDBID(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid IMDB ID format")
		return
	}

	src := r.URL.Query().Get("source")
	if src == "" {
		src = source.Default
	}

	req := sniff.Request{
		EmbedURL: source.EmbedURL(src, id),
		Source:   src,
		MediaID:  id,
	}

	result, err := s.extract.Extract(r.Context(), req)
	if err != nil {
		slog.Error("extraction failed", "imdb_id", id, "source", src, "error", err)
		writeError(w, http.StatusInternalServerError, "Extraction failed: "+err.Error())
		return
	}

	s.recordExtraction(r, id, result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) recordExtraction(r *http.Request, id string, result *media.ExtractionResult) {
	if s.history == nil {
		return
	}

	rec := media.Record{
		IMDBID:   id,
		Source:   result.Source,
		Attempts: result.Attempts,
		Found:    result.Found(),
	}
	if result.Found() {
		rec.StreamURL = *result.StreamURL
		rec.Type = *result.Type
	}

	if err := s.history.Record(r.Context(), rec); err != nil {
		slog.Warn("recording extraction failed", "imdb_id", id, "error", err)
	}
}

// mountStatic serves a built frontend bundle when the configured static
// directory exists. Unknown non-API paths fall through to index.html so
// client-side routing keeps working.
func (s *Server) mountStatic(mux *http.ServeMux) {
	dir := s.cfg.Server.StaticDir
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}

	assets := filepath.Join(dir, "assets")
	if info, err := os.Stat(assets); err == nil && info.IsDir() {
		mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(assets))))
	}

	index := filepath.Join(dir, "index.html")
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "API endpoint not found")
			return
		}
		http.ServeFile(w, r, index)
	})
}
