// Package server exposes the HTTP API: title search, autocomplete, embed
// lookup and stream extraction, plus an optional static frontend mount.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"lonelymovie/internal/config"
	"lonelymovie/internal/media"
	"lonelymovie/internal/sniff"
)

// Searcher finds titles matching a query.
type Searcher interface {
	Search(query string, limit int) ([]media.SearchResult, error)
}

// Suggester provides autocomplete suggestions for a partial query.
type Suggester interface {
	Suggest(query string, limit int) ([]media.Suggestion, error)
}

// Extractor runs a stream extraction against an embed page.
type Extractor interface {
	Extract(ctx context.Context, req sniff.Request) (*media.ExtractionResult, error)
}

// Recorder persists extraction outcomes. May be nil to disable history.
type Recorder interface {
	Record(ctx context.Context, rec media.Record) error
}

// Server is the HTTP API server.
type Server struct {
	cfg     *config.Config
	search  Searcher
	suggest Suggester
	extract Extractor
	history Recorder

	httpServer *http.Server
}

// New assembles a server from its dependencies. history may be nil.
func New(cfg *config.Config, search Searcher, suggest Suggester, extract Extractor, history Recorder) *Server {
	return &Server{
		cfg:     cfg,
		search:  search,
		suggest: suggest,
		extract: extract,
		history: history,
	}
}

// Handler builds the full routed and middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.routes(mux)
	return chain(mux, recoverPanic, requestLog, cors)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // extraction can span several browser attempts
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", s.cfg.Server.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
