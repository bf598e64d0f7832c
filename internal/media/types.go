// Package media defines shared types for the lonelymovie application.
package media

import "time"

// MediaType represents whether content is a movie or TV show.
type MediaType int

const (
	Movie MediaType = iota
	TV
)

func (m MediaType) String() string {
	switch m {
	case Movie:
		return "movie"
	case TV:
		return "tv"
	default:
		return "unknown"
	}
}

// SearchResult represents a single title from an IMDB search.
type SearchResult struct {
	Title  string    `json:"title"`
	IMDBID string    `json:"imdb_id"`
	Year   string    `json:"year,omitempty"`
	URL    string    `json:"url"`
	Type   MediaType `json:"-"`
}

// Suggestion is a single autocomplete suggestion from TMDB.
type Suggestion struct {
	Title  string `json:"title"`
	Year   string `json:"year,omitempty"`
	Type   string `json:"type"`
	TMDBID int64  `json:"tmdb_id"`
}

// ExtractionResult is the terminal output of a stream extraction.
// StreamURL and Type are nil when no stream was found; Alternatives is
// always present (possibly empty) and holds at most two entries.
type ExtractionResult struct {
	StreamURL    *string  `json:"stream_url"`
	Type         *string  `json:"type"`
	Source       string   `json:"source"`
	Alternatives []string `json:"alternatives"`
	Message      string   `json:"message,omitempty"`

	// Attempts is how many browser attempts were spent; not part of
	// the response body.
	Attempts int `json:"-"`
}

// Found reports whether the extraction produced a playable stream.
func (r *ExtractionResult) Found() bool {
	return r.StreamURL != nil
}

// Record is one persisted extraction history entry.
type Record struct {
	ID        int64
	IMDBID    string
	Source    string
	StreamURL string // empty when no stream was found
	Type      string
	Attempts  int
	Found     bool
	CreatedAt time.Time
}
