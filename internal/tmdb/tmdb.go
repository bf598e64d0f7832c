// Package tmdb provides movie title autocomplete via the TMDB multi-search API.
package tmdb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"lonelymovie/internal/httputil"
	"lonelymovie/internal/media"
)

// DefaultLimit caps suggestions when the caller doesn't specify one.
const DefaultLimit = 5

// MinQueryLength is the shortest query worth sending upstream.
const MinQueryLength = 2

const defaultBaseURL = "https://api.themoviedb.org/3"

// Client queries the TMDB search API.
type Client struct {
	baseURL string
	apiKey  string // optional bearer token; anonymous requests degrade
	client  *http.Client
}

// New creates a TMDB client. apiKey may be empty.
func New(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client:  httputil.NewClient(),
	}
}

// searchResponse mirrors the TMDB multi-search response body.
type searchResponse struct {
	Results []struct {
		ID           int64  `json:"id"`
		Title        string `json:"title"`
		Name         string `json:"name"`
		ReleaseDate  string `json:"release_date"`
		FirstAirDate string `json:"first_air_date"`
		MediaType    string `json:"media_type"`
	} `json:"results"`
}

// Suggest returns up to limit title suggestions for a partial query.
// Queries shorter than MinQueryLength yield no suggestions without a
// network round trip.
func (c *Client) Suggest(query string, limit int) ([]media.Suggestion, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(strings.TrimSpace(query)) < MinQueryLength {
		return []media.Suggestion{}, nil
	}

	searchURL := fmt.Sprintf("%s/search/multi?query=%s&include_adult=false&language=en-US&page=1",
		c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequest(http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected tmdb status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, fmt.Errorf("reading tmdb response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing tmdb response: %w", err)
	}

	suggestions := []media.Suggestion{}
	for _, item := range parsed.Results {
		if len(suggestions) == limit {
			break
		}

		title := item.Title
		if title == "" {
			title = item.Name
		}
		if title == "" {
			continue
		}

		year := ""
		date := item.ReleaseDate
		if date == "" {
			date = item.FirstAirDate
		}
		if parts := strings.SplitN(date, "-", 2); parts[0] != "" && date != "" {
			year = parts[0]
		}

		mediaType := item.MediaType
		if mediaType == "" {
			mediaType = "movie"
		}

		suggestions = append(suggestions, media.Suggestion{
			Title:  title,
			Year:   year,
			Type:   mediaType,
			TMDBID: item.ID,
		})
	}

	return suggestions, nil
}
