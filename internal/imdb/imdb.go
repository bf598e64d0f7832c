// Package imdb searches IMDB for titles by scraping the find page,
// which embeds its results as JSON inside a __NEXT_DATA__ script tag.
package imdb

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"lonelymovie/internal/httputil"
	"lonelymovie/internal/media"
)

// DefaultLimit caps search results when the caller doesn't specify one.
const DefaultLimit = 10

// Client searches IMDB.
type Client struct {
	base   string // e.g., "www.imdb.com"
	client *http.Client
}

// New creates an IMDB client.
func New() *Client {
	return &Client{
		base:   "www.imdb.com",
		client: httputil.NewClient(),
	}
}

// Search returns up to limit movie titles matching query.
func (c *Client) Search(query string, limit int) ([]media.SearchResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	searchURL := fmt.Sprintf("https://%s/find/?q=%s&s=tt&ttype=ft&ref_=fn_ft",
		c.base, url.QueryEscape(query))

	resp, err := httputil.Get(c.client, searchURL)
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d searching for %q", resp.StatusCode, query)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing search page: %w", err)
	}

	results, err := parseSearchResults(doc, limit)
	if err != nil {
		return nil, fmt.Errorf("parsing search results for %q: %w", query, err)
	}

	return results, nil
}
