package imdb

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"lonelymovie/internal/media"
)

func loadTestDoc(t *testing.T, filename string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile("testdata/" + filename)
	if err != nil {
		t.Fatalf("reading test fixture %s: %v", filename, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("parsing test fixture %s: %v", filename, err)
	}
	return doc
}

func TestParseSearchResults(t *testing.T) {
	doc := loadTestDoc(t, "find_results.html")

	results, err := parseSearchResults(doc, DefaultLimit)
	if err != nil {
		t.Fatalf("parseSearchResults: %v", err)
	}

	// Two entries in the fixture are unusable (empty title falls back to
	// the original title; the malformed id entry is dropped).
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	if results[0].Title != "The Shawshank Redemption" {
		t.Errorf("result[0].Title = %q", results[0].Title)
	}
	if results[0].IMDBID != "tt0111161" {
		t.Errorf("result[0].IMDBID = %q", results[0].IMDBID)
	}
	if results[0].Year != "1994" {
		t.Errorf("result[0].Year = %q, want 1994", results[0].Year)
	}
	if results[0].Type != media.Movie {
		t.Errorf("result[0].Type = %v, want Movie", results[0].Type)
	}
	if results[0].URL != "https://www.imdb.com/title/tt0111161/" {
		t.Errorf("result[0].URL = %q", results[0].URL)
	}

	if results[1].Type != media.TV {
		t.Errorf("Breaking Bad should classify as TV, got %v", results[1].Type)
	}

	// Missing release year yields an empty Year, not a zero.
	if results[2].Title != "Namnlös" || results[2].Year != "" {
		t.Errorf("result[2] = %+v, want original-title fallback with empty year", results[2])
	}
}

// Result URLs are built from the validated identifier and must never
// carry stray whitespace.
func TestParseSearchResultsCleanURLs(t *testing.T) {
	doc := loadTestDoc(t, "find_results.html")

	results, err := parseSearchResults(doc, DefaultLimit)
	if err != nil {
		t.Fatalf("parseSearchResults: %v", err)
	}

	for _, r := range results {
		if strings.ContainsAny(r.URL, " \t\n") {
			t.Errorf("URL %q contains whitespace", r.URL)
		}
	}
}

func TestParseSearchResultsLimit(t *testing.T) {
	doc := loadTestDoc(t, "find_results.html")

	results, err := parseSearchResults(doc, 2)
	if err != nil {
		t.Fatalf("parseSearchResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected limit of 2 results, got %d", len(results))
	}
}

func TestParseSearchResultsMissingNextData(t *testing.T) {
	doc := loadTestDoc(t, "no_next_data.html")

	_, err := parseSearchResults(doc, DefaultLimit)
	if err == nil {
		t.Fatal("expected error for a page without __NEXT_DATA__")
	}
	if !strings.Contains(err.Error(), "__NEXT_DATA__") {
		t.Errorf("error %q should mention the missing script tag", err)
	}
}
