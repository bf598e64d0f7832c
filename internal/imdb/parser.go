package imdb

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lonelymovie/internal/media"
	"lonelymovie/internal/source"
)

// nextData mirrors the slice of IMDB's __NEXT_DATA__ payload that carries
// title search results.
type nextData struct {
	Props struct {
		PageProps struct {
			TitleResults struct {
				Results []titleResult `json:"results"`
			} `json:"titleResults"`
		} `json:"pageProps"`
	} `json:"props"`
}

// titleResult is one search hit. The IMDB identifier rides in the "index"
// field; title metadata is nested under "listItem".
type titleResult struct {
	Index    string `json:"index"`
	ListItem struct {
		TitleText         string `json:"titleText"`
		OriginalTitleText string `json:"originalTitleText"`
		ReleaseYear       int    `json:"releaseYear"`
		TitleType         struct {
			ID string `json:"id"`
		} `json:"titleType"`
	} `json:"listItem"`
}

// tvTypeIDs are IMDB titleType ids that classify as TV content.
var tvTypeIDs = map[string]bool{
	"tvSeries":     true,
	"tvMiniSeries": true,
	"tvSpecial":    true,
}

// parseSearchResults extracts title results from a find page document.
// Individual malformed entries are skipped; a page with no __NEXT_DATA__
// island is an error.
func parseSearchResults(doc *goquery.Document, limit int) ([]media.SearchResult, error) {
	script := doc.Find(`script#__NEXT_DATA__[type="application/json"]`).First()
	if script.Length() == 0 {
		return nil, fmt.Errorf("no __NEXT_DATA__ script tag found")
	}

	var data nextData
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		return nil, fmt.Errorf("decoding __NEXT_DATA__: %w", err)
	}

	var results []media.SearchResult
	for _, item := range data.Props.PageProps.TitleResults.Results {
		if len(results) == limit {
			break
		}

		title := item.ListItem.TitleText
		if title == "" {
			title = item.ListItem.OriginalTitleText
		}
		id := strings.TrimSpace(item.Index)
		if title == "" || source.ValidateIMDBID(id) != nil {
			continue
		}

		year := ""
		if item.ListItem.ReleaseYear > 0 {
			year = strconv.Itoa(item.ListItem.ReleaseYear)
		}

		mediaType := media.Movie
		if tvTypeIDs[item.ListItem.TitleType.ID] {
			mediaType = media.TV
		}

		results = append(results, media.SearchResult{
			Title:  title,
			IMDBID: id,
			Year:   year,
			URL:    source.IMDBURL(id),
			Type:   mediaType,
		})
	}

	return results, nil
}
