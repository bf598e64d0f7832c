package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lonelymovie/internal/imdb"
	"lonelymovie/internal/media"
	"lonelymovie/internal/ui"
)

// searchRun is the default command: lonelymovie <query>
func searchRun(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	if query == "" {
		var err error
		query, err = ui.Input("Search")
		if err != nil {
			return fmt.Errorf("no search query provided")
		}
	}

	client := imdb.New()
	results, err := client.Search(query, imdb.DefaultLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no results for %q", query)
	}

	items := make([]string, len(results))
	for i, r := range results {
		items[i] = formatDisplayTitle(r)
	}

	idx, err := ui.Select("Select", items)
	if err != nil {
		return err
	}

	selected := results[idx]
	return runExtraction(cmd.Context(), selected.IMDBID)
}

// formatDisplayTitle renders a search result for the picker,
// e.g. "The Shawshank Redemption (1994) [movie]".
func formatDisplayTitle(r media.SearchResult) string {
	title := r.Title
	if r.Year != "" {
		title += " (" + r.Year + ")"
	}
	return fmt.Sprintf("%s [%s]", title, r.Type)
}
