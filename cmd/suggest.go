package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lonelymovie/internal/tmdb"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Show autocomplete suggestions for a partial title",
	Args:  cobra.MinimumNArgs(1),
	RunE:  suggestRun,
}

func suggestRun(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	client := tmdb.New(cfg.TMDB.APIKey)
	suggestions, err := client.Suggest(query, tmdb.DefaultLimit)
	if err != nil {
		return fmt.Errorf("autocomplete failed: %w", err)
	}
	if len(suggestions) == 0 {
		fmt.Println("No suggestions found.")
		return nil
	}

	for _, s := range suggestions {
		line := s.Title
		if s.Year != "" {
			line += " (" + s.Year + ")"
		}
		fmt.Printf("%s [%s]\n", line, s.Type)
	}
	return nil
}
