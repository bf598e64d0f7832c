package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lonelymovie/internal/config"
	"lonelymovie/internal/history"
	"lonelymovie/internal/media"
	"lonelymovie/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recent extractions and re-run one",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func historyRun(cmd *cobra.Command, args []string) error {
	path, err := config.HistoryDBPath()
	if err != nil {
		return fmt.Errorf("resolving history path: %w", err)
	}
	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	records, err := store.Recent(cmd.Context(), 20)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	items := make([]string, len(records))
	for i, rec := range records {
		items[i] = formatHistoryEntry(rec)
	}

	idx, err := ui.Select("History", items)
	if err != nil {
		return err
	}

	selected := records[idx]
	if flagSource == "" {
		flagSource = selected.Source
	}
	return runExtraction(cmd.Context(), selected.IMDBID)
}

func formatHistoryEntry(rec media.Record) string {
	status := "no stream"
	if rec.Found {
		status = rec.Type
	}
	return fmt.Sprintf("%s  %s via %s (%s, %d attempts)",
		rec.CreatedAt.Local().Format("2006-01-02 15:04"),
		rec.IMDBID, rec.Source, status, rec.Attempts)
}
