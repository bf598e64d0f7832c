package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lonelymovie/internal/media"
	"lonelymovie/internal/sniff"
	"lonelymovie/internal/source"
)

var extractCmd = &cobra.Command{
	Use:   "extract <imdb-id>",
	Short: "Extract a stream URL for an IMDB title",
	Args:  cobra.ExactArgs(1),
	RunE:  extractRun,
}

func extractRun(cmd *cobra.Command, args []string) error {
	return runExtraction(cmd.Context(), args[0])
}

// runExtraction is the shared one-shot extraction flow: validate the id,
// sniff the embed page, print the result as JSON and record history.
func runExtraction(ctx context.Context, imdbID string) error {
	if err := source.ValidateIMDBID(imdbID); err != nil {
		return err
	}

	src := flagSource
	if src == "" {
		src = source.Default
	} else if !source.IsKnown(src) {
		return fmt.Errorf("unknown source %q (known: %v)", src, source.Names())
	}

	sniffer := newSniffer()
	result, err := sniffer.Extract(ctx, sniff.Request{
		EmbedURL: source.EmbedURL(src, imdbID),
		Source:   src,
		MediaID:  imdbID,
	})
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	recordResult(ctx, imdbID, result)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func recordResult(ctx context.Context, imdbID string, result *media.ExtractionResult) {
	store, err := openHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: opening history: %v\n", err)
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	rec := media.Record{
		IMDBID:   imdbID,
		Source:   result.Source,
		Attempts: result.Attempts,
		Found:    result.Found(),
	}
	if result.Found() {
		rec.StreamURL = *result.StreamURL
		rec.Type = *result.Type
	}
	if err := store.Record(ctx, rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording history: %v\n", err)
	}
}
