package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lonelymovie/internal/imdb"
	"lonelymovie/internal/server"
	"lonelymovie/internal/tmdb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  serveRun,
}

func serveRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recorder server.Recorder
	store, err := openHistory()
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	if store != nil {
		defer store.Close()
		recorder = store
	}

	srv := server.New(cfg, imdb.New(), tmdb.New(cfg.TMDB.APIKey), newSniffer(), recorder)
	return srv.Run(ctx)
}
