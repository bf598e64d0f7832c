// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lonelymovie/internal/config"
	"lonelymovie/internal/history"
	"lonelymovie/internal/sniff"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagSource    string
	flagNoHistory bool
	flagHeadful   bool
	flagDebug     bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lonelymovie [query]",
	Short: "Find playable stream URLs for movies from the terminal",
	Long: `Lonelymovie searches IMDB for a title, drives a headless browser
against a third-party embed page and sniffs the network traffic for a
playable stream URL.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              searchRun,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagSource, "source", "s", "", "Embed provider: vidsrc.me | vidsrc.to | embed.su | 2embed.cc | smashystream")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Skip recording extractions to history")
	rootCmd.PersistentFlags().BoolVar(&flagHeadful, "headful", false, "Run the browser with a visible window")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagNoHistory {
		cfg.History = false
	}
	if flagHeadful {
		cfg.Sniffer.Headless = false
	}
	if flagDebug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	return nil
}

// newSniffer builds the browser sniffer from the merged configuration.
func newSniffer() *sniff.Sniffer {
	return sniff.New(sniff.Options{
		MaxRetries:        cfg.Sniffer.MaxRetries,
		NavigationTimeout: time.Duration(cfg.Sniffer.NavigationTimeoutMs) * time.Millisecond,
		PostTriggerWait:   time.Duration(cfg.Sniffer.PostTriggerWaitMs) * time.Millisecond,
		SettleWait:        time.Duration(cfg.Sniffer.SettleWaitMs) * time.Millisecond,
		RetryDelay:        time.Duration(cfg.Sniffer.RetryDelayMs) * time.Millisecond,
		Headless:          cfg.Sniffer.Headless,
		ScratchDir:        cfg.ScratchDir(),
		Rules: sniff.RuleSet{
			Reject: cfg.Classifier.Reject,
			Accept: cfg.Classifier.Accept,
		},
		Weights: rankerWeights(),
		Disguises: sniff.NewRandomDisguise(
			cfg.Sniffer.ViewportWidth,
			cfg.Sniffer.ViewportHeight,
			cfg.Sniffer.Locale,
			cfg.Sniffer.Timezone,
		),
	})
}

// rankerWeights merges config overrides onto the default scoring table.
func rankerWeights() sniff.Weights {
	w := sniff.DefaultWeights()
	r := cfg.Ranker

	override := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	override(&w.M3U8Base, r.M3U8Base)
	override(&w.ManifestBonus, r.ManifestBonus)
	override(&w.M3U8Res1080, r.M3U8Res1080)
	override(&w.M3U8Res720, r.M3U8Res720)
	override(&w.M3U8Res480, r.M3U8Res480)
	override(&w.MP4Base, r.MP4Base)
	override(&w.MP4Res1080, r.MP4Res1080)
	override(&w.MP4Res720, r.MP4Res720)
	override(&w.MKVBase, r.MKVBase)
	override(&w.WebMBase, r.WebMBase)
	override(&w.TSBase, r.TSBase)
	override(&w.CDNBonus, r.CDNBonus)
	override(&w.LongURLBonus, r.LongURLBonus)
	override(&w.LongURLLen, r.LongURLLen)
	if len(r.CDNHosts) > 0 {
		w.CDNHosts = r.CDNHosts
	}
	return w
}

// openHistory opens the extraction history store, or returns nil when
// history is disabled.
func openHistory() (*history.Store, error) {
	if !cfg.History {
		return nil, nil
	}
	path, err := config.HistoryDBPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}
