// Package config handles TOML-based configuration loading and validation.
// Configuration is parsed as data only — no code execution is possible.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Server     Server     `toml:"server"`
	Sniffer    Sniffer    `toml:"sniffer"`
	Classifier Classifier `toml:"classifier"`
	Ranker     Ranker     `toml:"ranker"`
	TMDB       TMDB       `toml:"tmdb"`
	History    bool       `toml:"history"`
	Debug      bool       `toml:"debug"`
}

// Server configures the HTTP API.
type Server struct {
	Addr      string `toml:"addr"`
	StaticDir string `toml:"static_dir"`
}

// Sniffer configures the browser-driven stream sniffer.
// All durations are in milliseconds.
type Sniffer struct {
	MaxRetries          int    `toml:"max_retries"`
	NavigationTimeoutMs int    `toml:"navigation_timeout_ms"`
	PostTriggerWaitMs   int    `toml:"post_trigger_wait_ms"`
	SettleWaitMs        int    `toml:"settle_wait_ms"`
	RetryDelayMs        int    `toml:"retry_delay_ms"`
	ViewportWidth       int    `toml:"viewport_width"`
	ViewportHeight      int    `toml:"viewport_height"`
	Locale              string `toml:"locale"`
	Timezone            string `toml:"timezone"`
	Headless            bool   `toml:"headless"`
	ScratchDir          string `toml:"scratch_dir"`
}

// Classifier overrides the URL classification substring tables.
// Empty slices keep the built-in defaults.
type Classifier struct {
	Reject []string `toml:"reject"`
	Accept []string `toml:"accept"`
}

// Ranker overrides individual candidate scoring weights.
// Zero values keep the built-in defaults.
type Ranker struct {
	M3U8Base      int      `toml:"m3u8_base"`
	ManifestBonus int      `toml:"manifest_bonus"`
	M3U8Res1080   int      `toml:"m3u8_res_1080"`
	M3U8Res720    int      `toml:"m3u8_res_720"`
	M3U8Res480    int      `toml:"m3u8_res_480"`
	MP4Base       int      `toml:"mp4_base"`
	MP4Res1080    int      `toml:"mp4_res_1080"`
	MP4Res720     int      `toml:"mp4_res_720"`
	MKVBase       int      `toml:"mkv_base"`
	WebMBase      int      `toml:"webm_base"`
	TSBase        int      `toml:"ts_base"`
	CDNBonus      int      `toml:"cdn_bonus"`
	CDNHosts      []string `toml:"cdn_hosts"`
	LongURLBonus  int      `toml:"long_url_bonus"`
	LongURLLen    int      `toml:"long_url_len"`
}

// TMDB configures the autocomplete client.
type TMDB struct {
	APIKey string `toml:"api_key"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:      ":8000",
			StaticDir: "static",
		},
		Sniffer: Sniffer{
			MaxRetries:          2,
			NavigationTimeoutMs: 20000,
			PostTriggerWaitMs:   8000,
			SettleWaitMs:        5000,
			RetryDelayMs:        2000,
			ViewportWidth:       1920,
			ViewportHeight:      1080,
			Locale:              "en-US",
			Timezone:            "America/New_York",
			Headless:            true,
		},
		History: true,
		Debug:   false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lonelymovie"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "lonelymovie"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryDBPath returns the path to the extraction history database.
func HistoryDBPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "lonelymovie", "history.db"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	s := c.Sniffer

	if s.MaxRetries < 1 || s.MaxRetries > 10 {
		return fmt.Errorf("max_retries must be between 1 and 10, got %d", s.MaxRetries)
	}
	if s.NavigationTimeoutMs <= 0 {
		return fmt.Errorf("navigation_timeout_ms must be positive, got %d", s.NavigationTimeoutMs)
	}
	if s.PostTriggerWaitMs < 0 || s.SettleWaitMs < 0 || s.RetryDelayMs < 0 {
		return fmt.Errorf("wait durations cannot be negative")
	}
	if s.ViewportWidth <= 0 || s.ViewportHeight <= 0 {
		return fmt.Errorf("viewport dimensions must be positive, got %dx%d", s.ViewportWidth, s.ViewportHeight)
	}
	if s.Locale == "" || s.Timezone == "" {
		return fmt.Errorf("locale and timezone cannot be empty")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr cannot be empty")
	}

	return nil
}

// ScratchDir resolves the capture log scratch directory,
// falling back to the system temp directory.
func (c *Config) ScratchDir() string {
	if c.Sniffer.ScratchDir != "" {
		return c.Sniffer.ScratchDir
	}
	return os.TempDir()
}
