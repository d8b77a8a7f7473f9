// Package config loads storyreel settings from an optional YAML file and
// STORYREEL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/storyreel/internal/assets"
	"github.com/abhisek/storyreel/internal/catalog"
	"github.com/abhisek/storyreel/internal/media"
	"github.com/abhisek/storyreel/internal/preload"
	"github.com/abhisek/storyreel/internal/store"
)

// DefaultAssetBaseURL serves the bundled story's media.
const DefaultAssetBaseURL = assets.DefaultBaseURL

// Config holds all storyreel configuration. Empty paths are filled in from
// the data directory by Load.
type Config struct {
	AssetBaseURL string `yaml:"asset_base_url"`
	DBPath       string `yaml:"db_path"`
	CacheDir     string `yaml:"cache_dir"`
	LogFile      string `yaml:"log_file"`
	LogLevel     string `yaml:"log_level"`

	// Catalog is an optional scene catalog file replacing the embedded one.
	Catalog string `yaml:"catalog"`

	Playback PlaybackConfig `yaml:"playback"`
	Preload  PreloadConfig  `yaml:"preload"`
}

// PlaybackConfig tunes transition and narration timing.
type PlaybackConfig struct {
	GraceWindowMS        int `yaml:"grace_window_ms"`
	ReverseGraceWindowMS int `yaml:"reverse_grace_window_ms"`
	NotificationTTLMS    int `yaml:"notification_ttl_ms"`

	// Used when a transition or narration length cannot be determined.
	DefaultTransitionMS int `yaml:"default_transition_ms"`
	DefaultNarrationMS  int `yaml:"default_narration_ms"`
}

// PreloadConfig controls background asset fetching.
type PreloadConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	TimeoutMS         int     `yaml:"timeout_ms"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		AssetBaseURL: DefaultAssetBaseURL,
		LogLevel:     "info",
		Playback: PlaybackConfig{
			GraceWindowMS:        int(media.DefaultGraceWindow / time.Millisecond),
			ReverseGraceWindowMS: int(media.DefaultReverseGraceWindow / time.Millisecond),
			NotificationTTLMS:    4000,
			DefaultTransitionMS:  3000,
			DefaultNarrationMS:   20000,
		},
		Preload: PreloadConfig{
			Enabled:           true,
			RequestsPerSecond: 4,
			Burst:             preload.DefaultBurst,
			TimeoutMS:         int(preload.DefaultTimeout / time.Millisecond),
		},
	}
}

// DefaultPath returns the config file location: STORYREEL_CONFIG if set,
// otherwise config.yaml in the data directory.
func DefaultPath() (string, error) {
	if p := os.Getenv("STORYREEL_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := store.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds a Config from defaults, the YAML file at path and the
// environment, in that order of precedence. An empty path means DefaultPath.
// A missing default file is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
		explicit = os.Getenv("STORYREEL_CONFIG") != ""
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := parse(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	ApplyEnv(&cfg)
	if err := cfg.fillPaths(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parse(data []byte, cfg *Config) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with any STORYREEL_* variables that are set.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("STORYREEL_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("STORYREEL_ASSET_BASE"); v != "" {
		cfg.AssetBaseURL = v
	}
	if v := os.Getenv("STORYREEL_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("STORYREEL_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("STORYREEL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("STORYREEL_CATALOG"); v != "" {
		cfg.Catalog = v
	}
}

func (c *Config) fillPaths() error {
	if c.DBPath != "" && c.CacheDir != "" && c.LogFile != "" {
		return nil
	}
	dir, err := store.DataDir()
	if err != nil {
		return err
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dir, "storyreel.db")
	}
	if c.CacheDir == "" {
		c.CacheDir = filepath.Join(dir, "cache")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(dir, "storyreel.log")
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.AssetBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("asset base URL %q must be an absolute http(s) URL", c.AssetBaseURL)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.Playback.GraceWindowMS < 0 || c.Playback.ReverseGraceWindowMS < 0 {
		return fmt.Errorf("grace windows must not be negative")
	}
	if c.Playback.DefaultTransitionMS <= 0 || c.Playback.DefaultNarrationMS <= 0 {
		return fmt.Errorf("default media durations must be positive")
	}
	if c.Preload.RequestsPerSecond < 0 {
		return fmt.Errorf("preload requests_per_second must not be negative")
	}
	return nil
}

// LoadCatalog returns the configured scene catalog, or the embedded one.
func (c Config) LoadCatalog() (*catalog.Catalog, error) {
	if c.Catalog == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(c.Catalog)
}

// DriverOptions converts the playback timings for the transition driver.
func (c Config) DriverOptions() media.Options {
	return media.Options{
		GraceWindow:        ms(c.Playback.GraceWindowMS),
		ReverseGraceWindow: ms(c.Playback.ReverseGraceWindowMS),
	}
}

func (c Config) NotificationTTL() time.Duration   { return ms(c.Playback.NotificationTTLMS) }
func (c Config) DefaultTransition() time.Duration { return ms(c.Playback.DefaultTransitionMS) }
func (c Config) DefaultNarration() time.Duration  { return ms(c.Playback.DefaultNarrationMS) }

// PreloadOptions converts the preload settings for preload.New.
func (c Config) PreloadOptions() preload.Options {
	return preload.Options{
		CacheDir:          c.CacheDir,
		RequestsPerSecond: c.Preload.RequestsPerSecond,
		Burst:             c.Preload.Burst,
		Timeout:           ms(c.Preload.TimeoutMS),
	}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
