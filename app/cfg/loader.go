package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./tramita.db" description:"Path to the SQLite database file"`

	// Application configuration
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for source processing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Core defaults, overridable per source
	SimilarityAlgorithm string  `long:"similarity-algorithm" env:"SIMILARITY_ALGORITHM" default:"levenshtein" choice:"levenshtein" choice:"jaro_winkler" description:"String similarity algorithm"`
	SimilarityThreshold float64 `long:"similarity-threshold" env:"SIMILARITY_THRESHOLD" default:"0.6" description:"Similarity score threshold for relationship edges"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Tramita/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Madrid)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.SimilarityThreshold < 0 || raw.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("similarity threshold must be in [0,1], got %v", raw.SimilarityThreshold)
	}

	cfg := &Cfg{
		DBPath:              raw.DBPath,
		SourcesDir:          raw.SourcesDir,
		Port:                raw.Port,
		WorkerCount:         raw.WorkerCount,
		SchedulerInterval:   raw.SchedulerInterval,
		APIAccessKey:        raw.APIAccessKey,
		SimilarityAlgorithm: raw.SimilarityAlgorithm,
		SimilarityThreshold: raw.SimilarityThreshold,
		UserAgent:           raw.UserAgent,
		Timezone:            raw.Timezone,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
