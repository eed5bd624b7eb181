package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-paper2pdf/internal/config"
)

// envPrefix marks the variables read by loadEnvConfig.
const envPrefix = "PAPER2PDF_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring config files.
// Zero values mean "not set".
type envConfig struct {
	// Service
	ConfigPath string  // PAPER2PDF_CONFIG: config name or path
	Addr       string  // PAPER2PDF_ADDR: listen address
	Workers    int     // PAPER2PDF_WORKERS: concurrent renders
	RateLimit  float64 // PAPER2PDF_RATE_LIMIT: requests per second
	RateSet    bool    // PAPER2PDF_RATE_LIMIT parsed (0 is meaningful)

	// Engine
	Engine      string        // PAPER2PDF_ENGINE: pdflatex name or path
	Timeout     time.Duration // PAPER2PDF_TIMEOUT: engine run timeout
	NoEngine    bool          // PAPER2PDF_NO_ENGINE: always use layout
	ScratchRoot string        // PAPER2PDF_SCRATCH_DIR: scratch directory root

	// Assets, logging and journal
	AssetPath   string // PAPER2PDF_ASSET_PATH: template directory
	LogLevel    string // PAPER2PDF_LOG_LEVEL
	LogFormat   string // PAPER2PDF_LOG_FORMAT: console or json
	HistoryPath string // PAPER2PDF_HISTORY: journal database path
}

// knownEnvVars lists valid PAPER2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PAPER2PDF_CONFIG":      true,
	"PAPER2PDF_ADDR":        true,
	"PAPER2PDF_WORKERS":     true,
	"PAPER2PDF_RATE_LIMIT":  true,
	"PAPER2PDF_ENGINE":      true,
	"PAPER2PDF_TIMEOUT":     true,
	"PAPER2PDF_NO_ENGINE":   true,
	"PAPER2PDF_SCRATCH_DIR": true,
	"PAPER2PDF_ASSET_PATH":  true,
	"PAPER2PDF_LOG_LEVEL":   true,
	"PAPER2PDF_LOG_FORMAT":  true,
	"PAPER2PDF_HISTORY":     true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are reported on w and ignored.
func loadEnvConfig(w io.Writer) *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("PAPER2PDF_CONFIG"),
		Addr:        os.Getenv("PAPER2PDF_ADDR"),
		Engine:      os.Getenv("PAPER2PDF_ENGINE"),
		ScratchRoot: os.Getenv("PAPER2PDF_SCRATCH_DIR"),
		AssetPath:   os.Getenv("PAPER2PDF_ASSET_PATH"),
		LogLevel:    os.Getenv("PAPER2PDF_LOG_LEVEL"),
		LogFormat:   os.Getenv("PAPER2PDF_LOG_FORMAT"),
		HistoryPath: os.Getenv("PAPER2PDF_HISTORY"),
	}

	if v := os.Getenv("PAPER2PDF_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			fmt.Fprintf(w, "warning: ignoring PAPER2PDF_TIMEOUT=%q (want a duration like 30s)\n", v)
		}
	}

	if v := os.Getenv("PAPER2PDF_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		} else {
			fmt.Fprintf(w, "warning: ignoring PAPER2PDF_WORKERS=%q (want a positive integer)\n", v)
		}
	}

	if v := os.Getenv("PAPER2PDF_RATE_LIMIT"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r >= 0 {
			cfg.RateLimit = r
			cfg.RateSet = true
		} else {
			fmt.Fprintf(w, "warning: ignoring PAPER2PDF_RATE_LIMIT=%q (want a non-negative number)\n", v)
		}
	}

	if v := os.Getenv("PAPER2PDF_NO_ENGINE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.NoEngine = b
		} else {
			fmt.Fprintf(w, "warning: ignoring PAPER2PDF_NO_ENGINE=%q (want true or false)\n", v)
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized PAPER2PDF_* variables.
// Helps catch typos like PAPER2PDF_ENGIN instead of PAPER2PDF_ENGINE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file. This ensures:
// CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.Workers > 0 {
		cfg.Server.Workers = env.Workers
	}
	if env.RateSet {
		cfg.Server.RateLimit = env.RateLimit
	}

	if env.Engine != "" {
		cfg.Engine.Binary = env.Engine
	}
	if env.Timeout > 0 {
		cfg.Engine.Timeout = env.Timeout
	}
	if env.NoEngine {
		cfg.Engine.Disabled = true
	}
	if env.ScratchRoot != "" {
		cfg.Engine.ScratchRoot = env.ScratchRoot
	}

	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
	if env.HistoryPath != "" {
		cfg.History.Path = env.HistoryPath
	}
}
