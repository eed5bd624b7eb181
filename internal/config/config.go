package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alnah/go-paper2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// appDir is the directory under os.UserConfigDir searched for named configs.
const appDir = "go-paper2pdf"

// Limits enforced by Validate.
const (
	MaxPathLength   = 4096
	MaxAddrLength   = 255
	MaxOrigins      = 64
	MaxBodyLimit    = 64 << 20
	MaxWorkerLimit  = 64
	MaxEngineLimit  = 10 * time.Minute
	MinEngineLimit  = time.Second
	defaultBodySize = 2 << 20
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds all runtime configuration for the service and the CLI.
type Config struct {
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Engine  EngineConfig  `yaml:"engine" toml:"engine"`
	Layout  LayoutConfig  `yaml:"layout" toml:"layout"`
	Log     LogConfig     `yaml:"log" toml:"log"`
	Assets  AssetsConfig  `yaml:"assets" toml:"assets"`
	History HistoryConfig `yaml:"history" toml:"history"`
}

// ServerConfig defines the HTTP listener and its admission limits.
type ServerConfig struct {
	Addr         string        `yaml:"addr" toml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout" toml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout" toml:"writeTimeout"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes" toml:"maxBodyBytes"`
	RateLimit    float64       `yaml:"rateLimit" toml:"rateLimit"` // requests per second, 0 = unlimited
	Burst        int           `yaml:"burst" toml:"burst"`
	Workers      int           `yaml:"workers" toml:"workers"` // concurrent renders, 0 = auto
	CORSOrigins  []string      `yaml:"corsOrigins" toml:"corsOrigins"`
}

// EngineConfig defines the typesetting engine invocation.
type EngineConfig struct {
	Binary      string        `yaml:"binary" toml:"binary"`
	Timeout     time.Duration `yaml:"timeout" toml:"timeout"`
	Disabled    bool          `yaml:"disabled" toml:"disabled"`
	ScratchRoot string        `yaml:"scratchRoot" toml:"scratchRoot"` // empty = system temp dir
}

// LayoutConfig defines options of the in-process renderer.
type LayoutConfig struct {
	Uncompressed bool `yaml:"uncompressed" toml:"uncompressed"`
}

// LogConfig defines logger output.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // zerolog level name
	Format string `yaml:"format" toml:"format"` // "console" or "json"
}

// AssetsConfig defines template loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath" toml:"basePath"` // Empty = use embedded templates
	Template string `yaml:"template" toml:"template"`
}

// HistoryConfig defines the render journal. An empty path disables it.
type HistoryConfig struct {
	Path      string        `yaml:"path" toml:"path"`
	Retention time.Duration `yaml:"retention" toml:"retention"` // 0 = keep forever
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			MaxBodyBytes: defaultBodySize,
			RateLimit:    10,
			Burst:        20,
			CORSOrigins:  []string{"*"},
		},
		Engine: EngineConfig{
			Binary:  "pdflatex",
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: FormatConsole,
		},
		Assets: AssetsConfig{
			Template: "ieee",
		},
	}
}

// Validate checks ranges and lengths.
// Called automatically by LoadConfig, but available for callers that build a
// Config manually or after applying overrides.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalidValue)
	}
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("%w: server timeouts must not be negative", ErrInvalidValue)
	}
	if c.Server.MaxBodyBytes <= 0 || c.Server.MaxBodyBytes > MaxBodyLimit {
		return fmt.Errorf("%w: server.maxBodyBytes %d (must be 1-%d)", ErrInvalidValue, c.Server.MaxBodyBytes, MaxBodyLimit)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("%w: server.rateLimit %g is negative", ErrInvalidValue, c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return fmt.Errorf("%w: server.burst must be at least 1 when rateLimit is set", ErrInvalidValue)
	}
	if c.Server.Workers < 0 || c.Server.Workers > MaxWorkerLimit {
		return fmt.Errorf("%w: server.workers %d (must be 0-%d)", ErrInvalidValue, c.Server.Workers, MaxWorkerLimit)
	}
	if len(c.Server.CORSOrigins) > MaxOrigins {
		return fmt.Errorf("%w: server.corsOrigins has %d entries (max %d)", ErrInvalidValue, len(c.Server.CORSOrigins), MaxOrigins)
	}
	for _, o := range c.Server.CORSOrigins {
		if err := validateOrigin(o); err != nil {
			return err
		}
	}

	if c.Engine.Binary == "" {
		return fmt.Errorf("%w: engine.binary is empty", ErrInvalidValue)
	}
	if c.Engine.Timeout < MinEngineLimit || c.Engine.Timeout > MaxEngineLimit {
		return fmt.Errorf("%w: engine.timeout %s (must be %s-%s)", ErrInvalidValue, c.Engine.Timeout, MinEngineLimit, MaxEngineLimit)
	}

	if c.History.Retention < 0 {
		return fmt.Errorf("%w: history.retention must not be negative", ErrInvalidValue)
	}

	switch c.Log.Format {
	case FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("%w: log.format %q (must be %q or %q)", ErrInvalidValue, c.Log.Format, FormatConsole, FormatJSON)
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.Log.Level)
	}

	paths := []struct{ name, value string }{
		{"engine.binary", c.Engine.Binary},
		{"engine.scratchRoot", c.Engine.ScratchRoot},
		{"assets.basePath", c.Assets.BasePath},
		{"assets.template", c.Assets.Template},
		{"history.path", c.History.Path},
	}
	for _, p := range paths {
		if err := validateFieldLength(p.name, p.value, MaxPathLength); err != nil {
			return err
		}
	}

	return nil
}

// validateOrigin accepts "*", blanks and http(s) origins.
func validateOrigin(origin string) error {
	o := strings.TrimSpace(origin)
	if o == "" || o == "*" || strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://") {
		return nil
	}
	return fmt.Errorf("%w: server.corsOrigins entry %q (must start with http:// or https://)", ErrInvalidValue, origin)
}

// validateFieldLength returns an error if value exceeds maxLength.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it searches for <name>.yaml, <name>.yml and <name>.toml in the
// current directory, then in the user config directory.
// Values absent from the file keep their defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decode(configPath, data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decode picks the format from the file extension. Unknown keys are rejected
// in both formats.
func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return fmt.Errorf("unknown fields: %s", strings.Join(keys, ", "))
		}
		return nil
	}
	return yamlutil.UnmarshalStrict(data, cfg)
}

// isFilePath returns true if s looks like a file path rather than a config name.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml", ".toml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDir, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
