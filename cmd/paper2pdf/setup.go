package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	paper2pdf "github.com/alnah/go-paper2pdf"
	"github.com/alnah/go-paper2pdf/internal/assets"
	"github.com/alnah/go-paper2pdf/internal/config"
	"github.com/alnah/go-paper2pdf/internal/fileutil"
	"github.com/alnah/go-paper2pdf/internal/hints"
	"github.com/alnah/go-paper2pdf/internal/observability"
)

// appName tags log lines.
const appName = "paper2pdf"

// loadConfig builds the effective configuration before flags are merged:
// defaults, then the config file (--config or PAPER2PDF_CONFIG), then
// PAPER2PDF_* variables.
func loadConfig(common *commonFlags, env *Environment) (*config.Config, error) {
	ev := loadEnvConfig(env.Stderr)

	name := common.config
	if name == "" {
		name = ev.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(configCandidates(name)))
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(ev, cfg)
	return cfg, nil
}

// configCandidates lists where a named config is looked up, for hints.
func configCandidates(name string) []string {
	if fileutil.IsFilePath(name) {
		return nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "go-paper2pdf", name+".yaml")}
}

// newLogger builds the process logger writing to w.
func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	logger, err := observability.NewLogger(w, level, format, appName)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("%w: %v", config.ErrInvalidValue, err)
	}
	return logger, nil
}

// newConverter creates a Converter from cfg.
func newConverter(cfg *config.Config, logger zerolog.Logger, extra ...paper2pdf.Option) (*paper2pdf.Converter, error) {
	opts := []paper2pdf.Option{
		paper2pdf.WithLogger(logger),
		paper2pdf.WithEngineBinary(cfg.Engine.Binary),
		paper2pdf.WithTimeout(cfg.Engine.Timeout),
		paper2pdf.WithScratchRoot(cfg.Engine.ScratchRoot),
		paper2pdf.WithCompression(!cfg.Layout.Uncompressed),
	}
	if cfg.Engine.Disabled {
		opts = append(opts, paper2pdf.WithoutEngine())
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, paper2pdf.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Assets.Template != "" {
		opts = append(opts, paper2pdf.WithTemplate(cfg.Assets.Template))
	}
	opts = append(opts, extra...)

	conv, err := paper2pdf.NewConverter(opts...)
	if err != nil {
		if errors.Is(err, assets.ErrTemplateNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForTemplateNotFound(assets.NewEmbeddedLoader().TemplateNames()))
		}
		return nil, err
	}
	return conv, nil
}
