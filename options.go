package paper2pdf

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-paper2pdf/internal/engine"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds settings resolved in NewConverter.
type converterConfig struct {
	engineBinary  string
	engineTimeout time.Duration
	engineOff     bool
	scratchRoot   string
	assetPath     string
	templateName  string
	creationDate  time.Time
	uncompressed  bool
}

// WithTimeout bounds a single engine run. The layout renderer is not bounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Converter) {
		c.cfg.engineTimeout = d
	}
}

// WithEngineBinary sets the typesetting engine executable (name or path).
func WithEngineBinary(name string) Option {
	return func(c *Converter) {
		c.cfg.engineBinary = name
	}
}

// WithoutEngine skips the typesetting engine so every conversion uses the
// layout renderer.
func WithoutEngine() Option {
	return func(c *Converter) {
		c.cfg.engineOff = true
	}
}

// WithScratchRoot sets the directory under which per-request scratch
// directories are created. Defaults to the system temp directory.
func WithScratchRoot(dir string) Option {
	return func(c *Converter) {
		c.cfg.scratchRoot = dir
	}
}

// WithAssetPath loads LaTeX templates from dir/templates, falling back to the
// embedded templates for names not found there.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithTemplate selects the LaTeX template by name.
func WithTemplate(name string) Option {
	return func(c *Converter) {
		c.cfg.templateName = name
	}
}

// WithCreationDate fixes the PDF timestamps of layout output.
func WithCreationDate(t time.Time) Option {
	return func(c *Converter) {
		c.cfg.creationDate = t
	}
}

// WithCompression toggles stream compression in layout output. Enabled by
// default.
func WithCompression(on bool) Option {
	return func(c *Converter) {
		c.cfg.uncompressed = !on
	}
}

// WithLogger sets the logger used for path decisions.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) {
		c.log = l
	}
}

// WithCompiler injects a preconfigured engine compiler, mainly for tests.
func WithCompiler(comp *engine.Compiler) Option {
	return func(c *Converter) {
		c.compiler = comp
	}
}
