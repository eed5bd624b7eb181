package paper2pdf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-paper2pdf/internal/assets"
	"github.com/alnah/go-paper2pdf/internal/document"
	"github.com/alnah/go-paper2pdf/internal/engine"
	"github.com/alnah/go-paper2pdf/internal/fileutil"
	"github.com/alnah/go-paper2pdf/internal/layout"
	"github.com/alnah/go-paper2pdf/internal/markup"
)

// Compile-time interface implementation checks.
var (
	_ document.Renderer = (*markup.Renderer)(nil)
	_ document.Renderer = (*layout.Renderer)(nil)
)

// Converter turns submissions into PDFs. It first renders LaTeX and runs the
// typesetting engine; on any engine-side failure it renders the same paper
// with the in-process layout renderer. A Converter holds no per-request state
// and is safe for concurrent use.
type Converter struct {
	cfg      converterConfig
	log      zerolog.Logger
	markup   document.Renderer
	layout   document.Renderer
	compiler *engine.Compiler
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithoutEngine, WithAssetPath).
// Returns error if the template cannot be loaded or parsed.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			engineBinary:  engine.DefaultBinary,
			engineTimeout: engine.DefaultTimeout,
			templateName:  assets.DefaultTemplateName,
		},
		log: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	var loader assets.TemplateLoader = assets.NewEmbeddedLoader()
	if c.cfg.assetPath != "" {
		resolver, err := assets.NewTemplateResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		loader = resolver
	}

	mr, err := markup.New(loader, c.cfg.templateName)
	if err != nil {
		return nil, fmt.Errorf("initializing LaTeX renderer: %w", err)
	}
	c.markup = mr

	var layoutOpts []layout.Option
	if !c.cfg.creationDate.IsZero() {
		layoutOpts = append(layoutOpts, layout.WithCreationDate(c.cfg.creationDate))
	}
	if c.cfg.uncompressed {
		layoutOpts = append(layoutOpts, layout.WithCompression(false))
	}
	c.layout = layout.New(layoutOpts...)

	// Create compiler if not injected (e.g., by tests)
	if c.compiler == nil {
		c.compiler = engine.New(
			engine.WithBinary(c.cfg.engineBinary),
			engine.WithTimeout(c.cfg.engineTimeout),
		)
	}

	return c, nil
}

// Convert validates the submission and renders it to PDF.
// Engine failures are logged and absorbed by the fallback; only validation
// errors, layout failures (ErrLayoutFailure) and context errors are returned.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, sub Submission) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := sub.Validate(); err != nil {
		return nil, err
	}
	p := toPaper(&sub)

	if !c.cfg.engineOff {
		start := time.Now()
		pdf, err := c.renderWithEngine(ctx, p)
		if err == nil {
			c.log.Info().
				Str("renderer", RendererEngine).
				Dur("duration", time.Since(start)).
				Int("bytes", len(pdf)).
				Msg("paper rendered")
			return &Result{PDF: pdf, Renderer: RendererEngine}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Warn().
			Err(err).
			Str("reason", engineFailureReason(err)).
			Dur("duration", time.Since(start)).
			Msg("engine path failed, using layout renderer")
	}

	start := time.Now()
	pdf, err := c.layout.Render(ctx, p)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Error().Err(err).Msg("layout renderer failed")
		return nil, fmt.Errorf("%w: %w", ErrLayoutFailure, err)
	}

	c.log.Info().
		Str("renderer", RendererLayout).
		Dur("duration", time.Since(start)).
		Int("bytes", len(pdf)).
		Msg("paper rendered")
	return &Result{PDF: pdf, Renderer: RendererLayout}, nil
}

// Markup validates the submission and returns its LaTeX source without
// running the engine.
func (c *Converter) Markup(ctx context.Context, sub Submission) ([]byte, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	src, err := c.markup.Render(ctx, toPaper(&sub))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarkup, err)
	}
	return src, nil
}

// Compiler returns the engine compiler, for diagnostics.
func (c *Converter) Compiler() *engine.Compiler {
	return c.compiler
}

// EngineEnabled reports whether Convert tries the engine first.
func (c *Converter) EngineEnabled() bool {
	return !c.cfg.engineOff
}

// renderWithEngine runs the primary path in a scratch directory that is
// removed on every exit path.
func (c *Converter) renderWithEngine(ctx context.Context, p *document.Paper) ([]byte, error) {
	src, err := c.markup.Render(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarkup, err)
	}

	dir, cleanup, err := fileutil.NewScratchDir(c.cfg.scratchRoot)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.compiler.Compile(ctx, dir, src)
}

// engineFailureReason classifies an engine error for logs.
func engineFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrEngineUnavailable):
		return "unavailable"
	case errors.Is(err, ErrEngineTimeout):
		return "timeout"
	case errors.Is(err, ErrArtifactMissing):
		return "artifact_missing"
	case errors.Is(err, ErrEngineFailed):
		return "failed"
	case errors.Is(err, ErrMarkup):
		return "markup"
	default:
		return "staging"
	}
}
