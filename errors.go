package paper2pdf

import (
	"errors"

	"github.com/alnah/go-paper2pdf/internal/engine"
)

// Engine errors. Convert never returns these: any of them sends the paper to
// the layout renderer. They are exported for callers driving the engine
// directly and for log inspection.
var (
	ErrEngineUnavailable = engine.ErrEngineUnavailable
	ErrEngineFailed      = engine.ErrEngineFailed
	ErrEngineTimeout     = engine.ErrEngineTimeout
	ErrArtifactMissing   = engine.ErrArtifactMissing
)

// Sentinel errors for library operations.
var (
	ErrLayoutFailure = errors.New("layout rendering failed")
	ErrMarkup        = errors.New("LaTeX generation failed")

	// Submission validation errors.
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrFieldTooLong      = errors.New("field exceeds maximum length")
	ErrTooManyAuthors    = errors.New("too many authors")
	ErrTooManySections   = errors.New("too many sections")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
