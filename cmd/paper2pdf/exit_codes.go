package main

import (
	"context"
	"errors"
	"os"

	paper2pdf "github.com/alnah/go-paper2pdf"
	"github.com/alnah/go-paper2pdf/internal/assets"
	"github.com/alnah/go-paper2pdf/internal/config"
)

// Exit codes for paper2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0   // Successful run
	ExitGeneral  = 1   // General/unexpected error
	ExitUsage    = 2   // Invalid flags, config, or submission
	ExitIO       = 3   // File not found, permission denied
	ExitRender   = 4   // Layout renderer failed
	ExitCanceled = 130 // Interrupted by signal
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}

	// Render errors (exit 4)
	if errors.Is(err, paper2pdf.ErrLayoutFailure) ||
		errors.Is(err, paper2pdf.ErrMarkup) {
		return ExitRender
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrDecodeSubmission) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, paper2pdf.ErrInvalidSubmission) ||
		errors.Is(err, paper2pdf.ErrInvalidAssetPath) ||
		errors.Is(err, assets.ErrTemplateNotFound) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	return ExitGeneral
}
