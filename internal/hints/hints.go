// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-paper2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// goos is replaced in tests.
var goos = runtime.GOOS

// ForEngineMissing returns hints for a typesetting engine that cannot be
// found. Papers still render through the layout path, so the hint is advice,
// not a requirement.
func ForEngineMissing() string {
	var hints []string

	switch {
	case IsInContainer():
		hints = append(hints, "install texlive-latex-extra in the image")
	case goos == "windows":
		hints = append(hints, "install MiKTeX or TeX Live and add it to PATH")
	case goos == "darwin":
		hints = append(hints, "install MacTeX or BasicTeX")
	default:
		hints = append(hints, "install TeX Live (texlive-latex-extra)")
	}

	if os.Getenv("PAPER2PDF_ENGINE") == "" {
		hints = append(hints, "set PAPER2PDF_ENGINE to a pdflatex path")
	}
	hints = append(hints, "or use --no-engine to skip it")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for long papers, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-paper2pdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "/go-paper2pdf/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTemplateNotFound lists template names that can be used instead.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForInputFormat returns hints for submission files that cannot be parsed.
func ForInputFormat() string {
	return format("submissions are JSON (.json) or YAML (.yaml, .yml) using the API field names")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
