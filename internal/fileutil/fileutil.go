// Package fileutil provides scratch directory and path helpers.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrNameEmpty         = errors.New("file name cannot be empty")
	ErrNamePathTraversal = errors.New("file name contains path separator or null byte")
)

const scratchPattern = "paper2pdf-*"

// NewScratchDir creates a private working directory under root, or under the
// system temp directory when root is empty. The cleanup function removes the
// directory and everything in it; calling it more than once is safe.
func NewScratchDir(root string) (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp(root, scratchPattern)
	if err != nil {
		return "", nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

// WriteFile writes data to dir/name with owner-only permissions and returns
// the full path.
func WriteFile(dir, name string, data []byte) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

// ValidateName checks that name is a bare file name.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if strings.ContainsAny(name, "/\\\x00") || name == "." || name == ".." {
		return ErrNamePathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "default" -> false (name)
//   - "./paper2pdf.yaml" -> true (relative path)
//   - "/etc/paper2pdf/server.toml" -> true (absolute)
//   - "C:\config\server.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsDirWritable reports whether a file can be created in dir.
func IsDirWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".paper2pdf-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
