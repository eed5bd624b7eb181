package fileutil_test

// Notes:
// - NewScratchDir failure is exercised with a root that does not exist rather
//   than by revoking permissions, which behaves differently when run as root.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-paper2pdf/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestNewScratchDir - Scratch directory lifecycle
// ---------------------------------------------------------------------------

func TestNewScratchDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	dir, cleanup, err := fileutil.NewScratchDir(root)
	if err != nil {
		t.Fatalf("NewScratchDir() error = %v", err)
	}

	if filepath.Dir(dir) != root {
		t.Errorf("scratch dir %q not created under %q", dir, root)
	}
	if _, err := fileutil.WriteFile(dir, "paper.tex", []byte("x")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cleanup()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("scratch dir still exists after cleanup: %v", err)
	}

	// Second call is a no-op.
	cleanup()
}

func TestNewScratchDir_Unique(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	a, cleanA, err := fileutil.NewScratchDir(root)
	if err != nil {
		t.Fatalf("NewScratchDir() error = %v", err)
	}
	defer cleanA()
	b, cleanB, err := fileutil.NewScratchDir(root)
	if err != nil {
		t.Fatalf("NewScratchDir() error = %v", err)
	}
	defer cleanB()

	if a == b {
		t.Errorf("two scratch dirs share the path %q", a)
	}
}

func TestNewScratchDir_MissingRoot(t *testing.T) {
	t.Parallel()

	_, _, err := fileutil.NewScratchDir(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("NewScratchDir() expected error for missing root")
	}
}

// ---------------------------------------------------------------------------
// TestWriteFile - Writing into a scratch directory
// ---------------------------------------------------------------------------

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	path, err := fileutil.WriteFile(dir, "paper.tex", []byte("content"))
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(got) != "content" {
		t.Errorf("file content = %q, want %q", got, "content")
	}
}

func TestWriteFile_InvalidName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fileName string
		wantErr  error
	}{
		{"empty", "", fileutil.ErrNameEmpty},
		{"forward slash", "../paper.tex", fileutil.ErrNamePathTraversal},
		{"backslash", "..\\paper.tex", fileutil.ErrNamePathTraversal},
		{"null byte", "paper\x00.tex", fileutil.ErrNamePathTraversal},
		{"parent", "..", fileutil.ErrNamePathTraversal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := fileutil.WriteFile(t.TempDir(), tt.fileName, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("WriteFile(%q) error = %v, want %v", tt.fileName, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - File existence check
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "exists.pdf")
	if err := os.WriteFile(file, []byte("%PDF"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", file, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "missing.pdf"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - File path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"default", false},
		{"my-config", false},
		{"./paper2pdf.yaml", true},
		{"/etc/paper2pdf/server.toml", true},
		{"C:\\config\\server.yaml", true},
		{"sub/dir", true},
	}

	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestIsDirWritable - Write check
// ---------------------------------------------------------------------------

func TestIsDirWritable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := fileutil.IsDirWritable(dir); err != nil {
		t.Errorf("IsDirWritable(%q) error = %v", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("write check left %d entries behind", len(entries))
	}

	if err := fileutil.IsDirWritable(filepath.Join(dir, "missing")); err == nil {
		t.Error("IsDirWritable() expected error for missing directory")
	}
}
