// Package engine runs the external LaTeX typesetting engine in a scratch
// directory and collects the produced PDF.
package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-paper2pdf/internal/fileutil"
	"github.com/alnah/go-paper2pdf/internal/process"
)

// Sentinel errors for engine failures. Each one means the layout renderer
// should take over.
var (
	ErrEngineUnavailable = errors.New("typesetting engine not found")
	ErrEngineFailed      = errors.New("typesetting engine failed")
	ErrEngineTimeout     = errors.New("typesetting engine timed out")
	ErrArtifactMissing   = errors.New("typesetting engine produced no PDF")
)

// Defaults.
const (
	DefaultBinary  = "pdflatex"
	DefaultTimeout = 30 * time.Second

	SourceName   = "paper.tex"
	ArtifactName = "paper.pdf"

	// waitDelay bounds how long Wait blocks on pipes after the process group
	// has been killed.
	waitDelay = 2 * time.Second
	// maxDiagnostics caps the number of engine error lines kept in errors.
	maxDiagnostics = 5
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. The command runs in its
// own process group, which is killed as a whole when ctx ends.
type ExecRunner struct{}

// Run implements CommandRunner.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	process.SetGroup(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithBinary sets the engine executable, either a name resolved on PATH or a path.
func WithBinary(name string) Option {
	return func(c *Compiler) {
		if name != "" {
			c.binary = name
		}
	}
}

// WithTimeout bounds a single compilation.
func WithTimeout(d time.Duration) Option {
	return func(c *Compiler) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRunner replaces the command runner.
func WithRunner(r CommandRunner) Option {
	return func(c *Compiler) {
		if r != nil {
			c.runner = r
		}
	}
}

// WithLookPath replaces executable resolution.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(c *Compiler) {
		if fn != nil {
			c.lookPath = fn
		}
	}
}

// Compiler turns LaTeX source into a PDF with an external engine.
type Compiler struct {
	binary   string
	timeout  time.Duration
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// New creates a Compiler for pdflatex with the default timeout.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		binary:   DefaultBinary,
		timeout:  DefaultTimeout,
		runner:   &ExecRunner{},
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Binary returns the configured executable name.
func (c *Compiler) Binary() string {
	return c.binary
}

// Timeout returns the per-compilation limit.
func (c *Compiler) Timeout() time.Duration {
	return c.timeout
}

// Locate resolves the engine executable.
func (c *Compiler) Locate() (string, error) {
	path, err := c.lookPath(c.binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrEngineUnavailable, c.binary, err)
	}
	return path, nil
}

// Version returns the first line of the engine's --version output.
func (c *Compiler) Version(ctx context.Context) (string, error) {
	path, err := c.Locate()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stdout, stderr, err := c.runner.Run(ctx, "", path, "--version")
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: --version after %s", ErrEngineTimeout, c.timeout)
		}
		return "", fmt.Errorf("%w: --version: %v: %s", ErrEngineFailed, err, strings.TrimSpace(stderr))
	}
	line, _, _ := strings.Cut(strings.TrimSpace(stdout), "\n")
	return strings.TrimSpace(line), nil
}

// Compile writes source into dir, runs the engine there and returns the
// resulting PDF. dir must be a private scratch directory; the caller owns
// its removal. Success requires a zero exit status and the artifact on disk.
func (c *Compiler) Compile(ctx context.Context, dir string, source []byte) ([]byte, error) {
	texPath, err := fileutil.WriteFile(dir, SourceName, source)
	if err != nil {
		return nil, err
	}

	path, err := c.Locate()
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stdout, stderr, err := c.runner.Run(runCtx, dir, path, c.args(dir, texPath)...)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return nil, fmt.Errorf("%w after %s", ErrEngineTimeout, c.timeout)
		case errors.Is(err, exec.ErrNotFound):
			return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v%s", ErrEngineFailed, err, diagnostics(stdout, stderr))
	}

	return readArtifact(dir)
}

func (c *Compiler) args(dir, texPath string) []string {
	return []string{
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory=" + dir,
		texPath,
	}
}

// readArtifact loads the PDF, accepting an upper-case extension as well.
func readArtifact(dir string) ([]byte, error) {
	stem := strings.TrimSuffix(ArtifactName, filepath.Ext(ArtifactName))
	for _, name := range []string{ArtifactName, stem + ".PDF"} {
		path := filepath.Join(dir, name)
		if !fileutil.FileExists(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArtifactMissing, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, filepath.Join(dir, ArtifactName))
}

// diagnostics extracts LaTeX error lines ("! ...") from the engine output.
func diagnostics(stdout, stderr string) string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(stdout + "\n" + stderr))
	for sc.Scan() && len(lines) < maxDiagnostics {
		if line := strings.TrimSpace(sc.Text()); strings.HasPrefix(line, "!") {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return ": " + strings.Join(lines, "; ")
}
