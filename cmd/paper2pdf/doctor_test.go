package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-paper2pdf/internal/config"
	"github.com/alnah/go-paper2pdf/internal/engine"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake engine
// ---------------------------------------------------------------------------

type versionRunner struct {
	out string
	err error
}

func (r versionRunner) Run(_ context.Context, _, _ string, _ ...string) (string, string, error) {
	return r.out, "", r.err
}

func foundAt(path string) func(string) (string, error) {
	return func(string) (string, error) { return path, nil }
}

func notFound(name string) (string, error) {
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// ---------------------------------------------------------------------------
// TestRunDoctor - Diagnostic checks
// ---------------------------------------------------------------------------

func TestRunDoctor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		mutate      func(c *config.Config)
		lookPath    func(string) (string, error)
		runner      engine.CommandRunner
		wantStatus  string
		wantFound   bool
		wantVersion string
	}{
		{
			name:        "engine found",
			lookPath:    foundAt("/usr/bin/pdflatex"),
			runner:      versionRunner{out: "pdfTeX 3.141592653-2.6-1.40.25 (TeX Live 2023)\nkpathsea version 6.3.5\n"},
			wantStatus:  "ready",
			wantFound:   true,
			wantVersion: "pdfTeX 3.141592653-2.6-1.40.25 (TeX Live 2023)",
		},
		{
			name:       "engine missing is a warning",
			lookPath:   notFound,
			runner:     versionRunner{},
			wantStatus: "warnings",
		},
		{
			name:       "version failure is a warning",
			lookPath:   foundAt("/usr/bin/pdflatex"),
			runner:     versionRunner{err: errors.New("exit status 1")},
			wantStatus: "warnings",
			wantFound:  true,
		},
		{
			name:       "engine disabled skips lookup",
			mutate:     func(c *config.Config) { c.Engine.Disabled = true },
			lookPath:   notFound,
			runner:     versionRunner{},
			wantStatus: "ready",
		},
		{
			name:        "unknown template is an error",
			mutate:      func(c *config.Config) { c.Assets.Template = "acm" },
			lookPath:    foundAt("/usr/bin/pdflatex"),
			runner:      versionRunner{out: "pdfTeX"},
			wantStatus:  "errors",
			wantFound:   true,
			wantVersion: "pdfTeX",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			comp := engine.New(engine.WithLookPath(tt.lookPath), engine.WithRunner(tt.runner))

			result := runDoctor(context.Background(), cfg, comp)

			if result.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q (warnings %v, errors %v)", result.Status, tt.wantStatus, result.Warnings, result.Errors)
			}
			if result.Engine.Found != tt.wantFound {
				t.Errorf("Engine.Found = %v, want %v", result.Engine.Found, tt.wantFound)
			}
			if result.Engine.Version != tt.wantVersion {
				t.Errorf("Engine.Version = %q, want %q", result.Engine.Version, tt.wantVersion)
			}
		})
	}
}

func TestRunDoctor_ScratchRoot(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Engine.Disabled = true
	cfg.Engine.ScratchRoot = filepath.Join(t.TempDir(), "missing")

	result := runDoctor(context.Background(), cfg, engine.New())

	if result.System.ScratchWritable {
		t.Error("ScratchWritable = true for a missing directory")
	}
	if result.Status != "warnings" {
		t.Errorf("Status = %q, want warnings", result.Status)
	}
}

// ---------------------------------------------------------------------------
// TestPrintDoctorResult - Human-readable output
// ---------------------------------------------------------------------------

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	r := &doctorResult{
		Status:    "warnings",
		Engine:    engineInfo{Binary: "pdflatex"},
		Templates: templateInfo{Selected: "ieee", Embedded: []string{"ieee"}, Found: true},
		Env:       envInfo{OS: "linux", Arch: "amd64", Container: true, ContainerHint: "/.dockerenv"},
		System:    systemInfo{TempWritable: true, ScratchRoot: "/tmp", ScratchWritable: true},
		Warnings:  []string{"pdflatex not found"},
	}

	var buf bytes.Buffer
	printDoctorResult(&buf, r)
	out := buf.String()

	for _, want := range []string{
		"[WARN] pdflatex not found (layout renderer will be used)",
		"[OK] Template: ieee",
		"[OK] Platform: linux/amd64",
		"[OK] Container: detected (/.dockerenv)",
		"[OK] Scratch directory: /tmp",
		"Status: Ready with warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// ---------------------------------------------------------------------------
// TestDoctorCommand - JSON output through runMain
// ---------------------------------------------------------------------------

func TestDoctorCommand_JSON(t *testing.T) {
	t.Parallel()

	env, stdout, stderr := testEnv()
	code := runMain(context.Background(), []string{"paper2pdf", "doctor", "--json", "--no-engine"}, env)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}

	var got doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if !got.Engine.Disabled {
		t.Error("engine.disabled = false, want true")
	}
	if !got.Templates.Found || got.Templates.Selected != "ieee" {
		t.Errorf("templates = %+v", got.Templates)
	}
}
