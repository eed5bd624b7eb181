package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-paper2pdf/internal/history"
)

// seedJournal creates a journal with two entries and returns its path.
func seedJournal(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("history.Open() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []history.Entry{
		{RequestID: "r1", Time: base, Title: "First Paper", Authors: 2, Renderer: "engine", Outcome: history.OutcomeSuccess, Bytes: 1200, Duration: 900 * time.Millisecond},
		{RequestID: "r2", Time: base.Add(time.Minute), Title: "Second Paper", Authors: 1, Renderer: "layout", Outcome: history.OutcomeSuccess, Bytes: 800, Duration: 40 * time.Millisecond},
		{RequestID: "r3", Time: base.Add(2 * time.Minute), Title: "", Outcome: history.OutcomeInvalid},
	}
	for _, e := range entries {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	return path
}

func TestHistoryCommand(t *testing.T) {
	t.Parallel()

	path := seedJournal(t)

	t.Run("table newest first", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv()
		code := runMain(context.Background(), []string{"paper2pdf", "history", "--history", path}, env)
		if code != ExitSuccess {
			t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
		}

		out := stdout.String()
		if !strings.HasPrefix(out, "TIME") {
			t.Errorf("output should start with the header:\n%s", out)
		}
		second, first := strings.Index(out, "Second Paper"), strings.Index(out, "First Paper")
		if second < 0 || first < 0 || second > first {
			t.Errorf("want Second Paper listed before First Paper:\n%s", out)
		}
	})

	t.Run("limit and json", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv()
		code := runMain(context.Background(), []string{"paper2pdf", "history", "--history", path, "-n", "1", "--json"}, env)
		if code != ExitSuccess {
			t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
		}

		var got []history.Entry
		if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 1 || got[0].RequestID != "r3" {
			t.Errorf("got %+v, want only r3", got)
		}
	})

	t.Run("summary", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv()
		code := runMain(context.Background(), []string{"paper2pdf", "history", "--history", path, "--summary"}, env)
		if code != ExitSuccess {
			t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
		}

		out := stdout.String()
		for _, want := range []string{"Total renders: 3", "engine", "layout", "invalid"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("missing journal", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		code := runMain(context.Background(), []string{"paper2pdf", "history", "--history", filepath.Join(t.TempDir(), "none.db")}, env)
		if code != ExitIO {
			t.Errorf("runMain() = %d, want %d", code, ExitIO)
		}
	})

	t.Run("limit out of range", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		code := runMain(context.Background(), []string{"paper2pdf", "history", "--history", path, "-n", "9999"}, env)
		if code != ExitUsage {
			t.Errorf("runMain() = %d, want %d", code, ExitUsage)
		}
	})
}

func TestPrintEntries_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printEntries(&buf, nil)
	if buf.String() != "No renders recorded\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("Über lange Titel", 5); got != "Über…" {
		t.Errorf("truncate() = %q, want %q", got, "Über…")
	}
}
