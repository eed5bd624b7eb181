package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/alnah/go-paper2pdf/internal/fileutil"
	"github.com/alnah/go-paper2pdf/internal/history"
)

// runHistory prints the render journal.
func runHistory(ctx context.Context, args []string, env *Environment) error {
	flags, fs, err := parseHistoryFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	if fs.Changed("history") {
		cfg.History.Path = flags.path
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("%w: no journal configured (use --history or PAPER2PDF_HISTORY)", ErrUsage)
	}
	if flags.limit < 0 || flags.limit > history.MaxListLimit {
		return fmt.Errorf("%w: --limit %d (must be 0-%d)", ErrUsage, flags.limit, history.MaxListLimit)
	}
	if !fileutil.FileExists(cfg.History.Path) {
		return fmt.Errorf("%w: journal %s does not exist", ErrReadInput, cfg.History.Path)
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if flags.summary {
		stats, err := store.Summary(ctx)
		if err != nil {
			return err
		}
		if flags.json {
			return writeJSON(env.Stdout, stats)
		}
		printSummary(env.Stdout, stats)
		return nil
	}

	entries, err := store.List(ctx, flags.limit)
	if err != nil {
		return err
	}
	if flags.json {
		if entries == nil {
			entries = []history.Entry{}
		}
		return writeJSON(env.Stdout, entries)
	}
	printEntries(env.Stdout, entries)
	return nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printEntries writes entries as an aligned table.
func printEntries(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No renders recorded")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOUTCOME\tRENDERER\tDURATION\tSIZE\tTITLE")
	for _, e := range entries {
		renderer := e.Renderer
		if renderer == "" {
			renderer = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			e.Time.Local().Format(time.DateTime), e.Outcome, renderer,
			e.Duration.Round(time.Millisecond), e.Bytes, truncate(e.Title, 60))
	}
	_ = tw.Flush()
}

// printSummary writes counts per renderer and per outcome.
func printSummary(w io.Writer, st *history.Stats) {
	fmt.Fprintf(w, "Total renders: %d\n", st.Total)
	printCounts(w, "By renderer", st.ByRenderer)
	printCounts(w, "By outcome", st.ByOutcome)
}

func printCounts(w io.Writer, heading string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", heading)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-10s %d\n", k, counts[k])
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
