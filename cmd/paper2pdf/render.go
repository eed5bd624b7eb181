package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	paper2pdf "github.com/alnah/go-paper2pdf"
	"github.com/alnah/go-paper2pdf/internal/hints"
	"github.com/alnah/go-paper2pdf/internal/yamlutil"
)

// Sentinel errors for the render and tex commands.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrInvalidExtension = errors.New("submission must have .json, .yaml or .yml extension")
	ErrDecodeSubmission = errors.New("cannot decode submission")
	ErrReadInput        = errors.New("failed to read submission")
	ErrWriteOutput      = errors.New("failed to write output")
)

const (
	filePermissions = 0o644
	dirPermissions  = 0o750
)

// submissionExts lists recognized submission file extensions.
var submissionExts = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// isConfigFile reports whether path is named like a paper2pdf config file.
// Directory scans skip these so a config kept next to submissions is not
// rendered.
func isConfigFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem == appName || stem == "."+appName
}

// FileToRender represents a single submission to process.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// RenderResult is the outcome of one file.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Renderer   string
	Duration   time.Duration
	Err        error
}

// Renderer is the part of *paper2pdf.Converter the render command needs.
type Renderer interface {
	Convert(ctx context.Context, sub paper2pdf.Submission) (*paper2pdf.Result, error)
}

// runRenderCmd renders submission files to PDF and returns an exit code.
func runRenderCmd(ctx context.Context, args []string, env *Environment) int {
	flags, fset, err := parseRenderFlags(args, env.Stdout)
	if err != nil {
		return report(env, err)
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return report(env, err)
	}
	mergeCommonFlags(fset, &flags.common, cfg)
	mergeEngineFlags(fset, &flags.engine, cfg)
	if err := cfg.Validate(); err != nil {
		return report(env, err)
	}

	if fset.NArg() == 0 {
		return report(env, fmt.Errorf("%w: give a submission file or directory", ErrNoInput))
	}

	var extra []paper2pdf.Option
	if flags.creationDate != "" {
		t, err := time.Parse(time.RFC3339, flags.creationDate)
		if err != nil {
			return report(env, fmt.Errorf("%w: --creation-date: %v", ErrUsage, err))
		}
		extra = append(extra, paper2pdf.WithCreationDate(t))
	}

	logger, err := newLogger(env.Stderr, cliLogLevel(fset, &flags.common), cfg.Log.Format)
	if err != nil {
		return report(env, err)
	}
	conv, err := newConverter(cfg, logger, extra...)
	if err != nil {
		return report(env, err)
	}

	var files []FileToRender
	for _, in := range fset.Args() {
		found, err := discoverFiles(in, flags.output)
		if err != nil {
			return report(env, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return report(env, fmt.Errorf("%w: no .json, .yaml or .yml files found", ErrNoInput))
	}
	if len(files) > 1 && strings.HasSuffix(flags.output, ".pdf") {
		return report(env, fmt.Errorf("%w: --output %s names one file but %d submissions were found", ErrUsage, flags.output, len(files)))
	}

	workers := flags.workers
	if workers == 0 {
		workers = cfg.Server.Workers
	}
	results := renderBatch(ctx, conv, files, paper2pdf.ResolveWorkers(workers))

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed == 0 {
		return ExitSuccess
	}
	for _, r := range results {
		if r.Err != nil {
			return exitCodeFor(r.Err)
		}
	}
	return ExitGeneral
}

// renderBatch renders files with at most workers in flight. Results keep
// the order of files.
func renderBatch(ctx context.Context, conv Renderer, files []FileToRender, workers int) []RenderResult {
	results := make([]RenderResult, len(files))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			results[i] = renderFile(ctx, conv, f)
			return nil
		})
	}
	_ = g.Wait() // renderFile records errors per result

	return results
}

// renderFile decodes, converts and writes one submission.
func renderFile(ctx context.Context, conv Renderer, f FileToRender) RenderResult {
	start := time.Now()
	result := RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	done := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := ctx.Err(); err != nil {
		return done(err)
	}

	sub, err := readSubmission(f.InputPath)
	if err != nil {
		return done(err)
	}

	res, err := conv.Convert(ctx, sub)
	if err != nil {
		return done(err)
	}
	result.Renderer = res.Renderer

	if err := writeOutput(f.OutputPath, res.PDF); err != nil {
		return done(err)
	}
	return done(nil)
}

// readSubmission loads a submission file.
func readSubmission(path string) (paper2pdf.Submission, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return paper2pdf.Submission{}, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return decodeSubmission(path, data)
}

// decodeSubmission picks the format from the file extension. Unknown fields
// are rejected so that typos in field names surface.
func decodeSubmission(path string, data []byte) (paper2pdf.Submission, error) {
	var sub paper2pdf.Submission

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sub); err != nil {
			return sub, fmt.Errorf("%w: %s: %v%s", ErrDecodeSubmission, path, err, hints.ForInputFormat())
		}
	case ".yaml", ".yml":
		if err := yamlutil.Decode(data, &sub, yamlutil.Strict()); err != nil {
			return sub, fmt.Errorf("%w: %s: %v%s", ErrDecodeSubmission, path, err, hints.ForInputFormat())
		}
	default:
		return sub, fmt.Errorf("%w: got %q%s", ErrInvalidExtension, filepath.Ext(path), hints.ForInputFormat())
	}
	return sub, nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
		}
	}
	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// discoverFiles finds all submissions to render under inputPath.
func discoverFiles(inputPath, outputDir string) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	if !info.IsDir() {
		if err := validateSubmissionExtension(inputPath); err != nil {
			return nil, err
		}
		return []FileToRender{{InputPath: inputPath, OutputPath: resolveOutputPath(inputPath, outputDir, "")}}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !submissionExts[strings.ToLower(filepath.Ext(path))] || isConfigFile(path) {
			return nil
		}
		files = append(files, FileToRender{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, inputPath),
		})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the PDF output path for a submission.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	}

	if baseInputDir == "" && strings.HasSuffix(outputDir, ".pdf") {
		return outputDir
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+".pdf")
		}
	}

	return filepath.Join(outputDir, base+".pdf")
}

// validateSubmissionExtension checks the file extension.
func validateSubmissionExtension(path string) error {
	ext := filepath.Ext(path)
	if !submissionExts[strings.ToLower(ext)] {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed renders.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Layout    int // succeeded through the layout renderer
}

// countResults tallies results.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Renderer == paper2pdf.RendererLayout:
			summary.Succeeded++
			summary.Layout++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs render results and returns the failure count.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s [%s] (%v)\n", r.InputPath, r.OutputPath, r.Renderer, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}
	if verbose && summary.Layout > 0 {
		fmt.Fprintf(env.Stdout, "%d rendered without pdflatex\n", summary.Layout)
	}

	return summary.Failed
}
