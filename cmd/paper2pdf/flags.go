package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-paper2pdf/internal/config"
)

// Sentinel errors for command-line handling.
var (
	ErrUsage = errors.New("invalid usage")

	// errHelpShown reports that -h printed usage; it is not a failure.
	errHelpShown = errors.New("help shown")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	logLevel  string
	logFormat string
	quiet     bool
	verbose   bool
}

// engineFlags holds flags that shape the Converter.
type engineFlags struct {
	binary       string
	timeout      time.Duration
	noEngine     bool
	scratchDir   string
	assetPath    string
	template     string
	uncompressed bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common    commonFlags
	engine    engineFlags
	addr      string
	workers   int
	rateLimit float64
	history   string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common       commonFlags
	engine       engineFlags
	output       string
	workers      int
	creationDate string
}

// texFlags holds all flags for the tex command.
type texFlags struct {
	common    commonFlags
	assetPath string
	template  string
	output    string
}

// historyFlags holds all flags for the history command.
type historyFlags struct {
	common  commonFlags
	path    string
	limit   int
	summary bool
	json    bool
}

// newFlagSet creates a FlagSet whose -h prints usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse runs fs.Parse and classifies its error.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, flag.ErrHelp):
		return errHelpShown
	default:
		return fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// addEngineFlags adds converter flags to a FlagSet.
func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.StringVar(&f.binary, "engine", "", "pdflatex name or path")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "engine run timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.noEngine, "no-engine", false, "skip pdflatex and always use the layout renderer")
	fs.StringVar(&f.scratchDir, "scratch-dir", "", "directory for engine scratch files")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom template directory")
	fs.StringVar(&f.template, "template", "", "LaTeX template name")
	fs.BoolVar(&f.uncompressed, "uncompressed", false, "write uncompressed layout PDFs")
}

// mergeCommonFlags applies explicitly set common flags to cfg.
func mergeCommonFlags(fs *flag.FlagSet, f *commonFlags, cfg *config.Config) {
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
}

// mergeEngineFlags applies explicitly set engine flags to cfg.
func mergeEngineFlags(fs *flag.FlagSet, f *engineFlags, cfg *config.Config) {
	if fs.Changed("engine") {
		cfg.Engine.Binary = f.binary
	}
	if fs.Changed("timeout") {
		cfg.Engine.Timeout = f.timeout
	}
	if f.noEngine {
		cfg.Engine.Disabled = true
	}
	if fs.Changed("scratch-dir") {
		cfg.Engine.ScratchRoot = f.scratchDir
	}
	if fs.Changed("asset-path") {
		cfg.Assets.BasePath = f.assetPath
	}
	if fs.Changed("template") {
		cfg.Assets.Template = f.template
	}
	if f.uncompressed {
		cfg.Layout.Uncompressed = true
	}
}

// cliLogLevel picks the log level for one-shot commands, which stay quiet
// unless asked otherwise.
func cliLogLevel(fs *flag.FlagSet, f *commonFlags) string {
	switch {
	case fs.Changed("log-level"):
		return f.logLevel
	case f.verbose:
		return "info"
	case f.quiet:
		return "error"
	default:
		return "warn"
	}
}

// parseServeFlags parses serve command flags. The returned FlagSet answers
// Changed and holds positional args.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, *flag.FlagSet, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (e.g., :8080)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent renders (0 = auto)")
	fs.Float64Var(&f.rateLimit, "rate-limit", 0, "requests per second on render routes (0 = unlimited)")
	fs.StringVar(&f.history, "history", "", "render journal database path")
	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// parseRenderFlags parses render command flags.
func parseRenderFlags(args []string, w io.Writer) (*renderFlags, *flag.FlagSet, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", w, printRenderUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renders (0 = auto)")
	fs.StringVar(&f.creationDate, "creation-date", "", "fixed PDF creation date (RFC 3339)")
	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// parseTeXFlags parses tex command flags.
func parseTeXFlags(args []string, w io.Writer) (*texFlags, *flag.FlagSet, error) {
	f := &texFlags{}
	fs := newFlagSet("tex", w, printTeXUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom template directory")
	fs.StringVar(&f.template, "template", "", "LaTeX template name")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// parseHistoryFlags parses history command flags.
func parseHistoryFlags(args []string, w io.Writer) (*historyFlags, *flag.FlagSet, error) {
	f := &historyFlags{}
	fs := newFlagSet("history", w, printHistoryUsage)

	fs.StringVar(&f.path, "history", "", "render journal database path")
	fs.IntVarP(&f.limit, "limit", "n", 0, "entries to show (0 = default)")
	fs.BoolVar(&f.summary, "summary", false, "show counts instead of entries")
	fs.BoolVar(&f.json, "json", false, "output JSON")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}
