package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: paper2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the HTTP API")
	fmt.Fprintln(w, "  render     Render submission files to PDF")
	fmt.Fprintln(w, "  tex        Print the LaTeX source of a submission")
	fmt.Fprintln(w, "  doctor     Check pdflatex, templates and scratch space")
	fmt.Fprintln(w, "  history    Show the render journal")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'paper2pdf help <command>' for details on a specific command.")
}

// printCommonFlags prints flags shared by most commands.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --log-level <s>       Log level: debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      Log format: console, json")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed progress")
}

// printEngineFlags prints the converter flags.
func printEngineFlags(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --engine <path>       pdflatex name or path")
	fmt.Fprintln(w, "  -t, --timeout <d>         Engine run timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --no-engine           Always use the layout renderer")
	fmt.Fprintln(w, "      --scratch-dir <dir>   Directory for engine scratch files")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom template directory")
	fmt.Fprintln(w, "      --template <name>     LaTeX template name")
	fmt.Fprintln(w, "      --uncompressed        Write uncompressed layout PDFs")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: paper2pdf serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP API until interrupted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Routes:")
	fmt.Fprintln(w, "  GET  /                       Liveness message")
	fmt.Fprintln(w, "  GET  /health                 Health check")
	fmt.Fprintln(w, "  GET  /metrics                Prometheus metrics")
	fmt.Fprintln(w, "  POST /api/generate-pdf       Submission JSON -> PDF")
	fmt.Fprintln(w, "  POST /api/generate-tex       Submission JSON -> LaTeX")
	fmt.Fprintln(w, "  GET  /api/renders            Recent renders (with --history)")
	fmt.Fprintln(w, "  GET  /api/renders/summary    Render counts (with --history)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent renders (0 = auto)")
	fmt.Fprintln(w, "      --rate-limit <r>      Requests per second (0 = unlimited)")
	fmt.Fprintln(w, "      --history <path>      Render journal database (SQLite)")
	fmt.Fprintln(w)
	printEngineFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: paper2pdf render <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render submissions to PDF. pdflatex is tried first; the layout")
	fmt.Fprintln(w, "renderer is used when it is missing or fails.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Submission file (.json, .yaml, .yml) or directory")
	fmt.Fprintln(w, "           Directory scans skip paper2pdf.yaml/.yml config files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renders (0 = auto)")
	fmt.Fprintln(w, "      --creation-date <t>   Fixed PDF creation date (RFC 3339)")
	fmt.Fprintln(w)
	printEngineFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printTeXUsage prints usage for the tex command.
func printTeXUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: paper2pdf tex <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the LaTeX source of a submission. Use - to read JSON from stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom template directory")
	fmt.Fprintln(w, "      --template <name>     LaTeX template name")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: paper2pdf doctor [--json] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the typesetting engine, templates and scratch space.")
	fmt.Fprintln(w, "A missing pdflatex is a warning: papers still render.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Output JSON")
	fmt.Fprintln(w)
	printEngineFlags(w)
}

// printHistoryUsage prints usage for the history command.
func printHistoryUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: paper2pdf history [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show recent renders recorded by 'paper2pdf serve --history'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --history <path>      Render journal database")
	fmt.Fprintln(w, "  -n, --limit <n>           Entries to show (default 20)")
	fmt.Fprintln(w, "      --summary             Show counts instead of entries")
	fmt.Fprintln(w, "      --json                Output JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "tex":
		printTeXUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "history":
		printHistoryUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: paper2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: paper2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
