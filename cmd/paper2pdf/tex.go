package main

import (
	"context"
	"fmt"
	"io"

	paper2pdf "github.com/alnah/go-paper2pdf"
)

// stdinName selects standard input. Its content is read as JSON.
const stdinName = "-"

// runTeX writes the LaTeX source of one submission.
func runTeX(ctx context.Context, args []string, env *Environment) error {
	flags, fs, err := parseTeXFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	mergeCommonFlags(fs, &flags.common, cfg)
	if fs.Changed("asset-path") {
		cfg.Assets.BasePath = flags.assetPath
	}
	if fs.Changed("template") {
		cfg.Assets.Template = flags.template
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("%w: tex takes exactly one submission (or - for stdin)", ErrNoInput)
	}

	sub, err := readTeXInput(fs.Arg(0), env.Stdin)
	if err != nil {
		return err
	}

	logger, err := newLogger(env.Stderr, cliLogLevel(fs, &flags.common), cfg.Log.Format)
	if err != nil {
		return err
	}
	conv, err := newConverter(cfg, logger, paper2pdf.WithoutEngine())
	if err != nil {
		return err
	}

	src, err := conv.Markup(ctx, sub)
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err := env.Stdout.Write(src)
		return err
	}
	if err := writeOutput(flags.output, src); err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}

// readTeXInput reads a submission from a file or, for "-", from stdin.
func readTeXInput(name string, stdin io.Reader) (paper2pdf.Submission, error) {
	if name != stdinName {
		return readSubmission(name)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return paper2pdf.Submission{}, fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
	}
	return decodeSubmission("stdin.json", data)
}
