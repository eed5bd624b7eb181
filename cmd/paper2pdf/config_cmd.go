package main

import (
	"fmt"
	"io"

	"github.com/alnah/go-paper2pdf/internal/yamlutil"
)

// runConfig prints the effective configuration as YAML.
func runConfig(args []string, env *Environment) error {
	var common commonFlags
	fs := newFlagSet("config", env.Stdout, printConfigUsage)
	addCommonFlags(fs, &common)
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(&common, env)
	if err != nil {
		return err
	}
	mergeCommonFlags(fs, &common, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: paper2pdf config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration after the config file and")
	fmt.Fprintln(w, "PAPER2PDF_* variables are applied. The output is a valid config file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}
