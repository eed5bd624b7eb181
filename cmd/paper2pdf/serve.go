package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-paper2pdf/internal/config"
	"github.com/alnah/go-paper2pdf/internal/history"
	"github.com/alnah/go-paper2pdf/internal/observability"
	"github.com/alnah/go-paper2pdf/internal/server"
)

// pruneInterval is how often the journal drops entries past retention.
const pruneInterval = time.Hour

// runServe starts the HTTP API and blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, fs, err := parseServeFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	mergeCommonFlags(fs, &flags.common, cfg)
	mergeEngineFlags(fs, &flags.engine, cfg)
	if fs.Changed("addr") {
		cfg.Server.Addr = flags.addr
	}
	if fs.Changed("workers") {
		cfg.Server.Workers = flags.workers
	}
	if fs.Changed("rate-limit") {
		cfg.Server.RateLimit = flags.rateLimit
	}
	if fs.Changed("history") {
		cfg.History.Path = flags.history
	}
	if flags.common.verbose && !fs.Changed("log-level") {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(env.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	conv, err := newConverter(cfg, logger)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	opts := []server.Option{
		server.WithLogger(logger),
		server.WithMetrics(metrics),
	}

	var journal *history.Store
	if cfg.History.Path != "" {
		journal, err = history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer journal.Close()
		opts = append(opts, server.WithJournal(journal))
	}

	srv := server.New(conv, server.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		RateLimit:    cfg.Server.RateLimit,
		Burst:        cfg.Server.Burst,
		Workers:      cfg.Server.Workers,
		CORSOrigins:  cfg.Server.CORSOrigins,
	}, opts...)

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}

	logger.Info().
		Str("addr", ln.Addr().String()).
		Bool("engine", conv.EngineEnabled()).
		Str("engine_binary", cfg.Engine.Binary).
		Bool("history", journal != nil).
		Msg("starting paper2pdf")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})
	if journal != nil && cfg.History.Retention > 0 {
		g.Go(func() error {
			pruneLoop(gctx, journal, cfg.History, env.Now, logger)
			return nil
		})
	}
	return g.Wait()
}

// pruneLoop removes journal entries older than the retention window, once
// at start and then every pruneInterval, until ctx is done.
func pruneLoop(ctx context.Context, store *history.Store, hc config.HistoryConfig, now func() time.Time, logger zerolog.Logger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		n, err := store.Prune(ctx, now().Add(-hc.Retention))
		switch {
		case err != nil && ctx.Err() == nil:
			logger.Warn().Err(err).Msg("pruning render history failed")
		case n > 0:
			logger.Info().Int64("removed", n).Msg("render history pruned")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
