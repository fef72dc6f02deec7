package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/syntrixbase/salesgrid/internal/config"
	"github.com/syntrixbase/salesgrid/internal/console"
	"github.com/syntrixbase/salesgrid/internal/data"
	"github.com/syntrixbase/salesgrid/internal/logging"
	"github.com/syntrixbase/salesgrid/internal/render"
	"github.com/syntrixbase/salesgrid/internal/transform"
)

func main() {
	configDir := flag.String("config", config.DefaultDir, "configuration directory")
	mode := flag.String("mode", "", "data mode override: remote or local")
	flag.Parse()

	if err := run(*configDir, *mode); err != nil {
		fmt.Fprintf(os.Stderr, "salesgrid: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir, mode string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	if mode != "" {
		cfg.Data.Mode = data.Mode(mode)
		if err := cfg.Data.Validate(); err != nil {
			return err
		}
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Shutdown()

	logger := slog.Default()
	logger.Info("Starting salesgrid", "mode", cfg.Data.Mode)

	store, err := data.New(cfg.Data, data.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to open records: %w", err)
	}

	pipeline := transform.NewPipeline(cfg.Table)
	form := console.NewForm(cfg.Table.DefaultLimit)
	table := console.NewTableRenderer(os.Stdout, form, pipeline.Sorting())
	loop := render.New(form, table, store, pipeline, logger)
	shell := console.NewShell(os.Stdin, os.Stdout, form, loop, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The shell blocks on stdin, so a signal has to win the race on its own.
	done := make(chan error, 1)
	go func() { done <- shell.Run(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		logger.Info("Interrupted")
		return nil
	}
}
