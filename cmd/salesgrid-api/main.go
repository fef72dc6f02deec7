package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/syntrixbase/salesgrid/internal/api"
	"github.com/syntrixbase/salesgrid/internal/config"
	"github.com/syntrixbase/salesgrid/internal/dataset"
	"github.com/syntrixbase/salesgrid/internal/logging"
	"github.com/syntrixbase/salesgrid/internal/server"
)

func main() {
	configDir := flag.String("config", config.DefaultDir, "configuration directory")
	datasetPath := flag.String("dataset", "", "dataset file override")
	flag.Parse()

	if err := run(*configDir, *datasetPath); err != nil {
		fmt.Fprintf(os.Stderr, "salesgrid-api: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir, datasetPath string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	if datasetPath == "" {
		datasetPath = cfg.Data.DatasetPath
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Shutdown()
	logger := slog.Default()

	ds, err := dataset.Load(datasetPath)
	if err != nil {
		return err
	}
	apiServer, err := api.NewServer(ds, logger)
	if err != nil {
		return err
	}
	logger.Info("Dataset loaded", "path", datasetPath, "records", len(ds.Records))

	srv := server.New(cfg.Server, logger)
	apiServer.Routes(srv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
