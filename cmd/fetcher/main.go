// Command fetcher downloads the EIA bulk electricity archive and
// extracts it into the data directory, ready for the processor or the
// web server to load.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gridpulse/internal/config"
	"gridpulse/internal/fetch"
	"gridpulse/internal/infrastructure"
)

func main() {
	os.Exit(run())
}

func run() int {
	url := flag.String("url", "", "bulk archive URL (defaults to the configured EIA endpoint)")
	force := flag.Bool("force", false, "re-download even when the archive already exists")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	paths, err := config.GetPaths()
	if err != nil {
		logger.Error("resolve paths", slog.String("error", err.Error()))
		return 1
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("ensure directories", slog.String("error", err.Error()))
		return 1
	}

	bulkURL := cfg.Fetch.BulkURL
	if *url != "" {
		bulkURL = *url
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	logger.InfoContext(ctx, "fetching bulk archive",
		slog.String("url", bulkURL),
		slog.String("dest", paths.EBADir),
		slog.Bool("force", *force))

	downloader := fetch.NewDownloader(cfg.Fetch.Timeout, logger)
	if err := downloader.Fetch(ctx, bulkURL, paths.EBADir, *force); err != nil {
		logger.ErrorContext(ctx, "fetch failed", slog.String("error", err.Error()))
		return 1
	}

	logger.InfoContext(ctx, "bulk archive ready",
		slog.String("file", paths.BulkFile))
	return 0
}
