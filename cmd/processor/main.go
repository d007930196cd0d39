// Command processor runs the full pipeline from the command line:
// fetch the bulk archive, load it, and write the generation, carbon
// intensity, and renewable share reports for one balancing authority.
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
	"gridpulse/internal/exporter"
	"gridpulse/internal/fetch"
	"gridpulse/internal/infrastructure"
	"gridpulse/internal/intensity"
	"gridpulse/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	authority := flag.String("authority", config.ReferenceAuthority, "balancing authority code")
	from := flag.String("from", "", "range start day, YYYY-MM-DD (required)")
	to := flag.String("to", "", "range end day inclusive, YYYY-MM-DD (required)")
	force := flag.Bool("force", false, "re-download the bulk archive even when it exists")
	skipFetch := flag.Bool("skip-fetch", false, "use the already extracted bulk file, do not download")
	flag.Parse()

	if *from == "" || *to == "" {
		fmt.Fprintln(os.Stderr, "both -from and -to are required (YYYY-MM-DD)")
		flag.Usage()
		return 2
	}

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

	manager := pipeline.NewManager(logger)
	if !*skipFetch {
		downloader := fetch.NewDownloader(cfg.Fetch.Timeout, logger)
		manager.RegisterStage(pipeline.NewFetchStage(downloader, cfg.Fetch.BulkURL, paths))
	}
	manager.RegisterStage(pipeline.NewLoadStage(paths, nil))
	manager.RegisterStage(pipeline.NewReportStage(
		intensity.NewExtractor(logger),
		exporter.NewReportExporter(paths),
		nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	resp, err := manager.Execute(ctx, pipeline.RunRequest{
		Authority: *authority,
		FromDate:  *from,
		ToDate:    *to,
		Force:     *force,
	})
	if err != nil {
		logger.ErrorContext(ctx, "pipeline failed",
			slog.String("error", err.Error()))
		return 1
	}

	logger.InfoContext(ctx, "pipeline completed",
		slog.String("run_id", resp.ID),
		slog.Duration("duration", resp.Duration),
		slog.String("reports_dir", paths.ReportsDir))
	return 0
}
