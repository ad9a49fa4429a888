package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"migflowcli/internal/app"
	"migflowcli/internal/config"
	"migflowcli/internal/infrastructure"
)

func main() {
	inDir := flag.String("in", "", "input directory override (defaults to data relative to executable)")
	outDir := flag.String("out", "", "output directory override (defaults to data/processed relative to executable)")
	flowsFile := flag.String("flows", "", "path to the migration flow CSV")
	classificationFile := flag.String("classification", "", "path to the regional classification CSV")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.Output != "console" && cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.GetLogPath("processor.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	// Flags take precedence over config file and environment overrides
	overrides := cfg.Paths
	if *inDir != "" {
		overrides.DataDir = *inDir
	}
	if *outDir != "" {
		overrides.ProcessedDir = *outDir
	}
	if *flowsFile != "" {
		overrides.FlowsFile = *flowsFile
	}
	if *classificationFile != "" {
		overrides.ClassificationFile = *classificationFile
	}
	paths.ApplyOverrides(overrides)

	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create required directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := infrastructure.ContextWithTraceID(context.Background())
	logger = infrastructure.LoggerWithContext(ctx)

	logger.InfoContext(ctx, "Starting migration flow processing",
		slog.String("flows_csv", paths.FlowsCSV),
		slog.String("classification_csv", paths.ClassificationCSV),
		slog.String("output_dir", paths.ProcessedDir),
		slog.String("executable_dir", paths.ExecutableDir))

	pipeline := app.NewPipeline(cfg, paths, logger)
	summary, err := pipeline.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, artifact := range summary.Artifacts {
		if artifact.Err != nil {
			fmt.Printf("FAILED  %-50s %v\n", artifact.File, artifact.Err)
			continue
		}
		fmt.Printf("Wrote   %-50s %d rows\n", artifact.File, artifact.Rows)
	}

	failed := summary.Failed()
	logger.InfoContext(ctx, "Processing complete",
		slog.Int("records", summary.Records),
		slog.Int("countries", summary.Countries),
		slog.Int("artifacts", len(summary.Artifacts)),
		slog.Int("failed", len(failed)),
		slog.Duration("elapsed", summary.Elapsed))

	fmt.Printf("Processing complete: %d artifacts, %d failed\n", len(summary.Artifacts), len(failed))
	if len(failed) > 0 {
		os.Exit(1)
	}
}
