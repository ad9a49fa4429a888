package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"migflowcli/internal/config"
	"migflowcli/internal/dataprocessing"
	apperrors "migflowcli/internal/errors"
	"migflowcli/internal/exporter"
	"migflowcli/internal/files"
	"migflowcli/internal/infrastructure"
)

// dateColumn is the flow table column rewritten to full dates
const dateColumn = "migration_month"

func main() {
	inFile := flag.String("in", "", "path to the migration flow CSV (defaults to data/original relative to executable)")
	outFile := flag.String("out", "", "path for the database-ready CSV (defaults to data/processed relative to executable)")
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

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	paths.ApplyOverrides(cfg.Paths)
	if *inFile != "" {
		paths.FlowsCSV = *inFile
	}
	if *outFile != "" {
		paths.DBReadyCSV = *outFile
	}

	logger.Info("Converting flow dates for database load",
		slog.String("input", paths.FlowsCSV),
		slog.String("output", paths.DBReadyCSV))

	rows, err := files.ReadTable(paths.FlowsCSV, ',')
	if err != nil {
		logger.Error("Failed to read flow table", slog.String("error", err.Error()))
		os.Exit(1)
	}

	headers, converted, span, err := convertDates(rows)
	if err != nil {
		logger.Error("Date conversion failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(logger)
	if err := writer.WriteCSV(paths.DBReadyCSV, exporter.WriteOptions{
		Headers: headers,
		Records: converted,
	}); err != nil {
		logger.Error("Failed to write output", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Conversion complete",
		slog.Int("records", len(converted)),
		slog.String("first_month", span.First.Format("2006-01-02")),
		slog.String("last_month", span.Last.Format("2006-01-02")))

	fmt.Printf("Converted %d records (%s to %s) into %s\n",
		len(converted),
		span.First.Format("2006-01-02"),
		span.Last.Format("2006-01-02"),
		paths.DBReadyCSV)
}

// dateSpan is the observed month range of the converted table
type dateSpan struct {
	First time.Time
	Last  time.Time
}

// convertDates rewrites the month column of the flow table to full
// first-of-month dates, leaving every other column untouched. Returns the
// headers, converted data rows, and the observed date range.
func convertDates(rows [][]string) ([]string, [][]string, dateSpan, error) {
	if len(rows) == 0 {
		return nil, nil, dateSpan{}, apperrors.NewEmptyResultError("date conversion")
	}

	headers := rows[0]
	monthIdx := -1
	for i, name := range headers {
		if name == dateColumn {
			monthIdx = i
			break
		}
	}
	if monthIdx == -1 {
		return nil, nil, dateSpan{}, apperrors.NewMissingColumnError(dateColumn)
	}

	var span dateSpan
	converted := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if monthIdx >= len(row) {
			continue
		}

		month, err := dataprocessing.ParseMonth(row[monthIdx])
		if err != nil {
			return nil, nil, dateSpan{}, err
		}

		out := make([]string, len(row))
		copy(out, row)
		out[monthIdx] = month.Format("2006-01-02")
		converted = append(converted, out)

		if span.First.IsZero() || month.Before(span.First) {
			span.First = month
		}
		if month.After(span.Last) {
			span.Last = month
		}
	}

	if len(converted) == 0 {
		return nil, nil, dateSpan{}, apperrors.NewEmptyResultError("date conversion")
	}

	return headers, converted, span, nil
}
