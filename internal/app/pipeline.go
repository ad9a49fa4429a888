package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"migflowcli/internal/aggregation"
	"migflowcli/internal/classification"
	"migflowcli/internal/config"
	"migflowcli/internal/dataprocessing"
	"migflowcli/internal/exporter"
	"migflowcli/internal/files"
	"migflowcli/internal/infrastructure"
)

// ArtifactResult records the outcome of one catalog stage
type ArtifactResult struct {
	Name string
	File string
	Rows int
	Err  error
}

// Summary reports a pipeline run: per-artifact row counts and failures
type Summary struct {
	Records   int
	Countries int
	Artifacts []ArtifactResult
	Elapsed   time.Duration
}

// Failed returns the results of artifacts that failed
func (s *Summary) Failed() []ArtifactResult {
	var failed []ArtifactResult
	for _, a := range s.Artifacts {
		if a.Err != nil {
			failed = append(failed, a)
		}
	}
	return failed
}

// Pipeline runs the full aggregation catalog: it builds the hierarchy index
// and record store once, then derives and writes every artifact. Artifact
// stages are independent units of work; a stage failure is recorded and the
// batch continues, but an input load failure aborts the run since nothing
// downstream can be produced without the base data.
type Pipeline struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
}

// NewPipeline creates a pipeline from resolved configuration and paths
func NewPipeline(cfg *config.Config, paths *config.Paths, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, paths: paths, logger: logger}
}

// Run executes the whole catalog and returns the run summary. The returned
// error is non-nil when the inputs could not be loaded or when every
// artifact stage failed.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	logger := infrastructure.LoggerWithContext(ctx)

	index, store, err := p.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "inputs loaded",
		slog.Int("records", store.Len()),
		slog.Int("countries", index.Countries()))

	spatial := aggregation.NewSpatialAggregator(store, index, p.logger)
	temporal := aggregation.NewTemporalAggregator(store, index, aggregation.TemporalConfig{
		TopCorridors:    p.cfg.Pipeline.TopCorridors,
		ShortWindow:     p.cfg.Pipeline.ShortWindow,
		LongWindow:      p.cfg.Pipeline.LongWindow,
		TrendWindow:     p.cfg.Pipeline.TrendWindow,
		MinObservations: p.cfg.Pipeline.MinObservations,
	}, p.logger)
	metrics := aggregation.NewFlowMetricsEngine(store, p.logger)

	sink := exporter.NewJSONWriter(p.logger)

	stages := []struct {
		name string
		file string
		rows func() any
	}{
		{"country_to_country", "flows_country_to_country_monthly.json", func() any { return spatial.CountryToCountry() }},
		{"region_to_country", "flows_region_to_country_monthly.json", func() any { return spatial.RegionToCountry() }},
		{"country_to_region", "flows_country_to_region_monthly.json", func() any { return spatial.CountryToRegion() }},
		{"region_to_region", "flows_region_to_region_monthly.json", func() any { return spatial.RegionToRegion() }},
		{"subregion_to_subregion", "flows_subregion_to_subregion_monthly.json", func() any { return spatial.SubregionToSubregion() }},
		{"intermediate_to_intermediate", "flows_intermediate_to_intermediate_monthly.json", func() any { return spatial.IntermediateToIntermediate() }},
		{"quarterly_averages", "flows_country_to_country_quarterly.json", func() any { return temporal.QuarterlyAverages() }},
		{"annual_totals", "flows_country_to_country_annual.json", func() any { return temporal.AnnualTotals() }},
		{"region_annual_totals", "flows_region_to_region_annual.json", func() any { return temporal.RegionAnnualTotals() }},
		{"seasonal_patterns", "flows_seasonal_patterns_country.json", func() any { return temporal.SeasonalPatterns() }},
		{"rolling_averages", "flows_rolling_averages_top100.json", func() any { return temporal.RollingAverages() }},
		{"gross_flows", "flows_gross_annual_country.json", func() any { return metrics.GrossFlows() }},
		{"net_flows", "flows_net_annual_country.json", func() any { return metrics.NetFlows() }},
		{"corridor_rankings", "flows_corridor_rankings_annual.json", func() any { return metrics.CorridorRankings() }},
		{"growth_rates", "flows_growth_rates_annual.json", func() any { return metrics.GrowthRates() }},
	}

	summary := &Summary{
		Records:   store.Len(),
		Countries: index.Countries(),
	}

	for _, stage := range stages {
		path := p.paths.ArtifactPath(stage.file)
		count, err := sink.WriteArtifact(path, stage.rows())

		result := ArtifactResult{Name: stage.name, File: stage.file, Rows: count, Err: err}
		summary.Artifacts = append(summary.Artifacts, result)

		if err != nil {
			logger.ErrorContext(ctx, "artifact stage failed",
				slog.String("stage", stage.name),
				slog.String("error", err.Error()))
			continue
		}
		logger.InfoContext(ctx, "artifact stage complete",
			slog.String("stage", stage.name),
			slog.Int("rows", count))
	}

	summary.Elapsed = time.Since(start)

	if failed := summary.Failed(); len(failed) == len(summary.Artifacts) {
		return summary, fmt.Errorf("all %d artifact stages failed", len(failed))
	}

	return summary, nil
}

// loadInputs reads the classification and flow tables and builds the shared
// read-only index and store.
func (p *Pipeline) loadInputs(ctx context.Context) (*classification.HierarchyIndex, *dataprocessing.RecordStore, error) {
	logger := infrastructure.LoggerWithContext(ctx)

	logger.InfoContext(ctx, "loading classification table",
		slog.String("path", p.paths.ClassificationCSV))
	classRows, err := files.ReadTable(p.paths.ClassificationCSV, ';')
	if err != nil {
		return nil, nil, fmt.Errorf("read classification table: %w", err)
	}

	index, err := classification.Build(classRows)
	if err != nil {
		return nil, nil, fmt.Errorf("build hierarchy index: %w", err)
	}

	flowsPath := p.paths.FlowsCSV
	if !config.FileExists(flowsPath) {
		// Fall back to the newest table dropped into the input directory
		discovery := files.NewDiscovery(p.paths.OriginalDir)
		candidates, derr := discovery.FindTables(p.paths.OriginalDir)
		if derr == nil && len(candidates) > 0 {
			flowsPath = candidates[0].Path
			logger.InfoContext(ctx, "flow table discovered",
				slog.String("path", flowsPath))
		}
	}

	logger.InfoContext(ctx, "loading flow table",
		slog.String("path", flowsPath))
	flowRows, err := files.ReadTable(flowsPath, ',')
	if err != nil {
		return nil, nil, fmt.Errorf("read flow table: %w", err)
	}

	store, err := dataprocessing.Load(flowRows, index)
	if err != nil {
		return nil, nil, fmt.Errorf("load record store: %w", err)
	}

	return index, store, nil
}
