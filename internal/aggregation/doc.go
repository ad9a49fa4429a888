// Package aggregation derives the fixed catalog of migration-flow views
// from the enriched record store.
//
// Three engines cover the catalog:
//
// SpatialAggregator rolls monthly flows up the regional hierarchy
// (country, region, sub-region, intermediate region), summing counts per
// endpoint pair and month.
//
// TemporalAggregator produces calendar roll-ups (quarterly means, annual
// totals, seasonal profiles) and per-corridor rolling/trend series for the
// top corridors by all-time volume.
//
// FlowMetricsEngine produces directional metrics: gross and net annual
// flows, dense corridor rankings with percentiles, and growth-rate series
// with velocity.
//
// All engines scan the shared read-only store independently; none mutates a
// record. Every operation materializes and sorts its full result before
// returning, so artifact output is deterministic run to run.
package aggregation
