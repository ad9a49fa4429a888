package aggregation

import (
	"fmt"
	"log/slog"
	"sort"

	"migflowcli/internal/classification"
	"migflowcli/internal/dataprocessing"
)

// TemporalConfig tunes the rolling-window output
type TemporalConfig struct {
	// TopCorridors is how many corridors, by all-time total, get rolling series
	TopCorridors int
	// ShortWindow and LongWindow are the trailing mean window sizes in months
	ShortWindow int
	LongWindow  int
	// TrendWindow is how many recent observations feed the trend regression
	TrendWindow int
	// MinObservations excludes corridors with shorter history entirely
	MinObservations int
}

// DefaultTemporalConfig returns the standard catalog configuration:
// top 100 corridors, 3/6-month rolling means, 12-month trend, 6-observation
// minimum.
func DefaultTemporalConfig() TemporalConfig {
	return TemporalConfig{
		TopCorridors:    100,
		ShortWindow:     3,
		LongWindow:      6,
		TrendWindow:     12,
		MinObservations: 6,
	}
}

// TemporalAggregator derives calendar roll-ups and per-corridor time series
// from the enriched store.
type TemporalAggregator struct {
	store  *dataprocessing.RecordStore
	index  *classification.HierarchyIndex
	config TemporalConfig
	logger *slog.Logger
}

// NewTemporalAggregator creates a temporal aggregator over the enriched store
func NewTemporalAggregator(store *dataprocessing.RecordStore, index *classification.HierarchyIndex, config TemporalConfig, logger *slog.Logger) *TemporalAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemporalAggregator{store: store, index: index, config: config, logger: logger}
}

// quarterKey groups records by corridor, year and quarter
type quarterKey struct {
	From    string
	To      string
	Year    int
	Quarter int
}

// yearKey groups records by corridor and year
type yearKey struct {
	From string
	To   string
	Year int
}

// seasonKey groups records by corridor and season
type seasonKey struct {
	From   string
	To     string
	Season string
}

// QuarterlyAverages computes the mean monthly flow per corridor and quarter,
// labeled "<year>-Q<quarter>".
func (a *TemporalAggregator) QuarterlyAverages() []QuarterlyAverage {
	sums := make(map[quarterKey]float64)
	counts := make(map[quarterKey]int)
	for _, rec := range a.store.Records() {
		key := quarterKey{From: rec.CountryFrom, To: rec.CountryTo, Year: rec.Year, Quarter: rec.Quarter}
		sums[key] += rec.Migrants
		counts[key]++
	}

	rows := make([]QuarterlyAverage, 0, len(sums))
	for key, sum := range sums {
		rows = append(rows, QuarterlyAverage{
			CountryFrom: key.From,
			CountryTo:   key.To,
			QuarterYear: fmt.Sprintf("%d-Q%d", key.Year, key.Quarter),
			Migrants:    sum / float64(counts[key]),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CountryFrom != rows[j].CountryFrom {
			return rows[i].CountryFrom < rows[j].CountryFrom
		}
		if rows[i].CountryTo != rows[j].CountryTo {
			return rows[i].CountryTo < rows[j].CountryTo
		}
		return rows[i].QuarterYear < rows[j].QuarterYear
	})
	return rows
}

// AnnualTotals sums each corridor's flow per year
func (a *TemporalAggregator) AnnualTotals() []AnnualTotal {
	sums := annualSums(a.store.Records())

	rows := make([]AnnualTotal, 0, len(sums))
	for key, sum := range sums {
		rows = append(rows, AnnualTotal{
			CountryFrom: key.From,
			CountryTo:   key.To,
			Year:        key.Year,
			Migrants:    sum,
		})
	}
	sortByYearKey(rows, func(r AnnualTotal) (string, string, int) {
		return r.CountryFrom, r.CountryTo, r.Year
	})
	return rows
}

// RegionAnnualTotals sums region-to-region flow per year over records where
// both endpoint regions are known.
func (a *TemporalAggregator) RegionAnnualTotals() []RegionAnnualTotal {
	sums := make(map[yearKey]float64)
	for _, rec := range a.store.Records() {
		if rec.RegionFrom == "" || rec.RegionTo == "" {
			continue
		}
		sums[yearKey{From: rec.RegionFrom, To: rec.RegionTo, Year: rec.Year}] += rec.Migrants
	}

	rows := make([]RegionAnnualTotal, 0, len(sums))
	for key, sum := range sums {
		rows = append(rows, RegionAnnualTotal{
			RegionFrom: a.index.NameFor(classification.KindRegion, key.From),
			RegionTo:   a.index.NameFor(classification.KindRegion, key.To),
			Year:       key.Year,
			Migrants:   sum,
		})
	}
	sortByYearKey(rows, func(r RegionAnnualTotal) (string, string, int) {
		return r.RegionFrom, r.RegionTo, r.Year
	})
	return rows
}

// SeasonalPatterns computes each corridor's mean flow per season, reshaped
// to one row per corridor with a column per season. A season the corridor
// was never observed in is 0.
func (a *TemporalAggregator) SeasonalPatterns() []SeasonalProfile {
	sums := make(map[seasonKey]float64)
	counts := make(map[seasonKey]int)
	corridors := make(map[corridor]struct{})
	for _, rec := range a.store.Records() {
		key := seasonKey{From: rec.CountryFrom, To: rec.CountryTo, Season: rec.Season}
		sums[key] += rec.Migrants
		counts[key]++
		corridors[corridor{From: rec.CountryFrom, To: rec.CountryTo}] = struct{}{}
	}

	mean := func(c corridor, season string) float64 {
		key := seasonKey{From: c.From, To: c.To, Season: season}
		if counts[key] == 0 {
			return 0
		}
		return sums[key] / float64(counts[key])
	}

	rows := make([]SeasonalProfile, 0, len(corridors))
	for c := range corridors {
		rows = append(rows, SeasonalProfile{
			CountryFrom: c.From,
			CountryTo:   c.To,
			Winter:      mean(c, dataprocessing.SeasonWinter),
			Spring:      mean(c, dataprocessing.SeasonSpring),
			Summer:      mean(c, dataprocessing.SeasonSummer),
			Fall:        mean(c, dataprocessing.SeasonFall),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CountryFrom != rows[j].CountryFrom {
			return rows[i].CountryFrom < rows[j].CountryFrom
		}
		return rows[i].CountryTo < rows[j].CountryTo
	})
	return rows
}

// RollingAverages computes trailing means and a trend slope for the top
// corridors by all-time volume. Corridors with fewer than MinObservations
// monthly observations are excluded; the result may be empty, which is a
// valid (empty) artifact.
func (a *TemporalAggregator) RollingAverages() []RollingFlow {
	top := a.topCorridors()

	var rows []RollingFlow
	included := 0
	for _, c := range top {
		series := a.corridorSeries(c)
		if len(series) < a.config.MinObservations {
			continue
		}
		included++

		var slope *float64
		if len(series) >= a.config.TrendWindow {
			recent := series[len(series)-a.config.TrendWindow:]
			values := make([]float64, len(recent))
			for i, rec := range recent {
				values[i] = rec.Migrants
			}
			slope = float64Ptr(trendSlope(values))
		}

		for i, rec := range series {
			row := RollingFlow{
				CountryFrom:    c.From,
				CountryTo:      c.To,
				MigrationMonth: rec.Month,
				Migrants:       rec.Migrants,
				TrendSlope:     slope,
			}
			if mean, ok := trailingMean(series, i, a.config.ShortWindow); ok {
				row.Rolling3M = float64Ptr(mean)
			}
			if mean, ok := trailingMean(series, i, a.config.LongWindow); ok {
				row.Rolling6M = float64Ptr(mean)
			}
			rows = append(rows, row)
		}
	}

	a.logger.Debug("rolling averages computed",
		slog.Int("top_corridors", len(top)),
		slog.Int("included", included),
		slog.Int("rows", len(rows)))

	if rows == nil {
		rows = []RollingFlow{}
	}
	return rows
}

// topCorridors returns the corridors with the largest all-time summed flow,
// ordered by total descending with ties broken by origin then destination
// ascending so the cut at the boundary is deterministic.
func (a *TemporalAggregator) topCorridors() []corridor {
	totals := make(map[corridor]float64)
	for _, rec := range a.store.Records() {
		totals[corridor{From: rec.CountryFrom, To: rec.CountryTo}] += rec.Migrants
	}

	corridors := make([]corridor, 0, len(totals))
	for c := range totals {
		corridors = append(corridors, c)
	}
	sort.Slice(corridors, func(i, j int) bool {
		if totals[corridors[i]] != totals[corridors[j]] {
			return totals[corridors[i]] > totals[corridors[j]]
		}
		if corridors[i].From != corridors[j].From {
			return corridors[i].From < corridors[j].From
		}
		return corridors[i].To < corridors[j].To
	})

	if len(corridors) > a.config.TopCorridors {
		corridors = corridors[:a.config.TopCorridors]
	}
	return corridors
}

// corridorSeries returns a corridor's records in chronological order
func (a *TemporalAggregator) corridorSeries(c corridor) []dataprocessing.FlowRecord {
	var series []dataprocessing.FlowRecord
	for _, rec := range a.store.Records() {
		if rec.CountryFrom == c.From && rec.CountryTo == c.To {
			series = append(series, rec)
		}
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month.Before(series[j].Month)
	})
	return series
}

// trailingMean computes the mean of the window ending at position i. The
// mean is undefined until the window is fully populated, i.e. for i < window-1.
func trailingMean(series []dataprocessing.FlowRecord, i, window int) (float64, bool) {
	if i < window-1 {
		return 0, false
	}
	var sum float64
	for _, rec := range series[i-window+1 : i+1] {
		sum += rec.Migrants
	}
	return sum / float64(window), true
}

// trendSlope fits an ordinary least-squares line to values against a 0-based
// index and returns its slope.
func trendSlope(values []float64) float64 {
	n := float64(len(values))
	var sumX, sumY float64
	for i, y := range values {
		sumX += float64(i)
		sumY += y
	}
	meanX := sumX / n
	meanY := sumY / n

	var num, den float64
	for i, y := range values {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// annualSums accumulates per-corridor totals by year
func annualSums(records []dataprocessing.FlowRecord) map[yearKey]float64 {
	sums := make(map[yearKey]float64)
	for _, rec := range records {
		sums[yearKey{From: rec.CountryFrom, To: rec.CountryTo, Year: rec.Year}] += rec.Migrants
	}
	return sums
}

// sortByYearKey orders rows by (from, to, year)
func sortByYearKey[T any](rows []T, key func(T) (string, string, int)) {
	sort.Slice(rows, func(i, j int) bool {
		fi, ti, yi := key(rows[i])
		fj, tj, yj := key(rows[j])
		if fi != fj {
			return fi < fj
		}
		if ti != tj {
			return ti < tj
		}
		return yi < yj
	})
}
