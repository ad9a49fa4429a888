package aggregation

import (
	"log/slog"
	"sort"

	"migflowcli/internal/dataprocessing"
)

// FlowMetricsEngine derives directional flow metrics from the enriched
// store: gross and net annual flows, corridor rankings, and growth series.
type FlowMetricsEngine struct {
	store  *dataprocessing.RecordStore
	logger *slog.Logger
}

// NewFlowMetricsEngine creates a flow metrics engine over the enriched store
func NewFlowMetricsEngine(store *dataprocessing.RecordStore, logger *slog.Logger) *FlowMetricsEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlowMetricsEngine{store: store, logger: logger}
}

// GrossFlows sums each corridor's total annual movement
func (e *FlowMetricsEngine) GrossFlows() []GrossFlow {
	sums := annualSums(e.store.Records())

	rows := make([]GrossFlow, 0, len(sums))
	for key, sum := range sums {
		rows = append(rows, GrossFlow{
			CountryFrom: key.From,
			CountryTo:   key.To,
			Year:        key.Year,
			Gross:       sum,
		})
	}
	sortByYearKey(rows, func(r GrossFlow) (string, string, int) {
		return r.CountryFrom, r.CountryTo, r.Year
	})
	return rows
}

// NetFlows reconciles each corridor's annual outbound flow against the
// reverse direction. The outbound side of (from, to, year) is the summed
// flow from→to; the inbound side is the summed flow to→from. The two sides
// are full-outer-joined, a missing side counting as 0, so every ordered pair
// with flow in either direction gets a row. Net is inbound minus outbound;
// gross is their sum.
func (e *FlowMetricsEngine) NetFlows() []NetFlow {
	outbound := annualSums(e.store.Records())

	// Full outer join over the union of keys: every outbound key plus the
	// reversed key of every observed flow.
	keys := make(map[yearKey]struct{}, len(outbound))
	for key := range outbound {
		keys[key] = struct{}{}
		keys[yearKey{From: key.To, To: key.From, Year: key.Year}] = struct{}{}
	}

	rows := make([]NetFlow, 0, len(keys))
	for key := range keys {
		out := outbound[key]
		in := outbound[yearKey{From: key.To, To: key.From, Year: key.Year}]
		rows = append(rows, NetFlow{
			CountryFrom: key.From,
			CountryTo:   key.To,
			Year:        key.Year,
			Net:         in - out,
			Gross:       in + out,
		})
	}
	sortByYearKey(rows, func(r NetFlow) (string, string, int) {
		return r.CountryFrom, r.CountryTo, r.Year
	})
	return rows
}

// CorridorRankings ranks corridors by annual total within each year
// independently. Ranks are dense in descending order of total: tied totals
// share a rank and the next distinct total's rank is one greater, never
// skipped. The percentile is the average-rank fraction of corridors with a
// total at or below this corridor's, times 100.
func (e *FlowMetricsEngine) CorridorRankings() []CorridorRank {
	sums := annualSums(e.store.Records())

	byYear := make(map[int][]CorridorRank)
	for key, sum := range sums {
		byYear[key.Year] = append(byYear[key.Year], CorridorRank{
			CountryFrom: key.From,
			CountryTo:   key.To,
			Year:        key.Year,
			Migrants:    sum,
		})
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	var rows []CorridorRank
	for _, year := range years {
		group := byYear[year]
		rankWithinYear(group)
		sort.Slice(group, func(i, j int) bool {
			if group[i].Rank != group[j].Rank {
				return group[i].Rank < group[j].Rank
			}
			if group[i].CountryFrom != group[j].CountryFrom {
				return group[i].CountryFrom < group[j].CountryFrom
			}
			return group[i].CountryTo < group[j].CountryTo
		})
		rows = append(rows, group...)
	}
	if rows == nil {
		rows = []CorridorRank{}
	}
	return rows
}

// rankWithinYear assigns dense ranks and average-rank percentiles in place
func rankWithinYear(group []CorridorRank) {
	n := len(group)

	// Dense rank: position of the total among the distinct totals, descending
	distinct := make(map[float64]struct{}, n)
	for _, row := range group {
		distinct[row.Migrants] = struct{}{}
	}
	totals := make([]float64, 0, len(distinct))
	for total := range distinct {
		totals = append(totals, total)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(totals)))
	denseRank := make(map[float64]int, len(totals))
	for i, total := range totals {
		denseRank[total] = i + 1
	}

	// Percentile: ascending average rank over all corridors, ties averaged
	counts := make(map[float64]int, len(distinct))
	for _, row := range group {
		counts[row.Migrants]++
	}
	below := make(map[float64]int, len(distinct))
	for total := range counts {
		for other, count := range counts {
			if other < total {
				below[total] += count
			}
		}
	}

	for i := range group {
		total := group[i].Migrants
		group[i].Rank = denseRank[total]
		avgRank := float64(below[total]) + (float64(counts[total])+1)/2
		group[i].Percentile = avgRank / float64(n) * 100
	}
}

// GrowthRates computes year-over-year growth per corridor. Growth compares
// each annual total with the corridor's previous observation; it is
// undefined for a corridor's first year and whenever the previous total is
// exactly 0, and such rows are dropped. Velocity is the change in growth
// rate against the previous observation's growth rate and stays nil when
// that one is undefined.
func (e *FlowMetricsEngine) GrowthRates() []GrowthRate {
	sums := annualSums(e.store.Records())

	series := make(map[corridor][]AnnualTotal)
	for key, sum := range sums {
		c := corridor{From: key.From, To: key.To}
		series[c] = append(series[c], AnnualTotal{
			CountryFrom: key.From,
			CountryTo:   key.To,
			Year:        key.Year,
			Migrants:    sum,
		})
	}

	corridors := make([]corridor, 0, len(series))
	for c := range series {
		corridors = append(corridors, c)
	}
	sort.Slice(corridors, func(i, j int) bool {
		if corridors[i].From != corridors[j].From {
			return corridors[i].From < corridors[j].From
		}
		return corridors[i].To < corridors[j].To
	})

	var rows []GrowthRate
	for _, c := range corridors {
		annual := series[c]
		sort.Slice(annual, func(i, j int) bool {
			return annual[i].Year < annual[j].Year
		})

		var prevGrowth *float64
		for i := 1; i < len(annual); i++ {
			prev := annual[i-1].Migrants
			if prev == 0 {
				// Undefined growth: drop the row, and the next row has no
				// prior growth rate to diff against.
				prevGrowth = nil
				continue
			}

			growth := (annual[i].Migrants - prev) / prev * 100
			row := GrowthRate{
				CountryFrom: c.From,
				CountryTo:   c.To,
				Year:        annual[i].Year,
				Migrants:    annual[i].Migrants,
				Growth:      growth,
			}
			if prevGrowth != nil {
				row.Velocity = float64Ptr(growth - *prevGrowth)
			}
			rows = append(rows, row)
			prevGrowth = float64Ptr(growth)
		}
	}
	if rows == nil {
		rows = []GrowthRate{}
	}
	return rows
}
