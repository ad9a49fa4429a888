package aggregation

import (
	"log/slog"
	"sort"
	"time"

	"migflowcli/internal/classification"
	"migflowcli/internal/dataprocessing"
)

// SpatialAggregator rolls monthly flows up the regional hierarchy. Each
// operation groups records by a spatial dimension pair and the record's
// month, summing migrant counts within each group; records missing a
// required dimension are excluded from that operation only.
type SpatialAggregator struct {
	store  *dataprocessing.RecordStore
	index  *classification.HierarchyIndex
	logger *slog.Logger
}

// NewSpatialAggregator creates a spatial aggregator over the enriched store
func NewSpatialAggregator(store *dataprocessing.RecordStore, index *classification.HierarchyIndex, logger *slog.Logger) *SpatialAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpatialAggregator{store: store, index: index, logger: logger}
}

// spatialKey groups records by an endpoint pair and month
type spatialKey struct {
	From  string
	To    string
	Month time.Time
}

// CountryToCountry emits the raw bilateral flows, one row per record.
// This is a projection, not an aggregation: the row count equals the
// store length exactly.
func (a *SpatialAggregator) CountryToCountry() []MonthlyFlow {
	records := a.store.Records()
	rows := make([]MonthlyFlow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, MonthlyFlow{
			CountryFrom:    rec.CountryFrom,
			CountryTo:      rec.CountryTo,
			MigrationMonth: rec.Month,
			Migrants:       rec.Migrants,
		})
	}
	return rows
}

// RegionToCountry sums flows by (origin region, destination country, month)
func (a *SpatialAggregator) RegionToCountry() []RegionCountryFlow {
	sums := a.groupSum(func(rec dataprocessing.FlowRecord) (spatialKey, bool) {
		if rec.RegionFrom == "" {
			return spatialKey{}, false
		}
		return spatialKey{From: rec.RegionFrom, To: rec.CountryTo, Month: rec.Month}, true
	})

	rows := make([]RegionCountryFlow, 0, len(sums))
	for key, sum := range sums {
		rows = append(rows, RegionCountryFlow{
			RegionFrom:     a.index.NameFor(classification.KindRegion, key.From),
			CountryTo:      key.To,
			MigrationMonth: key.Month,
			Migrants:       sum,
		})
	}
	sortPairMonth(rows, func(r RegionCountryFlow) (string, string, time.Time) {
		return r.RegionFrom, r.CountryTo, r.MigrationMonth
	})
	return rows
}

// CountryToRegion sums flows by (origin country, destination region, month)
func (a *SpatialAggregator) CountryToRegion() []CountryRegionFlow {
	sums := a.groupSum(func(rec dataprocessing.FlowRecord) (spatialKey, bool) {
		if rec.RegionTo == "" {
			return spatialKey{}, false
		}
		return spatialKey{From: rec.CountryFrom, To: rec.RegionTo, Month: rec.Month}, true
	})

	rows := make([]CountryRegionFlow, 0, len(sums))
	for key, sum := range sums {
		rows = append(rows, CountryRegionFlow{
			CountryFrom:    key.From,
			RegionTo:       a.index.NameFor(classification.KindRegion, key.To),
			MigrationMonth: key.Month,
			Migrants:       sum,
		})
	}
	sortPairMonth(rows, func(r CountryRegionFlow) (string, string, time.Time) {
		return r.CountryFrom, r.RegionTo, r.MigrationMonth
	})
	return rows
}

// RegionToRegion sums flows by (origin region, destination region, month)
func (a *SpatialAggregator) RegionToRegion() []RegionRegionFlow {
	sums := a.groupSum(func(rec dataprocessing.FlowRecord) (spatialKey, bool) {
		if rec.RegionFrom == "" || rec.RegionTo == "" {
			return spatialKey{}, false
		}
		return spatialKey{From: rec.RegionFrom, To: rec.RegionTo, Month: rec.Month}, true
	})

	rows := make([]RegionRegionFlow, 0, len(sums))
	for key, sum := range sums {
		rows = append(rows, RegionRegionFlow{
			RegionFrom:     a.index.NameFor(classification.KindRegion, key.From),
			RegionTo:       a.index.NameFor(classification.KindRegion, key.To),
			MigrationMonth: key.Month,
			Migrants:       sum,
		})
	}
	sortPairMonth(rows, func(r RegionRegionFlow) (string, string, time.Time) {
		return r.RegionFrom, r.RegionTo, r.MigrationMonth
	})
	return rows
}

// SubregionToSubregion sums flows by (origin sub-region, destination
// sub-region, month)
func (a *SpatialAggregator) SubregionToSubregion() []SubregionFlow {
	sums := a.groupSum(func(rec dataprocessing.FlowRecord) (spatialKey, bool) {
		if rec.SubregionFrom == "" || rec.SubregionTo == "" {
			return spatialKey{}, false
		}
		return spatialKey{From: rec.SubregionFrom, To: rec.SubregionTo, Month: rec.Month}, true
	})

	rows := make([]SubregionFlow, 0, len(sums))
	for key, sum := range sums {
		rows = append(rows, SubregionFlow{
			SubregionFrom:  a.index.NameFor(classification.KindSubregion, key.From),
			SubregionTo:    a.index.NameFor(classification.KindSubregion, key.To),
			MigrationMonth: key.Month,
			Migrants:       sum,
		})
	}
	sortPairMonth(rows, func(r SubregionFlow) (string, string, time.Time) {
		return r.SubregionFrom, r.SubregionTo, r.MigrationMonth
	})
	return rows
}

// IntermediateToIntermediate sums flows by (origin intermediate region,
// destination intermediate region, month). Only records where both
// endpoints sit inside an intermediate region qualify.
func (a *SpatialAggregator) IntermediateToIntermediate() []IntermediateFlow {
	sums := a.groupSum(func(rec dataprocessing.FlowRecord) (spatialKey, bool) {
		if rec.IntermediateFrom == "" || rec.IntermediateTo == "" {
			return spatialKey{}, false
		}
		return spatialKey{From: rec.IntermediateFrom, To: rec.IntermediateTo, Month: rec.Month}, true
	})

	rows := make([]IntermediateFlow, 0, len(sums))
	for key, sum := range sums {
		rows = append(rows, IntermediateFlow{
			IntermediateFrom: a.index.NameFor(classification.KindIntermediate, key.From),
			IntermediateTo:   a.index.NameFor(classification.KindIntermediate, key.To),
			MigrationMonth:   key.Month,
			Migrants:         sum,
		})
	}
	sortPairMonth(rows, func(r IntermediateFlow) (string, string, time.Time) {
		return r.IntermediateFrom, r.IntermediateTo, r.MigrationMonth
	})
	return rows
}

// groupSum accumulates migrant counts per key for records the keyFn accepts
func (a *SpatialAggregator) groupSum(keyFn func(dataprocessing.FlowRecord) (spatialKey, bool)) map[spatialKey]float64 {
	sums := make(map[spatialKey]float64)
	for _, rec := range a.store.Records() {
		key, ok := keyFn(rec)
		if !ok {
			continue
		}
		sums[key] += rec.Migrants
	}
	return sums
}

// sortPairMonth orders rows by (from, to, month)
func sortPairMonth[T any](rows []T, key func(T) (string, string, time.Time)) {
	sort.Slice(rows, func(i, j int) bool {
		fi, ti, mi := key(rows[i])
		fj, tj, mj := key(rows[j])
		if fi != fj {
			return fi < fj
		}
		if ti != tj {
			return ti < tj
		}
		return mi.Before(mj)
	})
}
