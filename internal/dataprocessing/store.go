package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"migflowcli/internal/classification"
	apperrors "migflowcli/internal/errors"
)

// Flow table column names
const (
	colCountryFrom    = "country_from"
	colCountryTo      = "country_to"
	colMigrationMonth = "migration_month"
	colNumMigrants    = "num_migrants"
)

// Season labels. December belongs to Winter of the same record's label,
// pairing it with the following January/February when grouping by season
// alone; the seasonal profile is global per corridor, not per-winter.
const (
	SeasonWinter = "Winter"
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
	SeasonFall   = "Fall"
)

// Seasons lists the season labels in profile column order
var Seasons = []string{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}

// FlowRecord is one monthly bilateral migration observation, enriched at load
// time with calendar fields and the regional hierarchy of both endpoints.
// Records whose endpoints are missing from the classification table keep
// empty hierarchy codes; they stay in the store and are excluded only from
// aggregations keyed on the missing dimension.
type FlowRecord struct {
	CountryFrom string
	CountryTo   string
	Month       time.Time
	Migrants    float64

	Year     int
	MonthNum int
	Quarter  int
	Season   string

	RegionFrom       string
	RegionTo         string
	SubregionFrom    string
	SubregionTo      string
	IntermediateFrom string
	IntermediateTo   string
}

// RecordStore is the immutable enriched record set shared by all aggregators
type RecordStore struct {
	records []FlowRecord
}

// Records returns the enriched records for scanning. Callers must not mutate.
func (s *RecordStore) Records() []FlowRecord {
	return s.records
}

// Len returns the number of records in the store
func (s *RecordStore) Len() int {
	return len(s.records)
}

// Load builds the record store from raw flow table rows. The first row is the
// header. Every record's month must parse as YYYY-MM (or YYYY-MM-01); a parse
// failure aborts the whole load since nothing downstream can be trusted
// without the base data.
func Load(rows [][]string, index *classification.HierarchyIndex) (*RecordStore, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewMissingColumnError(colCountryFrom)
	}

	columns := indexColumns(rows[0])
	for _, required := range []string{colCountryFrom, colCountryTo, colMigrationMonth, colNumMigrants} {
		if _, ok := columns[required]; !ok {
			return nil, apperrors.NewMissingColumnError(required)
		}
	}

	records := make([]FlowRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		monthValue := cell(row, columns, colMigrationMonth)
		month, err := ParseMonth(monthValue)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		migrants, err := strconv.ParseFloat(cell(row, columns, colNumMigrants), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid num_migrants: %w", i+2, err)
		}
		if migrants < 0 {
			return nil, fmt.Errorf("row %d: negative num_migrants %v", i+2, migrants)
		}

		rec := FlowRecord{
			CountryFrom: cell(row, columns, colCountryFrom),
			CountryTo:   cell(row, columns, colCountryTo),
			Month:       month,
			Migrants:    migrants,
			Year:        month.Year(),
			MonthNum:    int(month.Month()),
			Quarter:     (int(month.Month())-1)/3 + 1,
			Season:      seasonOf(int(month.Month())),
		}

		if code, ok := index.RegionCode(rec.CountryFrom); ok {
			rec.RegionFrom = code
		}
		if code, ok := index.RegionCode(rec.CountryTo); ok {
			rec.RegionTo = code
		}
		if code, ok := index.SubregionCode(rec.CountryFrom); ok {
			rec.SubregionFrom = code
		}
		if code, ok := index.SubregionCode(rec.CountryTo); ok {
			rec.SubregionTo = code
		}
		if code, ok := index.IntermediateCode(rec.CountryFrom); ok {
			rec.IntermediateFrom = code
		}
		if code, ok := index.IntermediateCode(rec.CountryTo); ok {
			rec.IntermediateTo = code
		}

		records = append(records, rec)
	}

	return &RecordStore{records: records}, nil
}

// ParseMonth parses a migration month value as YYYY-MM or YYYY-MM-01,
// truncated to the first day of the month in UTC.
func ParseMonth(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, apperrors.NewDateParseError(value, nil)
}

// seasonOf maps a month number to its meteorological season label
func seasonOf(month int) string {
	switch month {
	case 12, 1, 2:
		return SeasonWinter
	case 3, 4, 5:
		return SeasonSpring
	case 6, 7, 8:
		return SeasonSummer
	default:
		return SeasonFall
	}
}

// indexColumns maps trimmed header names to their column positions
func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	return columns
}

// cell returns the trimmed value of the named column, or "" if absent
func cell(row []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
