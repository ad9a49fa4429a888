package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migflowcli/internal/classification"
	apperrors "migflowcli/internal/errors"
)

func testIndex(t *testing.T) *classification.HierarchyIndex {
	t.Helper()
	idx, err := classification.Build([][]string{
		{"ISO-alpha2 Code", "Region Code", "Region Name", "Sub-region Code", "Sub-region Name", "Intermediate Region Code", "Intermediate Region Name"},
		{"DE", "150", "Europe", "155", "Western Europe", "", ""},
		{"JM", "019", "Americas", "419", "Latin America and the Caribbean", "029", "Caribbean"},
	})
	require.NoError(t, err)
	return idx
}

func flowHeader() []string {
	return []string{"country_from", "country_to", "migration_month", "num_migrants"}
}

func TestLoad_Enrichment(t *testing.T) {
	rows := [][]string{
		flowHeader(),
		{"DE", "JM", "2020-05", "120"},
		{"JM", "XX", "2019-12-01", "40.5"},
	}

	store, err := Load(rows, testIndex(t))
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	first := store.Records()[0]
	assert.Equal(t, "DE", first.CountryFrom)
	assert.Equal(t, "JM", first.CountryTo)
	assert.Equal(t, time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), first.Month)
	assert.Equal(t, 120.0, first.Migrants)
	assert.Equal(t, 2020, first.Year)
	assert.Equal(t, 5, first.MonthNum)
	assert.Equal(t, 2, first.Quarter)
	assert.Equal(t, SeasonSpring, first.Season)
	assert.Equal(t, "150", first.RegionFrom)
	assert.Equal(t, "019", first.RegionTo)
	assert.Equal(t, "155", first.SubregionFrom)
	assert.Equal(t, "419", first.SubregionTo)
	assert.Empty(t, first.IntermediateFrom, "DE has no intermediate region")
	assert.Equal(t, "029", first.IntermediateTo)

	second := store.Records()[1]
	assert.Equal(t, 2019, second.Year)
	assert.Equal(t, 4, second.Quarter)
	assert.Equal(t, SeasonWinter, second.Season)
	// XX is not classified: record kept, hierarchy codes empty
	assert.Empty(t, second.RegionTo)
	assert.Empty(t, second.SubregionTo)
}

func TestLoad_QuarterDerivation(t *testing.T) {
	tests := []struct {
		month   string
		quarter int
		season  string
	}{
		{"2020-01", 1, SeasonWinter},
		{"2020-02", 1, SeasonWinter},
		{"2020-03", 1, SeasonSpring},
		{"2020-04", 2, SeasonSpring},
		{"2020-06", 2, SeasonSummer},
		{"2020-07", 3, SeasonSummer},
		{"2020-09", 3, SeasonFall},
		{"2020-10", 4, SeasonFall},
		{"2020-11", 4, SeasonFall},
		{"2020-12", 4, SeasonWinter},
	}

	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			rows := [][]string{flowHeader(), {"DE", "JM", tt.month, "1"}}
			store, err := Load(rows, testIndex(t))
			require.NoError(t, err)

			rec := store.Records()[0]
			assert.Equal(t, tt.quarter, rec.Quarter)
			assert.Equal(t, tt.season, rec.Season)
		})
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	rows := [][]string{
		{"country_from", "country_to", "num_migrants"},
		{"DE", "JM", "10"},
	}

	_, err := Load(rows, testIndex(t))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingColumn))
}

func TestLoad_BadMonth(t *testing.T) {
	tests := []string{"2020/01", "202001", "2020-13", "January 2020", ""}

	for _, bad := range tests {
		t.Run(bad, func(t *testing.T) {
			rows := [][]string{flowHeader(), {"DE", "JM", bad, "10"}}
			_, err := Load(rows, testIndex(t))
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeDateParse))
		})
	}
}

func TestLoad_BadCount(t *testing.T) {
	tests := []struct {
		name  string
		count string
	}{
		{"not a number", "many"},
		{"negative", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := [][]string{flowHeader(), {"DE", "JM", "2020-01", tt.count}}
			_, err := Load(rows, testIndex(t))
			assert.Error(t, err)
		})
	}
}

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2021-07")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseMonth("2021-07-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC), got)
}
