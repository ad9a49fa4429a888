package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "migflowcli/internal/errors"
)

func TestConvertDates(t *testing.T) {
	rows := [][]string{
		{"country_from", "country_to", "migration_month", "num_migrants"},
		{"IN", "DE", "2020-01", "100"},
		{"IN", "DE", "2020-12", "110"},
		{"DE", "IN", "2019-06", "20"},
	}

	headers, converted, span, err := convertDates(rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"country_from", "country_to", "migration_month", "num_migrants"}, headers)
	require.Len(t, converted, 3)

	assert.Equal(t, []string{"IN", "DE", "2020-01-01", "100"}, converted[0])
	assert.Equal(t, []string{"IN", "DE", "2020-12-01", "110"}, converted[1])
	assert.Equal(t, []string{"DE", "IN", "2019-06-01", "20"}, converted[2])

	assert.Equal(t, "2019-06-01", span.First.Format("2006-01-02"))
	assert.Equal(t, "2020-12-01", span.Last.Format("2006-01-02"))
}

func TestConvertDatesAlreadyFull(t *testing.T) {
	rows := [][]string{
		{"migration_month", "num_migrants"},
		{"2020-03-15", "50"},
	}

	_, converted, _, err := convertDates(rows)
	require.NoError(t, err)

	// Full dates are normalized to the first of the month
	assert.Equal(t, "2020-03-01", converted[0][0])
}

func TestConvertDatesPreservesUnrelatedColumns(t *testing.T) {
	rows := [][]string{
		{"extra", "migration_month", "note"},
		{"a", "2021-07", "keep me"},
	}

	headers, converted, _, err := convertDates(rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"extra", "migration_month", "note"}, headers)
	assert.Equal(t, []string{"a", "2021-07-01", "keep me"}, converted[0])
}

func TestConvertDatesMissingColumn(t *testing.T) {
	rows := [][]string{
		{"country_from", "country_to", "num_migrants"},
		{"IN", "DE", "100"},
	}

	_, _, _, err := convertDates(rows)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingColumn))
}

func TestConvertDatesBadValue(t *testing.T) {
	rows := [][]string{
		{"migration_month"},
		{"January 2020"},
	}

	_, _, _, err := convertDates(rows)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeDateParse))
}

func TestConvertDatesEmpty(t *testing.T) {
	_, _, _, err := convertDates(nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeEmptyResult))

	_, _, _, err = convertDates([][]string{{"migration_month"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeEmptyResult))
}
