package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRow struct {
	CountryFrom    string    `json:"country_from"`
	MigrationMonth time.Time `json:"migration_month"`
	Migrants       float64   `json:"num_migrants"`
	Rolling3M      *float64  `json:"rolling_3m"`
}

func TestJSONWriter_WriteArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "flows.json")

	mean := 12.5
	rows := []sampleRow{
		{
			CountryFrom:    "DE",
			MigrationMonth: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			Migrants:       100,
			Rolling3M:      &mean,
		},
		{
			CountryFrom:    "FR",
			MigrationMonth: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
			Migrants:       50,
		},
	}

	count, err := NewJSONWriter(nil).WriteArtifact(path, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "DE", decoded[0]["country_from"])
	assert.Equal(t, "2020-01-01T00:00:00Z", decoded[0]["migration_month"], "dates serialize ISO-8601")
	assert.Equal(t, 12.5, decoded[0]["rolling_3m"])
	assert.Nil(t, decoded[1]["rolling_3m"], "unset pointer measures serialize as null")
}

func TestJSONWriter_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")

	tests := []struct {
		name string
		rows any
	}{
		{"empty slice", []sampleRow{}},
		{"nil slice", []sampleRow(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := NewJSONWriter(nil).WriteArtifact(path, tt.rows)
			require.NoError(t, err)
			assert.Zero(t, count)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.JSONEq(t, "[]", string(data))
		})
	}
}

func TestJSONWriter_RejectsNonSlice(t *testing.T) {
	_, err := NewJSONWriter(nil).WriteArtifact(filepath.Join(t.TempDir(), "x.json"), 42)
	assert.Error(t, err)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "flows.csv")

	err := NewCSVWriter(nil).WriteCSV(path, WriteOptions{
		Headers: []string{"country_from", "country_to", "migration_month", "num_migrants"},
		Records: [][]string{
			{"DE", "FR", "2020-01-01", "100"},
			{"FR", "DE", "2020-01-01", "40"},
		},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"country_from,country_to,migration_month,num_migrants\nDE,FR,2020-01-01,100\nFR,DE,2020-01-01,40\n",
		string(data))
}

func TestCSVWriter_BOMPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")

	err := NewCSVWriter(nil).WriteCSV(path, WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, byte(0xEF), data[0])

	err = NewCSVWriter(nil).WriteCSV(path, WriteOptions{
		Headers:   []string{"a"},
		Records:   [][]string{{"1"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}
