package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "migflowcli/internal/errors"
)

func header() []string {
	return []string{
		"ISO-alpha2 Code", "Region Code", "Region Name",
		"Sub-region Code", "Sub-region Name",
		"Intermediate Region Code", "Intermediate Region Name",
	}
}

func TestBuild(t *testing.T) {
	rows := [][]string{
		header(),
		{"DE", "150", "Europe", "155", "Western Europe", "", ""},
		{"JM", "019", "Americas", "419", "Latin America and the Caribbean", "029", "Caribbean"},
		{"", "150", "Europe", "154", "Northern Europe", "", ""}, // empty country code: skipped
	}

	idx, err := Build(rows)
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Countries())

	code, ok := idx.RegionCode("DE")
	require.True(t, ok)
	assert.Equal(t, "150", code)

	code, ok = idx.SubregionCode("JM")
	require.True(t, ok)
	assert.Equal(t, "419", code)

	code, ok = idx.IntermediateCode("JM")
	require.True(t, ok)
	assert.Equal(t, "029", code)

	_, ok = idx.IntermediateCode("DE")
	assert.False(t, ok, "DE has no intermediate region")

	_, ok = idx.RegionCode("XX")
	assert.False(t, ok)

	assert.Equal(t, "Europe", idx.NameFor(KindRegion, "150"))
	assert.Equal(t, "Caribbean", idx.NameFor(KindIntermediate, "029"))
}

func TestBuild_MissingRequiredColumn(t *testing.T) {
	tests := []struct {
		name   string
		header []string
	}{
		{"no country code", []string{"Region Code", "Region Name", "Sub-region Code", "Sub-region Name"}},
		{"no region name", []string{"ISO-alpha2 Code", "Region Code", "Sub-region Code", "Sub-region Name"}},
		{"empty input", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows [][]string
			if tt.header != nil {
				rows = [][]string{tt.header}
			}

			_, err := Build(rows)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingColumn))
		})
	}
}

func TestBuild_IntermediateColumnsOptional(t *testing.T) {
	rows := [][]string{
		{"ISO-alpha2 Code", "Region Code", "Region Name", "Sub-region Code", "Sub-region Name"},
		{"DE", "150", "Europe", "155", "Western Europe"},
	}

	idx, err := Build(rows)
	require.NoError(t, err)

	_, ok := idx.IntermediateCode("DE")
	assert.False(t, ok)
}

func TestBuild_LastRowWins(t *testing.T) {
	rows := [][]string{
		header(),
		{"DE", "150", "Europe", "155", "Western Europe", "", ""},
		{"DE", "142", "Asia", "34", "Southern Asia", "", ""},
	}

	idx, err := Build(rows)
	require.NoError(t, err)

	code, ok := idx.RegionCode("DE")
	require.True(t, ok)
	assert.Equal(t, "142", code)
	assert.Equal(t, 1, idx.Countries())
}

func TestNameFor_Fallback(t *testing.T) {
	idx, err := Build([][]string{header()})
	require.NoError(t, err)

	// Fallback fires even on the very first lookup of an unnamed code
	assert.Equal(t, "Region_142", idx.NameFor(KindRegion, "142"))
	assert.Equal(t, "Subregion_21", idx.NameFor(KindSubregion, "21"))
	assert.Equal(t, "Intermediate_911", idx.NameFor(KindIntermediate, "911"))
}

func TestNameFor_NeverEmptyForClassifiedCountries(t *testing.T) {
	rows := [][]string{
		header(),
		{"DE", "150", "Europe", "155", "Western Europe", "", ""},
		{"AQ", "999", "", "998", "", "", ""}, // coded but unnamed
	}

	idx, err := Build(rows)
	require.NoError(t, err)

	for _, country := range []string{"DE", "AQ"} {
		regionCode, ok := idx.RegionCode(country)
		require.True(t, ok)
		assert.NotEmpty(t, idx.NameFor(KindRegion, regionCode))

		subCode, ok := idx.SubregionCode(country)
		require.True(t, ok)
		assert.NotEmpty(t, idx.NameFor(KindSubregion, subCode))
	}

	assert.Equal(t, "Region_999", idx.NameFor(KindRegion, "999"))
}

func TestBuild_NameLastWriterWins(t *testing.T) {
	rows := [][]string{
		header(),
		{"DE", "150", "Europe", "155", "Western Europe", "", ""},
		{"FR", "150", "Europa", "155", "Western Europe", "", ""},
	}

	idx, err := Build(rows)
	require.NoError(t, err)

	assert.Equal(t, "Europa", idx.NameFor(KindRegion, "150"))
}
