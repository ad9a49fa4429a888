package classification

import (
	"fmt"
	"strings"

	apperrors "migflowcli/internal/errors"
)

// Kind identifies a level of the regional hierarchy
type Kind string

const (
	// KindRegion is the top hierarchy level (e.g. 142 "Asia")
	KindRegion Kind = "Region"
	// KindSubregion is the second hierarchy level (e.g. 34 "Southern Asia")
	KindSubregion Kind = "Subregion"
	// KindIntermediate is the optional third hierarchy level
	KindIntermediate Kind = "Intermediate"
)

// Classification table column names (UN M49 export layout)
const (
	colCountryCode      = "ISO-alpha2 Code"
	colRegionCode       = "Region Code"
	colRegionName       = "Region Name"
	colSubregionCode    = "Sub-region Code"
	colSubregionName    = "Sub-region Name"
	colIntermediateCode = "Intermediate Region Code"
	colIntermediateName = "Intermediate Region Name"
)

// HierarchyIndex maps ISO alpha-2 country codes to their regional hierarchy
// codes and resolves codes to human-readable names. Built once from the
// classification table and treated as read-only by every consumer.
type HierarchyIndex struct {
	countryToRegion       map[string]string
	countryToSubregion    map[string]string
	countryToIntermediate map[string]string

	regionNames       map[string]string
	subregionNames    map[string]string
	intermediateNames map[string]string
}

// Build constructs a HierarchyIndex from classification table rows. The first
// row is the header; required columns missing from it fail the build. Rows
// with an empty country code are skipped. Duplicate country codes and
// duplicate region codes resolve last-row-wins, matching the upstream table
// semantics (the source does not validate uniqueness).
func Build(rows [][]string) (*HierarchyIndex, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewMissingColumnError(colCountryCode)
	}

	columns := indexColumns(rows[0])
	for _, required := range []string{colCountryCode, colRegionCode, colRegionName, colSubregionCode, colSubregionName} {
		if _, ok := columns[required]; !ok {
			return nil, apperrors.NewMissingColumnError(required)
		}
	}

	idx := &HierarchyIndex{
		countryToRegion:       make(map[string]string),
		countryToSubregion:    make(map[string]string),
		countryToIntermediate: make(map[string]string),
		regionNames:           make(map[string]string),
		subregionNames:        make(map[string]string),
		intermediateNames:     make(map[string]string),
	}

	for _, row := range rows[1:] {
		country := cell(row, columns, colCountryCode)
		if country == "" {
			continue
		}

		regionCode := cell(row, columns, colRegionCode)
		subregionCode := cell(row, columns, colSubregionCode)
		intermediateCode := cell(row, columns, colIntermediateCode)

		idx.countryToRegion[country] = regionCode
		idx.countryToSubregion[country] = subregionCode
		idx.countryToIntermediate[country] = intermediateCode

		if regionCode != "" {
			if name := cell(row, columns, colRegionName); name != "" {
				idx.regionNames[regionCode] = name
			}
		}
		if subregionCode != "" {
			if name := cell(row, columns, colSubregionName); name != "" {
				idx.subregionNames[subregionCode] = name
			}
		}
		if intermediateCode != "" {
			if name := cell(row, columns, colIntermediateName); name != "" {
				idx.intermediateNames[intermediateCode] = name
			}
		}
	}

	return idx, nil
}

// RegionCode returns the region code for a country, if mapped
func (idx *HierarchyIndex) RegionCode(country string) (string, bool) {
	code, ok := idx.countryToRegion[country]
	return code, ok && code != ""
}

// SubregionCode returns the sub-region code for a country, if mapped
func (idx *HierarchyIndex) SubregionCode(country string) (string, bool) {
	code, ok := idx.countryToSubregion[country]
	return code, ok && code != ""
}

// IntermediateCode returns the intermediate-region code for a country, if
// mapped. Many countries legitimately have none.
func (idx *HierarchyIndex) IntermediateCode(country string) (string, bool) {
	code, ok := idx.countryToIntermediate[country]
	return code, ok && code != ""
}

// Countries returns the number of countries in the index
func (idx *HierarchyIndex) Countries() int {
	return len(idx.countryToRegion)
}

// NameFor resolves a hierarchy code to its recorded name. Codes that were
// never associated with a name resolve to the synthesized label
// "<Kind>_<code>" (e.g. "Region_142") so a valid but unnamed code still
// produces a usable row instead of failing closed.
func (idx *HierarchyIndex) NameFor(kind Kind, code string) string {
	var names map[string]string
	switch kind {
	case KindRegion:
		names = idx.regionNames
	case KindSubregion:
		names = idx.subregionNames
	case KindIntermediate:
		names = idx.intermediateNames
	}

	if name, ok := names[code]; ok {
		return name
	}
	return fmt.Sprintf("%s_%s", kind, code)
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
