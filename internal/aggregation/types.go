package aggregation

import "time"

// Result row types for the artifact catalog. Field names match the JSON
// artifacts consumed downstream; date fields serialize in ISO-8601 form.

// MonthlyFlow is a raw bilateral observation, emitted one row per record
type MonthlyFlow struct {
	CountryFrom    string    `json:"country_from"`
	CountryTo      string    `json:"country_to"`
	MigrationMonth time.Time `json:"migration_month"`
	Migrants       float64   `json:"num_migrants"`
}

// RegionCountryFlow is a monthly roll-up from an origin region to a country
type RegionCountryFlow struct {
	RegionFrom     string    `json:"region_from"`
	CountryTo      string    `json:"country_to"`
	MigrationMonth time.Time `json:"migration_month"`
	Migrants       float64   `json:"num_migrants"`
}

// CountryRegionFlow is a monthly roll-up from a country to a destination region
type CountryRegionFlow struct {
	CountryFrom    string    `json:"country_from"`
	RegionTo       string    `json:"region_to"`
	MigrationMonth time.Time `json:"migration_month"`
	Migrants       float64   `json:"num_migrants"`
}

// RegionRegionFlow is a monthly region-to-region roll-up
type RegionRegionFlow struct {
	RegionFrom     string    `json:"region_from"`
	RegionTo       string    `json:"region_to"`
	MigrationMonth time.Time `json:"migration_month"`
	Migrants       float64   `json:"num_migrants"`
}

// SubregionFlow is a monthly sub-region-to-sub-region roll-up
type SubregionFlow struct {
	SubregionFrom  string    `json:"subregion_from"`
	SubregionTo    string    `json:"subregion_to"`
	MigrationMonth time.Time `json:"migration_month"`
	Migrants       float64   `json:"num_migrants"`
}

// IntermediateFlow is a monthly intermediate-region roll-up
type IntermediateFlow struct {
	IntermediateFrom string    `json:"intermediate_from"`
	IntermediateTo   string    `json:"intermediate_to"`
	MigrationMonth   time.Time `json:"migration_month"`
	Migrants         float64   `json:"num_migrants"`
}

// QuarterlyAverage is the mean monthly flow of a corridor within a quarter
type QuarterlyAverage struct {
	CountryFrom string  `json:"country_from"`
	CountryTo   string  `json:"country_to"`
	QuarterYear string  `json:"quarter_year"`
	Migrants    float64 `json:"num_migrants"`
}

// AnnualTotal is the summed flow of a corridor within a year
type AnnualTotal struct {
	CountryFrom string  `json:"country_from"`
	CountryTo   string  `json:"country_to"`
	Year        int     `json:"year"`
	Migrants    float64 `json:"num_migrants"`
}

// RegionAnnualTotal is the summed flow between two regions within a year
type RegionAnnualTotal struct {
	RegionFrom string  `json:"region_from"`
	RegionTo   string  `json:"region_to"`
	Year       int     `json:"year"`
	Migrants   float64 `json:"num_migrants"`
}

// SeasonalProfile is a corridor's mean monthly flow per season. Seasons with
// no observations are zero.
type SeasonalProfile struct {
	CountryFrom string  `json:"country_from"`
	CountryTo   string  `json:"country_to"`
	Winter      float64 `json:"Winter"`
	Spring      float64 `json:"Spring"`
	Summer      float64 `json:"Summer"`
	Fall        float64 `json:"Fall"`
}

// RollingFlow is one observation of a top corridor with trailing-window
// means. Rolling means are nil until their window is fully populated; the
// trend slope is replicated on every row of the corridor and nil when the
// corridor has too little history.
type RollingFlow struct {
	CountryFrom    string    `json:"country_from"`
	CountryTo      string    `json:"country_to"`
	MigrationMonth time.Time `json:"migration_month"`
	Migrants       float64   `json:"num_migrants"`
	Rolling3M      *float64  `json:"rolling_3m"`
	Rolling6M      *float64  `json:"rolling_6m"`
	TrendSlope     *float64  `json:"trend_slope"`
}

// GrossFlow is a corridor's total annual movement
type GrossFlow struct {
	CountryFrom string  `json:"country_from"`
	CountryTo   string  `json:"country_to"`
	Year        int     `json:"year"`
	Gross       float64 `json:"gross_flow"`
}

// NetFlow reconciles a corridor's annual flow against the reverse direction.
// Net is inbound minus outbound; gross is their sum. Every ordered pair with
// flow in either direction gets a row.
type NetFlow struct {
	CountryFrom string  `json:"country_from"`
	CountryTo   string  `json:"country_to"`
	Year        int     `json:"year"`
	Net         float64 `json:"net_flow"`
	Gross       float64 `json:"gross_flow"`
}

// CorridorRank ranks a corridor's annual total within its year. Rank is
// dense (ties share, no gaps); percentile uses average rank for ties.
type CorridorRank struct {
	CountryFrom string  `json:"country_from"`
	CountryTo   string  `json:"country_to"`
	Year        int     `json:"year"`
	Migrants    float64 `json:"num_migrants"`
	Rank        int     `json:"rank"`
	Percentile  float64 `json:"percentile"`
}

// GrowthRate is a corridor's year-over-year growth. Velocity is the change
// in growth rate versus the corridor's previous observation and is nil on
// the first row that has a growth rate.
type GrowthRate struct {
	CountryFrom string   `json:"country_from"`
	CountryTo   string   `json:"country_to"`
	Year        int      `json:"year"`
	Migrants    float64  `json:"num_migrants"`
	Growth      float64  `json:"growth_rate"`
	Velocity    *float64 `json:"growth_velocity"`
}

// corridor is an ordered (origin, destination) country pair
type corridor struct {
	From string
	To   string
}

// float64Ptr returns a pointer to v
func float64Ptr(v float64) *float64 {
	return &v
}
