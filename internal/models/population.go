package models

// Population is one World Bank population observation, keyed by ISO code
// and year.
type Population struct {
	Code        string `json:"code"        parquet:"code"`
	CountryName string `json:"countryName" parquet:"country_name"`
	Year        int    `json:"year"        parquet:"year"`
	Population  int64  `json:"population"  parquet:"population"`
}

// EnrichedCauseDeath is a long record joined with population, carrying a
// per-100k mortality rate. Rate and Population are null when no
// population figure exists for the record's (code, year).
type EnrichedCauseDeath struct {
	CauseDeath

	Population    *int64   `json:"population,omitempty"    parquet:"population,optional"`
	DeathsPer100k *float64 `json:"deathsPer100k,omitempty" parquet:"deaths_per_100k,optional"`
}
