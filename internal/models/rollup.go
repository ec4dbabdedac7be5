package models

// Rollup records are purely derived: recomputed from the long table on
// every run, summed from the original deaths values (never from another
// rollup) so nothing is double-counted.

// GlobalYear is total deaths across all entities and causes for one year.
type GlobalYear struct {
	Year        int   `json:"year"        parquet:"year"`
	TotalDeaths int64 `json:"totalDeaths" parquet:"total_deaths"`
}

// EntityYear is total deaths across all causes for one (entity, year).
type EntityYear struct {
	Entity      string `json:"entity"      parquet:"entity"`
	Code        string `json:"code"        parquet:"code"`
	Year        int    `json:"year"        parquet:"year"`
	TotalDeaths int64  `json:"totalDeaths" parquet:"total_deaths"`
}

// CauseYear is total deaths across all entities for one (cause, year).
type CauseYear struct {
	Cause         string `json:"cause"         parquet:"cause"`
	CauseCategory string `json:"causeCategory" parquet:"cause_category"`
	Year          int    `json:"year"          parquet:"year"`
	TotalDeaths   int64  `json:"totalDeaths"   parquet:"total_deaths"`
}

// CauseMixShare is one entity's share of deaths attributed to one cause
// in the latest observed year. Shares for an entity sum to 1.
type CauseMixShare struct {
	Entity string  `json:"entity" parquet:"entity"`
	Code   string  `json:"code"   parquet:"code"`
	Cause  string  `json:"cause"  parquet:"cause"`
	Share  float64 `json:"share"  parquet:"share"`
}
