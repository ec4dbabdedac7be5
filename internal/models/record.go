// Package models defines the record types shared by the pipeline stages.
package models

import "fmt"

// Cause category labels. The set is closed: every cause maps to exactly
// one of these, with CategoryOther as the fallback for unmapped causes.
const (
	CategoryNCD          = "NCD"
	CategoryCommunicable = "Communicable"
	CategoryInjury       = "Injury"
	CategoryOther        = "Other"
)

// KnownCategory reports whether name is one of the closed category set.
func KnownCategory(name string) bool {
	switch name {
	case CategoryNCD, CategoryCommunicable, CategoryInjury, CategoryOther:
		return true
	}

	return false
}

// WideRow is one source row: an (entity, year) pair carrying one death
// count per cause column. A nil count means the source had no data for
// that cause, which is distinct from zero deaths.
type WideRow struct {
	Entity string
	Code   string
	Year   int
	Deaths map[string]*int

	// Line is the 1-based line number in the source file, kept so a
	// fatal validation error can name the offending row.
	Line int
}

// GroupKey identifies one (entity, cause) time series.
type GroupKey struct {
	Entity string
	Cause  string
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%s/%s", k.Entity, k.Cause)
}

// CauseDeath is one normalized long record: a single (entity, cause, year)
// observation plus the derived time-series metrics. The (Entity, Cause,
// Year) tuple is unique within a snapshot, and every derived field is
// computed from that group's own year-ordered sub-series only.
//
// Pointer fields are null when the metric is undefined (first observed
// year, zero prior-year deaths, zero-variance window). Null is not zero.
type CauseDeath struct {
	Entity        string   `json:"entity"        parquet:"entity"`
	Code          string   `json:"code"          parquet:"code"`
	Year          int      `json:"year"          parquet:"year"`
	Cause         string   `json:"cause"         parquet:"cause"`
	CauseCategory string   `json:"causeCategory" parquet:"cause_category"`
	Deaths        int      `json:"deaths"        parquet:"deaths"`
	YoYChange     *float64 `json:"yoyChange,omitempty"    parquet:"yoy_change,optional"`
	YoYPct        *float64 `json:"yoyPct,omitempty"       parquet:"yoy_pct,optional"`
	RollingAvg    float64  `json:"rollingAvg"             parquet:"rolling_avg"`
	RollingStd    *float64 `json:"rollingStd,omitempty"   parquet:"rolling_std,optional"`
	AnomalyScore  *float64 `json:"anomalyScore,omitempty" parquet:"anomaly_score,optional"`
	IsAnomaly     bool     `json:"isAnomaly"              parquet:"is_anomaly"`
}

// Key returns the record's (entity, cause) group key.
func (c *CauseDeath) Key() GroupKey {
	return GroupKey{Entity: c.Entity, Cause: c.Cause}
}

// Anomaly is a denormalized projection of an anomalous CauseDeath record,
// ranked for the signal feed. Score is always defined here: records with
// a null anomaly score are never anomalies.
type Anomaly struct {
	Entity        string   `json:"entity"        parquet:"entity"`
	Code          string   `json:"code"          parquet:"code"`
	Year          int      `json:"year"          parquet:"year"`
	Cause         string   `json:"cause"         parquet:"cause"`
	CauseCategory string   `json:"causeCategory" parquet:"cause_category"`
	Deaths        int      `json:"deaths"        parquet:"deaths"`
	RollingAvg    float64  `json:"rollingAvg"    parquet:"rolling_avg"`
	AnomalyScore  float64  `json:"anomalyScore"  parquet:"anomaly_score"`
	YoYChange     *float64 `json:"yoyChange,omitempty" parquet:"yoy_change,optional"`
}
