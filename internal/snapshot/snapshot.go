// Package snapshot publishes and loads the pipeline's output tables.
// A snapshot is an immutable directory of columnar files plus a signed
// manifest; a new run replaces the whole directory atomically, so the
// serving layer never observes a half-written snapshot.
package snapshot

import "mortsig/internal/models"

// Table file names inside a snapshot directory.
const (
	FileCauseDeaths    = "cause_deaths_long.parquet"
	FileCauseDeathsCSV = "cause_deaths_long.csv"
	FileGlobalByYear   = "global_by_year.parquet"
	FileEntityByYear   = "entity_by_year.parquet"
	FileCauseByYear    = "cause_by_year.parquet"
	FileCauseMix       = "cause_mix_shares.parquet"
	FileAnomalies      = "anomalies.parquet"
	FileProfile        = "profile.md"
)

// Snapshot is one complete, self-consistent set of output tables held in
// memory. Loaded snapshots are treated as read-only; a fresh pipeline
// run produces a new Snapshot value rather than mutating an old one.
type Snapshot struct {
	CauseDeaths  []models.CauseDeath
	GlobalByYear []models.GlobalYear
	EntityByYear []models.EntityYear
	CauseByYear  []models.CauseYear
	CauseMix     []models.CauseMixShare
	Anomalies    []models.Anomaly

	// Profile is the markdown data-profile report, empty if none was
	// generated.
	Profile string
}
