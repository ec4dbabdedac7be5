// Package scenario models what-if interventions: scaling a subset of
// causes for one entity by a reduction percentage from a start year
// onward and reporting the deaths averted against the baseline.
package scenario

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"mortsig/internal/models"
)

// Projection errors.
var (
	ErrMissingEntity    = errors.New("entity is required")
	ErrNoCauses         = errors.New("at least one cause is required")
	ErrInvalidReduction = errors.New("reduction_pct must be between 0 and 100")
	ErrInvalidYears     = errors.New("start_year must not exceed end_year")
	ErrNoBaseline       = errors.New("no baseline records for entity and causes")
)

// Input holds the parameters of one scenario run. EndYear of 0 means
// "through the latest baseline year".
type Input struct {
	Entity       string
	Causes       []string
	ReductionPct float64
	StartYear    int
	EndYear      int
}

// YearComparison is one year of baseline vs scenario deaths.
type YearComparison struct {
	Year           int     `json:"year"`
	BaselineDeaths float64 `json:"baselineDeaths"`
	ScenarioDeaths float64 `json:"scenarioDeaths"`
	DeathsAverted  float64 `json:"deathsAverted"`
}

// Result is the outcome of a scenario projection.
type Result struct {
	Entity               string           `json:"entity"`
	Causes               []string         `json:"causes"`
	ReductionPct         float64          `json:"reductionPct"`
	StartYear            int              `json:"startYear"`
	EndYear              int              `json:"endYear"`
	BaselineTotal        float64          `json:"baselineTotal"`
	ScenarioTotal        float64          `json:"scenarioTotal"`
	DeathsAverted        float64          `json:"deathsAverted"`
	PctReductionAchieved float64          `json:"pctReductionAchieved"`
	Yearly               []YearComparison `json:"yearlyComparison"`
	Narrative            string           `json:"narrative"`
}

// Project applies the reduction to the baseline subset. Years before the
// start year pass through unchanged; years at or after it are scaled by
// (1 - r/100). Totals are plain sums over the included years. The input
// records are read-only; projecting is stateless arithmetic.
func Project(records []models.CauseDeath, in Input) (*Result, error) {
	if in.Entity == "" {
		return nil, ErrMissingEntity
	}

	if len(in.Causes) == 0 {
		return nil, ErrNoCauses
	}

	if in.ReductionPct < 0 || in.ReductionPct > 100 {
		return nil, fmt.Errorf("%w: got %.1f", ErrInvalidReduction, in.ReductionPct)
	}

	if in.EndYear != 0 && in.StartYear > in.EndYear {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidYears, in.StartYear, in.EndYear)
	}

	wanted := make(map[string]bool, len(in.Causes))
	for _, c := range in.Causes {
		wanted[c] = true
	}

	baseline := make(map[int]float64)

	latest := 0

	for _, rec := range records {
		if rec.Entity != in.Entity || !wanted[rec.Cause] {
			continue
		}

		baseline[rec.Year] += float64(rec.Deaths)

		if rec.Year > latest {
			latest = rec.Year
		}
	}

	if len(baseline) == 0 {
		return nil, fmt.Errorf("%w: %s / %s", ErrNoBaseline, in.Entity, strings.Join(in.Causes, ", "))
	}

	end := in.EndYear
	if end == 0 {
		end = latest
	}

	factor := 1 - in.ReductionPct/100

	res := &Result{
		Entity:       in.Entity,
		Causes:       in.Causes,
		ReductionPct: in.ReductionPct,
		StartYear:    in.StartYear,
		EndYear:      end,
	}

	years := make([]int, 0, len(baseline))
	for year := range baseline {
		if year <= end {
			years = append(years, year)
		}
	}

	sort.Ints(years)

	for _, year := range years {
		deaths := baseline[year]

		projected := deaths
		if year >= in.StartYear {
			projected = deaths * factor
		}

		res.Yearly = append(res.Yearly, YearComparison{
			Year:           year,
			BaselineDeaths: deaths,
			ScenarioDeaths: projected,
			DeathsAverted:  deaths - projected,
		})

		res.BaselineTotal += deaths
		res.ScenarioTotal += projected
	}

	res.DeathsAverted = res.BaselineTotal - res.ScenarioTotal
	if res.BaselineTotal > 0 {
		res.PctReductionAchieved = res.DeathsAverted / res.BaselineTotal * 100
	}

	res.Narrative = narrative(res)

	return res, nil
}

func narrative(res *Result) string {
	return fmt.Sprintf(
		"Reducing %s mortality in %s by %.0f%% starting in %d would avert an estimated %.0f deaths through %d (%.1f%% of the baseline total).",
		strings.Join(res.Causes, ", "),
		res.Entity,
		res.ReductionPct,
		res.StartYear,
		res.DeathsAverted,
		res.EndYear,
		res.PctReductionAchieved,
	)
}
