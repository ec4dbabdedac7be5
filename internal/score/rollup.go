package score

import (
	"sort"

	"mortsig/internal/models"
)

// Rollups are the pre-aggregated summary tables served alongside the
// long table. All sums come from the original deaths values so nothing
// is counted twice.
type Rollups struct {
	GlobalByYear []models.GlobalYear
	EntityByYear []models.EntityYear
	CauseByYear  []models.CauseYear
	CauseMix     []models.CauseMixShare
}

// BuildRollups aggregates the long table by year, (entity, year) and
// (cause, year), and computes the latest-year cause mix shares per
// entity. Output ordering is deterministic.
func BuildRollups(records []models.CauseDeath) *Rollups {
	r := &Rollups{
		GlobalByYear: globalByYear(records),
		EntityByYear: entityByYear(records),
		CauseByYear:  causeByYear(records),
		CauseMix:     causeMix(records),
	}

	return r
}

func globalByYear(records []models.CauseDeath) []models.GlobalYear {
	totals := make(map[int]int64)

	for _, rec := range records {
		totals[rec.Year] += int64(rec.Deaths)
	}

	out := make([]models.GlobalYear, 0, len(totals))
	for year, deaths := range totals {
		out = append(out, models.GlobalYear{Year: year, TotalDeaths: deaths})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })

	return out
}

type entityYearKey struct {
	entity string
	year   int
}

func entityByYear(records []models.CauseDeath) []models.EntityYear {
	totals := make(map[entityYearKey]int64)
	codes := make(map[entityYearKey]string)

	for _, rec := range records {
		key := entityYearKey{entity: rec.Entity, year: rec.Year}
		totals[key] += int64(rec.Deaths)
		codes[key] = rec.Code
	}

	out := make([]models.EntityYear, 0, len(totals))
	for key, deaths := range totals {
		out = append(out, models.EntityYear{
			Entity:      key.entity,
			Code:        codes[key],
			Year:        key.year,
			TotalDeaths: deaths,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Entity != out[j].Entity {
			return out[i].Entity < out[j].Entity
		}

		return out[i].Year < out[j].Year
	})

	return out
}

type causeYearKey struct {
	cause string
	year  int
}

func causeByYear(records []models.CauseDeath) []models.CauseYear {
	totals := make(map[causeYearKey]int64)
	categories := make(map[causeYearKey]string)

	for _, rec := range records {
		key := causeYearKey{cause: rec.Cause, year: rec.Year}
		totals[key] += int64(rec.Deaths)
		categories[key] = rec.CauseCategory
	}

	out := make([]models.CauseYear, 0, len(totals))
	for key, deaths := range totals {
		out = append(out, models.CauseYear{
			Cause:         key.cause,
			CauseCategory: categories[key],
			Year:          key.year,
			TotalDeaths:   deaths,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Cause != out[j].Cause {
			return out[i].Cause < out[j].Cause
		}

		return out[i].Year < out[j].Year
	})

	return out
}

// causeMix computes, for the latest observed year, each entity's share of
// deaths per cause. Entities with zero total deaths in that year are
// skipped: a share of nothing is undefined.
func causeMix(records []models.CauseDeath) []models.CauseMixShare {
	latest := 0
	for _, rec := range records {
		if rec.Year > latest {
			latest = rec.Year
		}
	}

	entityTotals := make(map[string]int64)
	entityCodes := make(map[string]string)
	causeTotals := make(map[models.GroupKey]int64)

	for _, rec := range records {
		if rec.Year != latest {
			continue
		}

		entityTotals[rec.Entity] += int64(rec.Deaths)
		entityCodes[rec.Entity] = rec.Code
		causeTotals[rec.Key()] += int64(rec.Deaths)
	}

	out := make([]models.CauseMixShare, 0, len(causeTotals))

	for key, deaths := range causeTotals {
		total := entityTotals[key.Entity]
		if total == 0 {
			continue
		}

		out = append(out, models.CauseMixShare{
			Entity: key.Entity,
			Code:   entityCodes[key.Entity],
			Cause:  key.Cause,
			Share:  float64(deaths) / float64(total),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Entity != out[j].Entity {
			return out[i].Entity < out[j].Entity
		}

		return out[i].Cause < out[j].Cause
	})

	return out
}
