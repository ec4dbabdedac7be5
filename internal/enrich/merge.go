package enrich

import (
	"math"

	"mortsig/internal/models"
)

type codeYear struct {
	code string
	year int
}

// Merge joins the scored long table with population figures on
// (country code, year). Rows without a code or without a matching
// population keep nil rate fields; the join never drops rows.
func Merge(records []models.CauseDeath, pops []models.Population) []models.EnrichedCauseDeath {
	index := make(map[codeYear]int64, len(pops))
	for _, p := range pops {
		if p.Population > 0 {
			index[codeYear{code: p.Code, year: p.Year}] = p.Population
		}
	}

	enriched := make([]models.EnrichedCauseDeath, 0, len(records))

	for i := range records {
		rec := models.EnrichedCauseDeath{CauseDeath: records[i]}

		if rec.Code != "" {
			if pop, ok := index[codeYear{code: rec.Code, year: rec.Year}]; ok {
				rate := round2(float64(rec.CauseDeath.Deaths) / float64(pop) * 100000)

				rec.Population = &pop
				rec.DeathsPer100k = &rate
			}
		}

		enriched = append(enriched, rec)
	}

	return enriched
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
