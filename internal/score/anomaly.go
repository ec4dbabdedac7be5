package score

import (
	"math"
	"sort"

	"mortsig/internal/models"
)

// TopAnomalies projects the flagged long records into the ranked signal
// feed table: |score| descending, ties broken by year descending, then
// entity ascending, then cause ascending, truncated to limit rows.
func TopAnomalies(records []models.CauseDeath, limit int) []models.Anomaly {
	var out []models.Anomaly

	for _, rec := range records {
		if !rec.IsAnomaly || rec.AnomalyScore == nil {
			continue
		}

		out = append(out, models.Anomaly{
			Entity:        rec.Entity,
			Code:          rec.Code,
			Year:          rec.Year,
			Cause:         rec.Cause,
			CauseCategory: rec.CauseCategory,
			Deaths:        rec.Deaths,
			RollingAvg:    rec.RollingAvg,
			AnomalyScore:  *rec.AnomalyScore,
			YoYChange:     rec.YoYChange,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]

		absA, absB := math.Abs(a.AnomalyScore), math.Abs(b.AnomalyScore)
		if absA != absB {
			return absA > absB
		}

		if a.Year != b.Year {
			return a.Year > b.Year
		}

		if a.Entity != b.Entity {
			return a.Entity < b.Entity
		}

		return a.Cause < b.Cause
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}
