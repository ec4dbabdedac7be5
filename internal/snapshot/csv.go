package snapshot

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"mortsig/internal/models"
)

// longCSVHeader is the column order of the CSV export of the long table.
var longCSVHeader = []string{
	"entity", "code", "year", "cause", "cause_category", "deaths",
	"yoy_change", "yoy_pct", "rolling_avg", "rolling_std",
	"anomaly_score", "is_anomaly",
}

// writeLongCSV exports the long table as CSV. Null metrics are written
// as empty cells, keeping them distinguishable from zero.
func writeLongCSV(path string, records []models.CauseDeath) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV export: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if err := cw.Write(longCSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range records {
		rec := &records[i]

		row := []string{
			rec.Entity,
			rec.Code,
			strconv.Itoa(rec.Year),
			rec.Cause,
			rec.CauseCategory,
			strconv.Itoa(rec.Deaths),
			formatNullable(rec.YoYChange),
			formatNullable(rec.YoYPct),
			formatFloat(rec.RollingAvg),
			formatNullable(rec.RollingStd),
			formatNullable(rec.AnomalyScore),
			strconv.FormatBool(rec.IsAnomaly),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV export: %w", err)
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}

	return formatFloat(*v)
}
