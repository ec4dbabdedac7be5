package enrich

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"mortsig/internal/models"
)

// Output file names for the enriched table.
const (
	FileEnriched    = "cause_deaths_enriched.parquet"
	FileEnrichedCSV = "cause_deaths_enriched.csv"
)

var enrichedCSVHeader = []string{
	"entity", "code", "year", "cause", "cause_category", "deaths",
	"population", "deaths_per_100k",
}

// Save writes the enriched table into dir as parquet, and optionally as
// CSV. It returns the parquet path.
func Save(dir string, rows []models.EnrichedCauseDeath, writeCSV bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, FileEnriched)

	if err := parquet.WriteFile(path, rows); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", FileEnriched, err)
	}

	if writeCSV {
		if err := saveCSV(filepath.Join(dir, FileEnrichedCSV), rows); err != nil {
			return "", err
		}
	}

	return path, nil
}

func saveCSV(path string, rows []models.EnrichedCauseDeath) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV export: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if err := cw.Write(enrichedCSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range rows {
		rec := &rows[i]

		population := ""
		if rec.Population != nil {
			population = strconv.FormatInt(*rec.Population, 10)
		}

		rate := ""
		if rec.DeathsPer100k != nil {
			rate = strconv.FormatFloat(*rec.DeathsPer100k, 'f', -1, 64)
		}

		row := []string{
			rec.Entity,
			rec.Code,
			strconv.Itoa(rec.Year),
			rec.Cause,
			rec.CauseCategory,
			strconv.Itoa(rec.CauseDeath.Deaths),
			population,
			rate,
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
