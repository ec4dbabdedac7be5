// Package main provides the enrich command-line tool. It loads a
// published snapshot, fetches World Bank population totals, and writes
// the long table enriched with deaths-per-100k rates.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"mortsig/internal/config"
	"mortsig/internal/enrich"
	"mortsig/internal/logger"
	"mortsig/internal/snapshot"
)

const defaultConfig = "configs/pipeline.yaml"

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	snapshotDir := flag.String("snapshot", "", "Snapshot directory to enrich (overrides config)")
	outputDir := flag.String("output", "", "Output directory (defaults to an enriched directory beside the snapshot)")
	writeCSV := flag.Bool("csv", false, "Also write the enriched table as CSV")

	flag.Parse()

	_ = godotenv.Load()

	cfg := loadConfig(*configFile)

	if *snapshotDir != "" {
		cfg.Pipeline.Snapshot.Dir = *snapshotDir
	}

	dir := *outputDir
	if dir == "" {
		// Never write into the snapshot itself: it is manifest-signed
		// and immutable once published.
		dir = defaultOutputDir(cfg.Pipeline.Snapshot.Dir)
	}

	logg := logger.NewLogger(cfg.Pipeline.Logging.Level)

	fmt.Printf("📂 Loading snapshot: %s\n", cfg.Pipeline.Snapshot.Dir)

	snap, err := snapshot.Load(cfg.Pipeline.Snapshot.Dir)
	if err != nil {
		log.Fatalf("❌ Failed to load snapshot: %v\n", err)
	}

	fmt.Printf("🌍 Fetching populations: %s (%d-%d)\n",
		cfg.Enrichment.Indicator, cfg.Enrichment.StartYear, cfg.Enrichment.EndYear)

	client := enrich.NewClient(&cfg.Enrichment, logg)

	pops, err := client.FetchPopulations()
	if err != nil {
		log.Fatalf("❌ Failed to fetch populations: %v\n", err)
	}

	enriched := enrich.Merge(snap.CauseDeaths, pops)

	matched := 0
	for i := range enriched {
		if enriched[i].DeathsPer100k != nil {
			matched++
		}
	}

	fmt.Printf("🔗 Joined %d of %d rows to a population\n", matched, len(enriched))

	path, err := enrich.Save(dir, enriched, *writeCSV)
	if err != nil {
		log.Fatalf("❌ Failed to write enriched table: %v\n", err)
	}

	fmt.Printf("✅ Saved to: %s\n", path)
}

// defaultOutputDir returns the enriched directory sitting beside the
// snapshot directory, e.g. data/snapshot -> data/enriched.
func defaultOutputDir(snapshotDir string) string {
	return filepath.Join(filepath.Dir(snapshotDir), "enriched")
}

func loadConfig(path string) *config.Config {
	if path == "" {
		if _, err := os.Stat(defaultConfig); err == nil {
			path = defaultConfig
		} else {
			return config.Default()
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	return cfg
}
