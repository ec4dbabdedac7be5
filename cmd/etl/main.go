// Package main provides the etl command-line tool: it ingests the wide
// mortality CSV, normalizes and scores it, and publishes a snapshot.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"mortsig/internal/config"
	"mortsig/internal/ingest"
	"mortsig/internal/logger"
	"mortsig/internal/models"
	"mortsig/internal/normalize"
	"mortsig/internal/report"
	"mortsig/internal/score"
	"mortsig/internal/snapshot"
)

const defaultConfig = "configs/pipeline.yaml"

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	inputPath := flag.String("input", "", "Wide CSV input path (overrides config)")
	snapshotDir := flag.String("snapshot", "", "Snapshot output directory (overrides config)")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	// Optional .env for local runs; absence is fine.
	_ = godotenv.Load()

	cfg := loadConfig(*configFile)

	if *inputPath != "" {
		cfg.Pipeline.Input.Path = *inputPath
	}

	if *snapshotDir != "" {
		cfg.Pipeline.Snapshot.Dir = *snapshotDir
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v\n", err)
	}

	logg := logger.NewLogger(cfg.Pipeline.Logging.Level)

	fmt.Printf("📂 Reading: %s\n", cfg.Pipeline.Input.Path)

	reader := ingest.NewReader()

	wide, err := reader.ReadFile(cfg.Pipeline.Input.Path)
	if err != nil {
		log.Fatalf("❌ Failed to read input: %v\n", err)
	}

	fmt.Printf("🔄 Normalizing %d wide rows\n", len(wide))

	processor := normalize.NewProcessor(&cfg.Pipeline.Causes, logg)

	records, err := processor.Process(wide)
	if err != nil {
		log.Fatalf("❌ Normalization failed: %v\n", err)
	}

	fmt.Printf("📈 Scoring %d records (window=%d, threshold=%.2f)\n",
		len(records), cfg.Pipeline.Anomaly.RollingWindow, cfg.Pipeline.Anomaly.ZScoreThreshold)

	scorer, err := score.NewScorer(cfg.Pipeline.Anomaly.RollingWindow, cfg.Pipeline.Anomaly.ZScoreThreshold)
	if err != nil {
		log.Fatalf("❌ Failed to create scorer: %v\n", err)
	}

	scored, err := scorer.Score(records)
	if err != nil {
		log.Fatalf("❌ Scoring failed: %v\n", err)
	}

	rollups := score.BuildRollups(scored)
	anomalies := score.TopAnomalies(scored, cfg.Pipeline.Anomaly.TopAnomalies)

	snap := &snapshot.Snapshot{
		CauseDeaths:  scored,
		GlobalByYear: rollups.GlobalByYear,
		EntityByYear: rollups.EntityByYear,
		CauseByYear:  rollups.CauseByYear,
		CauseMix:     rollups.CauseMix,
		Anomalies:    anomalies,
		Profile:      report.Profile(scored),
	}

	writer := snapshot.NewWriter(cfg.Pipeline.Snapshot.Dir, cfg.Pipeline.Snapshot.WriteCSV, logg)

	if err := writer.Publish(snap); err != nil {
		log.Fatalf("❌ Failed to publish snapshot: %v\n", err)
	}

	fmt.Printf("✅ Snapshot published: %s\n\n", cfg.Pipeline.Snapshot.Dir)

	printSummary(snap)
	printTopAnomalies(anomalies)
}

func loadConfig(path string) *config.Config {
	if path == "" {
		if _, err := os.Stat(defaultConfig); err == nil {
			path = defaultConfig
		} else {
			fmt.Println("⚙️  Using built-in defaults")

			return config.Default()
		}
	}

	fmt.Printf("⚙️  Loading configuration from: %s\n", path)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	return cfg
}

func printSummary(snap *snapshot.Snapshot) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Table", "Rows"})

	table.Append([]string{"cause_deaths_long", strconv.Itoa(len(snap.CauseDeaths))})
	table.Append([]string{"global_by_year", strconv.Itoa(len(snap.GlobalByYear))})
	table.Append([]string{"entity_by_year", strconv.Itoa(len(snap.EntityByYear))})
	table.Append([]string{"cause_by_year", strconv.Itoa(len(snap.CauseByYear))})
	table.Append([]string{"cause_mix_shares", strconv.Itoa(len(snap.CauseMix))})
	table.Append([]string{"anomalies", strconv.Itoa(len(snap.Anomalies))})

	table.Render()
}

func printTopAnomalies(anomalies []models.Anomaly) {
	if len(anomalies) == 0 {
		fmt.Println("No anomalies flagged.")

		return
	}

	limit := 10
	if len(anomalies) < limit {
		limit = len(anomalies)
	}

	fmt.Printf("\n🔎 Top %d anomalies:\n", limit)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Entity", "Cause", "Year", "Deaths", "Score"})

	for _, a := range anomalies[:limit] {
		table.Append([]string{
			a.Entity,
			a.Cause,
			strconv.Itoa(a.Year),
			strconv.Itoa(a.Deaths),
			strconv.FormatFloat(a.AnomalyScore, 'f', 2, 64),
		})
	}

	table.Render()
}

func printUsage() {
	fmt.Println("Usage: etl [-config <pipeline.yaml>] [-input <wide.csv>] [-snapshot <dir>]")
	fmt.Println()
	flag.PrintDefaults()
}
