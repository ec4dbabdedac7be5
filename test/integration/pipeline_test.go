package integration

import (
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"mortsig/internal/config"
	"mortsig/internal/ingest"
	"mortsig/internal/models"
	"mortsig/internal/normalize"
	"mortsig/internal/report"
	"mortsig/internal/score"
	"mortsig/internal/snapshot"
)

// runPipeline executes the full batch flow against the fixture CSV and
// publishes a snapshot into dir.
func runPipeline(t *testing.T, dir string) *snapshot.Snapshot {
	t.Helper()

	fixturePath := filepath.Join("..", "fixtures", "testland.csv")

	reader := ingest.NewReader()

	wide, err := reader.ReadFile(fixturePath)
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}

	causes := &config.CausesConfig{
		UnknownPolicy: config.UnknownPolicyOther,
		Categories:    config.DefaultCategories(),
	}

	processor := normalize.NewProcessor(causes, nil)

	records, err := processor.Process(wide)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	scorer, err := score.NewScorer(5, 1.5)
	if err != nil {
		t.Fatalf("NewScorer failed: %v", err)
	}

	scored, err := scorer.Score(records)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	rollups := score.BuildRollups(scored)

	snap := &snapshot.Snapshot{
		CauseDeaths:  scored,
		GlobalByYear: rollups.GlobalByYear,
		EntityByYear: rollups.EntityByYear,
		CauseByYear:  rollups.CauseByYear,
		CauseMix:     rollups.CauseMix,
		Anomalies:    score.TopAnomalies(scored, 1000),
		Profile:      report.Profile(scored),
	}

	writer := snapshot.NewWriter(dir, true, nil)
	if err := writer.Publish(snap); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	return snap
}

func findRecord(records []models.CauseDeath, cause string, year int) *models.CauseDeath {
	for i := range records {
		if records[i].Cause == cause && records[i].Year == year {
			return &records[i]
		}
	}

	return nil
}

func TestPipeline_MalariaSpike(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshot")
	runPipeline(t, dir)

	loaded, err := snapshot.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// 2 causes x 6 years.
	if len(loaded.CauseDeaths) != 12 {
		t.Fatalf("Expected 12 long records, got %d", len(loaded.CauseDeaths))
	}

	spike := findRecord(loaded.CauseDeaths, "Malaria", 1995)
	if spike == nil {
		t.Fatal("Missing Malaria/1995 record")
	}

	if spike.CauseCategory != models.CategoryCommunicable {
		t.Errorf("Expected Communicable, got %s", spike.CauseCategory)
	}

	if spike.YoYChange == nil || *spike.YoYChange != 40 {
		t.Errorf("Expected yoy_change 40, got %v", spike.YoYChange)
	}

	if spike.YoYPct == nil || *spike.YoYPct != 400 {
		t.Errorf("Expected yoy_pct 400, got %v", spike.YoYPct)
	}

	// Trailing window [10,10,10,10,50].
	if spike.RollingAvg != 18 {
		t.Errorf("Expected rolling_avg 18, got %f", spike.RollingAvg)
	}

	if spike.AnomalyScore == nil || math.Abs(*spike.AnomalyScore-1.7889) > 1e-3 {
		t.Errorf("Expected anomaly score ~1.789, got %v", spike.AnomalyScore)
	}

	if !spike.IsAnomaly {
		t.Error("Expected Malaria/1995 to be flagged")
	}
}

func TestPipeline_FlatSeriesNotFlagged(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshot")
	runPipeline(t, dir)

	loaded, err := snapshot.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, rec := range loaded.CauseDeaths {
		if rec.Cause != "Road injuries" {
			continue
		}

		if rec.AnomalyScore != nil {
			t.Errorf("Flat series year %d has score %f", rec.Year, *rec.AnomalyScore)
		}

		if rec.IsAnomaly {
			t.Errorf("Flat series year %d flagged as anomaly", rec.Year)
		}
	}
}

func TestPipeline_AnomalyFeed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshot")
	runPipeline(t, dir)

	loaded, err := snapshot.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded.Anomalies) != 1 {
		t.Fatalf("Expected exactly 1 anomaly, got %d", len(loaded.Anomalies))
	}

	top := loaded.Anomalies[0]
	if top.Entity != "Testland" || top.Cause != "Malaria" || top.Year != 1995 {
		t.Errorf("Unexpected top anomaly: %+v", top)
	}

	if top.Deaths != 50 {
		t.Errorf("Expected 50 deaths, got %d", top.Deaths)
	}
}

func TestPipeline_Rollups(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshot")
	runPipeline(t, dir)

	loaded, err := snapshot.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded.GlobalByYear) != 6 {
		t.Fatalf("Expected 6 global rollup years, got %d", len(loaded.GlobalByYear))
	}

	// 1995: 50 Malaria + 20 Road injuries.
	last := loaded.GlobalByYear[5]
	if last.Year != 1995 || last.TotalDeaths != 70 {
		t.Errorf("Expected 1995 total 70, got %+v", last)
	}

	// Cause mix for the latest year: 50/70 and 20/70.
	if len(loaded.CauseMix) != 2 {
		t.Fatalf("Expected 2 cause mix shares, got %d", len(loaded.CauseMix))
	}

	var sum float64
	for _, share := range loaded.CauseMix {
		sum += share.Share
	}

	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("Expected shares to sum to 1, got %f", sum)
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	dirA := filepath.Join(t.TempDir(), "a")
	dirB := filepath.Join(t.TempDir(), "b")

	runPipeline(t, dirA)
	runPipeline(t, dirB)

	loadedA, err := snapshot.Load(dirA)
	if err != nil {
		t.Fatalf("Load A failed: %v", err)
	}

	loadedB, err := snapshot.Load(dirB)
	if err != nil {
		t.Fatalf("Load B failed: %v", err)
	}

	if !reflect.DeepEqual(loadedA.CauseDeaths, loadedB.CauseDeaths) {
		t.Error("Long tables differ between identical runs")
	}

	if !reflect.DeepEqual(loadedA.Anomalies, loadedB.Anomalies) {
		t.Error("Anomaly feeds differ between identical runs")
	}

	if !reflect.DeepEqual(loadedA.CauseMix, loadedB.CauseMix) {
		t.Error("Cause mix tables differ between identical runs")
	}
}
