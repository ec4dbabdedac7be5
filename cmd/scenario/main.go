// Package main provides the scenario command-line tool. It projects
// what-if mortality reductions against a published snapshot, either
// from an intervention template or from explicit flags.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"mortsig/internal/scenario"
	"mortsig/internal/snapshot"
)

func main() {
	snapshotDir := flag.String("snapshot", "data/snapshot", "Snapshot directory")
	entity := flag.String("entity", "", "Entity to project (e.g. \"Nigeria\")")
	causesFlag := flag.String("causes", "", "Comma-separated causes (overridden by -template)")
	reduction := flag.Float64("reduction", 0, "Reduction percentage 0-100 (overridden by -template)")
	startYear := flag.Int("start", 0, "First year the intervention applies")
	endYear := flag.Int("end", 0, "Last year to project (0 = latest in data)")
	templateID := flag.String("template", "", "Intervention template ID (see -list)")
	listTemplates := flag.Bool("list", false, "List intervention templates and exit")

	flag.Parse()

	if *listTemplates {
		printTemplates()
		os.Exit(0)
	}

	in := scenario.Input{
		Entity:       *entity,
		ReductionPct: *reduction,
		StartYear:    *startYear,
		EndYear:      *endYear,
	}

	if *causesFlag != "" {
		for _, c := range strings.Split(*causesFlag, ",") {
			if c = strings.TrimSpace(c); c != "" {
				in.Causes = append(in.Causes, c)
			}
		}
	}

	if *templateID != "" {
		tmpl, ok := scenario.FindTemplate(*templateID)
		if !ok {
			log.Fatalf("❌ Unknown template: %s (use -list)\n", *templateID)
		}

		fmt.Printf("📋 Template: %s (%s evidence)\n", tmpl.Name, tmpl.EvidenceLevel)

		in.Causes = tmpl.Causes
		in.ReductionPct = tmpl.SuggestedReduction
	}

	fmt.Printf("📂 Loading snapshot: %s\n", *snapshotDir)

	snap, err := snapshot.Load(*snapshotDir)
	if err != nil {
		log.Fatalf("❌ Failed to load snapshot: %v\n", err)
	}

	result, err := scenario.Project(snap.CauseDeaths, in)
	if err != nil {
		log.Fatalf("❌ Projection failed: %v\n", err)
	}

	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Year", "Baseline", "Scenario", "Averted"})

	for _, yr := range result.Yearly {
		table.Append([]string{
			strconv.Itoa(yr.Year),
			formatDeaths(yr.BaselineDeaths),
			formatDeaths(yr.ScenarioDeaths),
			formatDeaths(yr.DeathsAverted),
		})
	}

	table.Append([]string{
		"Total",
		formatDeaths(result.BaselineTotal),
		formatDeaths(result.ScenarioTotal),
		formatDeaths(result.DeathsAverted),
	})

	table.Render()

	fmt.Printf("\n%s\n", result.Narrative)
}

func printTemplates() {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Reduction", "Evidence"})

	for _, tmpl := range scenario.Templates() {
		table.Append([]string{
			tmpl.ID,
			tmpl.Name,
			strconv.FormatFloat(tmpl.SuggestedReduction, 'f', 0, 64) + "%",
			tmpl.EvidenceLevel,
		})
	}

	table.Render()
}

func formatDeaths(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
