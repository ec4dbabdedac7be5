// Package report renders the data-profile summary of a pipeline run as
// markdown with display-width-aligned tables.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"mortsig/internal/models"
)

const topCount = 10

// Profile builds a markdown profile of the long table: row counts, year
// range, top entities and causes by total deaths, and deaths by
// category.
func Profile(records []models.CauseDeath) string {
	var sb strings.Builder

	sb.WriteString("# Data Profile\n\n")

	if len(records) == 0 {
		sb.WriteString("No records.\n")

		return sb.String()
	}

	entities := make(map[string]int64)
	causes := make(map[string]int64)
	categories := make(map[string]int64)

	minYear, maxYear := records[0].Year, records[0].Year

	var anomalies int

	for i := range records {
		rec := &records[i]

		entities[rec.Entity] += int64(rec.Deaths)
		causes[rec.Cause] += int64(rec.Deaths)
		categories[rec.CauseCategory] += int64(rec.Deaths)

		if rec.Year < minYear {
			minYear = rec.Year
		}

		if rec.Year > maxYear {
			maxYear = rec.Year
		}

		if rec.IsAnomaly {
			anomalies++
		}
	}

	sb.WriteString(fmt.Sprintf("- Rows: %s\n", formatCount(int64(len(records)))))
	sb.WriteString(fmt.Sprintf("- Entities: %d\n", len(entities)))
	sb.WriteString(fmt.Sprintf("- Causes: %d\n", len(causes)))
	sb.WriteString(fmt.Sprintf("- Years: %d-%d\n", minYear, maxYear))
	sb.WriteString(fmt.Sprintf("- Anomalies flagged: %s\n\n", formatCount(int64(anomalies))))

	sb.WriteString("## Top entities by total deaths\n\n")
	writeTotalsTable(&sb, "Entity", entities)

	sb.WriteString("\n## Top causes by total deaths\n\n")
	writeTotalsTable(&sb, "Cause", causes)

	sb.WriteString("\n## Deaths by category\n\n")
	writeTotalsTable(&sb, "Category", categories)

	return sb.String()
}

type totalRow struct {
	name  string
	total int64
}

func writeTotalsTable(sb *strings.Builder, label string, totals map[string]int64) {
	rows := make([]totalRow, 0, len(totals))
	for name, total := range totals {
		rows = append(rows, totalRow{name: name, total: total})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].total != rows[j].total {
			return rows[i].total > rows[j].total
		}

		return rows[i].name < rows[j].name
	})

	if len(rows) > topCount {
		rows = rows[:topCount]
	}

	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, []string{label, "Deaths"})

	for _, row := range rows {
		cells = append(cells, []string{row.name, formatCount(row.total)})
	}

	for _, line := range renderTable(cells) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

// renderTable lays out a markdown table with columns padded to the
// widest cell by display width. The first row is the header; a
// separator row is inserted after it.
func renderTable(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}

	colCount := len(rows[0])
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)

	for _, row := range rows {
		for i := 0; i < len(row) && i < colCount; i++ {
			width := runewidth.StringWidth(row[i])
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Separator rows need at least "---".
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var result []string

	for i, row := range rows {
		result = append(result, renderRow(row, colWidths, false))

		if i == 0 {
			result = append(result, renderRow(nil, colWidths, true))
		}
	}

	return result
}

func renderRow(row []string, colWidths []int, separator bool) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		sb.WriteString(" ")

		if separator {
			sb.WriteString(strings.Repeat("-", width))
		} else {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(content)

			if padding := width - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

// formatCount renders an integer with thousands separators.
func formatCount(v int64) string {
	s := strconv.FormatInt(v, 10)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}

	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}

	return out
}
