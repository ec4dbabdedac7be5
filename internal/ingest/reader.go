// Package ingest reads the raw wide-format mortality table: one row per
// (entity, year) with one numeric column per cause.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"mortsig/internal/models"
)

// Identifying column names in the source file.
const (
	ColumnEntity = "Entity"
	ColumnCode   = "Code"
	ColumnYear   = "Year"
)

// Ingest errors. Any of these aborts the run: a malformed source table
// must never produce a partial snapshot.
var (
	ErrEmptyFile         = errors.New("source file has no header row")
	ErrMissingIDColumn   = errors.New("source file is missing an identifying column")
	ErrNoCauseColumns    = errors.New("source file has no cause columns")
	ErrMissingEntity     = errors.New("row is missing entity")
	ErrMissingYear       = errors.New("row is missing year")
	ErrUnparseableYear   = errors.New("row has unparseable year")
	ErrUnparseableDeaths = errors.New("row has unparseable death count")
	ErrNegativeDeaths    = errors.New("row has negative death count")
)

// Reader parses the wide source table into typed rows.
type Reader struct{}

// NewReader creates a new reader instance.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFile reads and parses a wide CSV file.
func (r *Reader) ReadFile(path string) ([]models.WideRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	defer f.Close()

	rows, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rows, nil
}

// Read parses wide CSV content. The first record is the header; verbose
// cause headers in the Kaggle style ("Deaths - Malaria - Sex: Both - Age:
// All Ages (Number)") are reduced to the bare cause name.
func (r *Reader) Read(rd io.Reader) ([]models.WideRow, error) {
	cr := csv.NewReader(rd)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	layout, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []models.WideRow

	line := 1

	for {
		record, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}

		line++

		if readErr != nil {
			return nil, fmt.Errorf("line %d: %w", line, readErr)
		}

		row, rowErr := parseRow(record, layout, line)
		if rowErr != nil {
			return nil, rowErr
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// headerLayout maps column positions to their roles.
type headerLayout struct {
	entityIdx int
	codeIdx   int
	yearIdx   int
	causes    map[int]string
}

func parseHeader(header []string) (*headerLayout, error) {
	layout := &headerLayout{
		entityIdx: -1,
		codeIdx:   -1,
		yearIdx:   -1,
		causes:    make(map[int]string),
	}

	for i, col := range header {
		switch strings.TrimSpace(col) {
		case ColumnEntity:
			layout.entityIdx = i
		case ColumnCode:
			layout.codeIdx = i
		case ColumnYear:
			layout.yearIdx = i
		default:
			layout.causes[i] = CleanColumnName(col)
		}
	}

	if layout.entityIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingIDColumn, ColumnEntity)
	}

	if layout.yearIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingIDColumn, ColumnYear)
	}

	if len(layout.causes) == 0 {
		return nil, ErrNoCauseColumns
	}

	return layout, nil
}

func parseRow(record []string, layout *headerLayout, line int) (models.WideRow, error) {
	row := models.WideRow{
		Deaths: make(map[string]*int, len(layout.causes)),
		Line:   line,
	}

	row.Entity = strings.TrimSpace(record[layout.entityIdx])
	if row.Entity == "" {
		return row, fmt.Errorf("%w: line %d", ErrMissingEntity, line)
	}

	if layout.codeIdx >= 0 {
		row.Code = strings.TrimSpace(record[layout.codeIdx])
	}

	yearStr := strings.TrimSpace(record[layout.yearIdx])
	if yearStr == "" {
		return row, fmt.Errorf("%w: line %d", ErrMissingYear, line)
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return row, fmt.Errorf("%w: line %d: %q", ErrUnparseableYear, line, yearStr)
	}

	row.Year = year

	for idx, cause := range layout.causes {
		raw := strings.TrimSpace(record[idx])
		if raw == "" {
			// Absent means "no data", not zero deaths.
			row.Deaths[cause] = nil

			continue
		}

		v, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return row, fmt.Errorf("%w: line %d, column %q: %q", ErrUnparseableDeaths, line, cause, raw)
		}

		if v < 0 {
			return row, fmt.Errorf("%w: line %d, column %q: %q", ErrNegativeDeaths, line, cause, raw)
		}

		deaths := int(v)
		row.Deaths[cause] = &deaths
	}

	return row, nil
}

// CleanColumnName reduces a verbose cause header to the bare cause name.
// Headers without the " - " separators are returned trimmed as-is.
func CleanColumnName(col string) string {
	col = strings.TrimSpace(col)

	if !strings.Contains(col, " - ") {
		return col
	}

	parts := strings.Split(col, " - ")
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[1])
	}

	return col
}
