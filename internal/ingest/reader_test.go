package ingest

import (
	"errors"
	"strings"
	"testing"
)

const sampleCSV = `Entity,Code,Year,Deaths - Malaria - Sex: Both - Age: All Ages (Number),Deaths - Road injuries - Sex: Both - Age: All Ages (Number)
Nigeria,NGA,1990,1000,200
Nigeria,NGA,1991,,210
France,FRA,1990,5,300
`

func TestRead_Valid(t *testing.T) {
	r := NewReader()

	rows, err := r.Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Entity != "Nigeria" || first.Code != "NGA" || first.Year != 1990 {
		t.Errorf("Unexpected first row identity: %+v", first)
	}

	if v := first.Deaths["Malaria"]; v == nil || *v != 1000 {
		t.Errorf("Expected Malaria=1000, got %v", v)
	}

	if v := first.Deaths["Road injuries"]; v == nil || *v != 200 {
		t.Errorf("Expected Road injuries=200, got %v", v)
	}

	if first.Line != 2 {
		t.Errorf("Expected source line 2 for first data row, got %d", first.Line)
	}
}

func TestRead_EmptyCellIsNullNotZero(t *testing.T) {
	r := NewReader()

	rows, err := r.Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if v := rows[1].Deaths["Malaria"]; v != nil {
		t.Errorf("Expected empty cell to stay null, got %d", *v)
	}

	if v := rows[1].Deaths["Road injuries"]; v == nil || *v != 210 {
		t.Errorf("Expected Road injuries=210 beside the null cell, got %v", v)
	}
}

func TestRead_EmptyFile(t *testing.T) {
	r := NewReader()

	if _, err := r.Read(strings.NewReader("")); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("Expected ErrEmptyFile, got %v", err)
	}
}

func TestRead_MissingIdentifyingColumns(t *testing.T) {
	r := NewReader()

	csv := "Code,Year,Deaths - Malaria - Sex: Both - Age: All Ages (Number)\nNGA,1990,5\n"
	if _, err := r.Read(strings.NewReader(csv)); !errors.Is(err, ErrMissingIDColumn) {
		t.Errorf("Expected ErrMissingIDColumn without Entity, got %v", err)
	}

	csv = "Entity,Code,Deaths - Malaria - Sex: Both - Age: All Ages (Number)\nNigeria,NGA,5\n"
	if _, err := r.Read(strings.NewReader(csv)); !errors.Is(err, ErrMissingIDColumn) {
		t.Errorf("Expected ErrMissingIDColumn without Year, got %v", err)
	}
}

func TestRead_NoCauseColumns(t *testing.T) {
	r := NewReader()

	csv := "Entity,Code,Year\nNigeria,NGA,1990\n"
	if _, err := r.Read(strings.NewReader(csv)); !errors.Is(err, ErrNoCauseColumns) {
		t.Errorf("Expected ErrNoCauseColumns, got %v", err)
	}
}

func TestRead_RowErrors(t *testing.T) {
	header := "Entity,Code,Year,Deaths - Malaria - Sex: Both - Age: All Ages (Number)\n"

	tests := []struct {
		name    string
		row     string
		wantErr error
	}{
		{"missing entity", ",NGA,1990,5", ErrMissingEntity},
		{"missing year", "Nigeria,NGA,,5", ErrMissingYear},
		{"unparseable year", "Nigeria,NGA,ninety,5", ErrUnparseableYear},
		{"unparseable deaths", "Nigeria,NGA,1990,lots", ErrUnparseableDeaths},
		{"negative deaths", "Nigeria,NGA,1990,-3", ErrNegativeDeaths},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader()

			_, err := r.Read(strings.NewReader(header + tt.row + "\n"))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}

			// Fatal errors carry the source line for diagnostics.
			if err != nil && !strings.Contains(err.Error(), "line 2") {
				t.Errorf("Expected line number in error, got %v", err)
			}
		})
	}
}

func TestRead_FractionalDeathsTruncated(t *testing.T) {
	r := NewReader()

	csv := "Entity,Code,Year,Deaths - Malaria - Sex: Both - Age: All Ages (Number)\nNigeria,NGA,1990,12.7\n"

	rows, err := r.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if v := rows[0].Deaths["Malaria"]; v == nil || *v != 12 {
		t.Errorf("Expected 12.7 to truncate to 12, got %v", v)
	}
}

func TestCleanColumnName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Deaths - Malaria - Sex: Both - Age: All Ages (Number)", "Malaria"},
		{"Deaths - Fire, heat, and hot substances - Sex: Both - Age: All Ages (Number)", "Fire, heat, and hot substances"},
		{"Malaria", "Malaria"},
		{"  Malaria  ", "Malaria"},
	}

	for _, tt := range tests {
		if got := CleanColumnName(tt.in); got != tt.want {
			t.Errorf("CleanColumnName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
