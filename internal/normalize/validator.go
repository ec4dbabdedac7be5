package normalize

import (
	"errors"
	"fmt"

	"mortsig/internal/models"
)

// Validation errors.
var (
	ErrNoRows           = errors.New("source table contains no rows")
	ErrRowMissingEntity = errors.New("row missing entity")
	ErrRowMissingYear   = errors.New("row missing year")
	ErrDuplicateRow     = errors.New("duplicate (entity, year) row")
	ErrNegativeDeaths   = errors.New("negative death count")
)

// Validator checks that wide rows satisfy the normalizer contract before
// any long records are produced. A failure here is fatal for the run.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

type entityYear struct {
	entity string
	year   int
}

// Validate checks the identifying fields and uniqueness of the source
// rows. Duplicate (entity, year) rows would break the uniqueness of the
// (entity, cause, year) key downstream, so they abort the run.
func (v *Validator) Validate(rows []models.WideRow) error {
	if len(rows) == 0 {
		return ErrNoRows
	}

	seen := make(map[entityYear]int, len(rows))

	for _, row := range rows {
		if row.Entity == "" {
			return fmt.Errorf("%w: line %d", ErrRowMissingEntity, row.Line)
		}

		if row.Year == 0 {
			return fmt.Errorf("%w: line %d", ErrRowMissingYear, row.Line)
		}

		key := entityYear{entity: row.Entity, year: row.Year}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s/%d at lines %d and %d", ErrDuplicateRow, row.Entity, row.Year, prev, row.Line)
		}

		seen[key] = row.Line

		for cause, deaths := range row.Deaths {
			if deaths != nil && *deaths < 0 {
				return fmt.Errorf("%w: line %d, cause %q", ErrNegativeDeaths, row.Line, cause)
			}
		}
	}

	return nil
}
