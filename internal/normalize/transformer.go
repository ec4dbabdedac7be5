package normalize

import (
	"errors"
	"fmt"
	"sort"

	"mortsig/internal/config"
	"mortsig/internal/logger"
	"mortsig/internal/models"
)

// ErrUnknownCause is returned under the "reject" policy when a cause
// column is not in the configured catalog.
var ErrUnknownCause = errors.New("cause not present in configured catalog")

// Transformer reshapes wide rows into long records and attaches category
// labels from the configured cause catalog.
type Transformer struct {
	causes *config.CausesConfig
	log    *logger.Logger

	// warned tracks unknown causes already logged, one line per unique
	// name per run.
	warned map[string]bool
}

// NewTransformer creates a new transformer using the given cause catalog.
func NewTransformer(causes *config.CausesConfig, log *logger.Logger) *Transformer {
	return &Transformer{
		causes: causes,
		log:    log,
		warned: make(map[string]bool),
	}
}

// Transform emits one long record per cause column present in each wide
// row. Rows with a nil death count for a cause are dropped for that
// cause: absence means "no data", not zero. Output is sorted by
// (entity, cause, year) ascending; the scorer depends on that ordering.
func (t *Transformer) Transform(rows []models.WideRow) ([]models.CauseDeath, error) {
	var records []models.CauseDeath

	for _, row := range rows {
		for cause, deaths := range row.Deaths {
			if deaths == nil {
				continue
			}

			category, known := t.causes.Category(cause)
			if !known {
				if t.causes.UnknownPolicy == config.UnknownPolicyReject {
					return nil, fmt.Errorf("%w: %q (line %d)", ErrUnknownCause, cause, row.Line)
				}

				if !t.warned[cause] {
					t.warned[cause] = true

					if t.log != nil {
						t.log.Warn("unknown cause routed to Other", "cause", cause)
					}
				}
			}

			records = append(records, models.CauseDeath{
				Entity:        row.Entity,
				Code:          row.Code,
				Year:          row.Year,
				Cause:         cause,
				CauseCategory: category,
				Deaths:        *deaths,
			})
		}
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Entity != b.Entity {
			return a.Entity < b.Entity
		}

		if a.Cause != b.Cause {
			return a.Cause < b.Cause
		}

		return a.Year < b.Year
	})

	return records, nil
}
