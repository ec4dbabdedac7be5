// Package score computes per-(entity, cause) time-series metrics:
// year-over-year deltas, trailing rolling baselines, z-score based
// anomaly flags, and the pre-aggregated rollup tables.
package score

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"mortsig/internal/models"
)

// Scoring errors. Both are fatal: a corrupt group must not silently
// produce partial statistics.
var (
	ErrDuplicateKey   = errors.New("duplicate (entity, cause, year) record")
	ErrInvalidDeaths  = errors.New("invalid death count")
	ErrInvalidWindow  = errors.New("rolling window must be at least 2")
	ErrInvalidCutoff  = errors.New("anomaly threshold must be positive")
)

// Scorer derives time-series metrics for long records. Each (entity,
// cause) group is processed independently in year order; no metric ever
// crosses a group boundary.
type Scorer struct {
	window    int
	threshold float64
}

// NewScorer creates a scorer with the given rolling window size and
// z-score threshold.
func NewScorer(window int, threshold float64) (*Scorer, error) {
	if window < 2 {
		return nil, ErrInvalidWindow
	}

	if threshold <= 0 {
		return nil, ErrInvalidCutoff
	}

	return &Scorer{window: window, threshold: threshold}, nil
}

// Window returns the configured rolling window size.
func (s *Scorer) Window() int { return s.window }

// Threshold returns the configured z-score threshold.
func (s *Scorer) Threshold() float64 { return s.threshold }

// Score returns a new slice of records with all derived fields filled
// in, sorted by (entity, cause, year). The input is not mutated.
func (s *Scorer) Score(records []models.CauseDeath) ([]models.CauseDeath, error) {
	groups := make(map[models.GroupKey][]models.CauseDeath)

	var keys []models.GroupKey

	for _, rec := range records {
		if rec.Deaths < 0 {
			return nil, fmt.Errorf("%w: %s/%d has %d deaths", ErrInvalidDeaths, rec.Key(), rec.Year, rec.Deaths)
		}

		key := rec.Key()
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}

		groups[key] = append(groups[key], rec)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Entity != keys[j].Entity {
			return keys[i].Entity < keys[j].Entity
		}

		return keys[i].Cause < keys[j].Cause
	})

	out := make([]models.CauseDeath, 0, len(records))

	for _, key := range keys {
		group := groups[key]

		sort.Slice(group, func(i, j int) bool { return group[i].Year < group[j].Year })

		for i := 1; i < len(group); i++ {
			if group[i].Year == group[i-1].Year {
				return nil, fmt.Errorf("%w: %s/%d", ErrDuplicateKey, key, group[i].Year)
			}
		}

		s.scoreGroup(group)

		out = append(out, group...)
	}

	return out, nil
}

// scoreGroup fills the derived fields of one year-ordered group in place.
func (s *Scorer) scoreGroup(group []models.CauseDeath) {
	deaths := make([]float64, len(group))
	for i := range group {
		deaths[i] = float64(group[i].Deaths)
	}

	avgs, stds := rollingStats(deaths, s.window)

	for i := range group {
		rec := &group[i]

		rec.RollingAvg = avgs[i]
		rec.RollingStd = stds[i]

		// YoY is defined only when the immediately preceding calendar
		// year exists in this group; a gap in the series yields null.
		if i > 0 && group[i-1].Year == rec.Year-1 {
			change := deaths[i] - deaths[i-1]
			rec.YoYChange = &change

			if prior := deaths[i-1]; prior != 0 {
				pct := change / prior * 100
				rec.YoYPct = &pct
			}
		}

		// A zero-variance window has no meaningful z-score: null, not
		// zero and not infinity.
		if stds[i] != nil && *stds[i] > 0 {
			sc := (deaths[i] - avgs[i]) / *stds[i]
			rec.AnomalyScore = &sc
			rec.IsAnomaly = math.Abs(sc) >= s.threshold
		}
	}
}
