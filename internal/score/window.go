package score

import "gonum.org/v1/gonum/stat"

// rollingStats computes the trailing mean and sample standard deviation
// over a window of at most `window` values ending at and including each
// position. There is no look-ahead: position i sees values[max(0,i-w+1)..i].
//
// The mean is always defined (a single value is its own mean). The
// standard deviation needs at least two points, so stds[i] is nil for the
// first position of each series.
func rollingStats(values []float64, window int) (avgs []float64, stds []*float64) {
	avgs = make([]float64, len(values))
	stds = make([]*float64, len(values))

	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}

		w := values[lo : i+1]

		avgs[i] = stat.Mean(w, nil)

		if len(w) >= 2 {
			sd := stat.StdDev(w, nil)
			stds[i] = &sd
		}
	}

	return avgs, stds
}
