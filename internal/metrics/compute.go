package metrics

import (
	"math"
	"sort"
)

// Summary describes a return series in basis points.
type Summary struct {
	Count int

	// Distribution
	Mean   float64
	Stddev float64
	Median float64
	P10    float64
	P90    float64
	Min    float64
	Max    float64

	// Order-dependent
	WinRate              float64
	MaxConsecutiveLosses int
	DrawdownStart        int
	DrawdownEnd          int
	MaxDrawdown          float64
}

// Summarize computes distribution and drawdown statistics.
// returnsBP must be in chronological order.
func Summarize(returnsBP []float64) Summary {
	n := len(returnsBP)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, returnsBP)
	sort.Float64s(sorted)

	wins := 0
	for _, r := range returnsBP {
		if r > 0 {
			wins++
		}
	}

	mean := computeMean(returnsBP)
	s := Summary{
		Count:                n,
		Mean:                 mean,
		Stddev:               computeStddev(returnsBP, mean),
		Median:               computePercentile(sorted, 0.50),
		P10:                  computePercentile(sorted, 0.10),
		P90:                  computePercentile(sorted, 0.90),
		Min:                  sorted[0],
		Max:                  sorted[n-1],
		WinRate:              computeWinRate(wins, n),
		MaxConsecutiveLosses: computeMaxConsecutiveLosses(returnsBP),
	}
	s.DrawdownStart, s.DrawdownEnd, s.MaxDrawdown = MaxDrawDown(returnsBP)
	return s
}

// computeWinRate calculates win rate as wins / total.
func computeWinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

// computeMean calculates arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC; p is in [0, 1].
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// computeMaxConsecutiveLosses finds the longest streak of returns <= 0.
func computeMaxConsecutiveLosses(values []float64) int {
	maxStreak := 0
	currentStreak := 0

	for _, v := range values {
		if v <= 0 {
			currentStreak++
			if currentStreak > maxStreak {
				maxStreak = currentStreak
			}
		} else {
			currentStreak = 0
		}
	}
	return maxStreak
}
