// Package metrics computes performance statistics over return series.
package metrics

import "github.com/shopspring/decimal"

// InitialEquity is the equity the cumulative return curve starts from.
const InitialEquity = 10000.0

// MaxDrawDown keeps drawdownDigits decimal digits; drawdownScale is 10^digits.
const (
	drawdownDigits = 4
	drawdownScale  = 1e4
)

// MaxDrawDown finds the deepest relative peak-to-trough decline of the equity
// curve InitialEquity + cumsum(returnsBP).
//
// end is the first index with the largest drawdown, start the first index of
// the highest equity before end, and mdd the relative decline truncated to four
// decimal digits (the raw ratio is scaled by 10^4 in float64, then truncated).
// A curve that never declines yields (0, 0, 0).
// returnsBP must be in chronological order.
func MaxDrawDown(returnsBP []float64) (start, end int, mdd float64) {
	if len(returnsBP) == 0 {
		return 0, 0, 0
	}

	curve := equityCurve(returnsBP)

	peak := curve[0]
	worst := 0.0
	for i, v := range curve {
		if v > peak {
			peak = v
		}
		if peak == 0 {
			continue
		}
		if dd := (peak - v) / peak; dd > worst {
			worst = dd
			end = i
		}
	}
	if end == 0 {
		return 0, 0, 0
	}

	for i := 1; i < end; i++ {
		if curve[i] > curve[start] {
			start = i
		}
	}

	// Truncate the float product raw*10^4, not the shortest decimal form of
	// raw: 0.0029 scales to 28.999999999999996 and yields 0.0028.
	raw := (curve[start] - curve[end]) / curve[start]
	scaled := raw * drawdownScale
	mdd = decimal.NewFromFloat(scaled).Truncate(0).Shift(-drawdownDigits).InexactFloat64()
	return start, end, mdd
}

// equityCurve returns InitialEquity plus the running sum of returns.
func equityCurve(returns []float64) []float64 {
	curve := make([]float64, len(returns))
	cumulative := 0.0
	for i, r := range returns {
		cumulative += r
		curve[i] = InitialEquity + cumulative
	}
	return curve
}
