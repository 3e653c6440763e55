package indicator

import "math"

// RSI computes Wilder's relative strength index on close-to-close changes.
type RSI struct {
	period  int
	prev    float64
	count   int
	avgGain float64
	avgLoss float64
}

// NewRSI creates an RSI over period (default 14).
func NewRSI(period int) *RSI {
	if period <= 0 {
		period = 14
	}
	return &RSI{period: period}
}

// Add pushes a new close.
func (r *RSI) Add(close float64) {
	if r.count == 0 {
		r.prev = close
		r.count++
		return
	}
	change := close - r.prev
	r.prev = close
	gain := math.Max(change, 0)
	loss := math.Max(-change, 0)

	n := float64(r.period)
	if r.count <= r.period {
		// seed with the simple average of the first period changes
		r.avgGain += gain / n
		r.avgLoss += loss / n
	} else {
		r.avgGain = (r.avgGain*(n-1) + gain) / n
		r.avgLoss = (r.avgLoss*(n-1) + loss) / n
	}
	r.count++
}

// Value returns the RSI in [0, 100] once period changes have been seen.
func (r *RSI) Value() (float64, bool) {
	if r.count <= r.period {
		return 0, false
	}
	if r.avgLoss == 0 {
		if r.avgGain == 0 {
			return 50, true
		}
		return 100, true
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs), true
}
