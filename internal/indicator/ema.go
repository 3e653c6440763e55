package indicator

// EMA computes an exponential moving average with alpha = 2/(period+1),
// seeded with the first value.
type EMA struct {
	alpha float64
	value float64
	count int
}

// NewEMA creates an EMA over period.
func NewEMA(period int) *EMA {
	if period <= 0 {
		period = 1
	}
	return &EMA{alpha: 2.0 / float64(period+1)}
}

// Add pushes a new value.
func (e *EMA) Add(v float64) {
	if e.count == 0 {
		e.value = v
	} else {
		e.value = e.value*(1-e.alpha) + v*e.alpha
	}
	e.count++
}

// Value returns the current average; false before the first value.
func (e *EMA) Value() (float64, bool) {
	return e.value, e.count > 0
}
