package indicator

// MA computes a simple moving average.
type MA struct {
	period int
	buf    *FloatRing
	sum    float64
}

// NewMA creates a moving average over period values.
func NewMA(period int) *MA {
	if period <= 0 {
		period = 1
	}
	return &MA{period: period, buf: NewFloatRing(period)}
}

// Add pushes a new value.
func (m *MA) Add(v float64) {
	if m.buf.Full() {
		oldest, _ := m.buf.Get(0)
		m.sum -= oldest
	}
	m.buf.Push(v)
	m.sum += v
}

// Value returns the average once period values have been seen.
func (m *MA) Value() (float64, bool) {
	if !m.buf.Full() {
		return 0, false
	}
	return m.sum / float64(m.period), true
}
