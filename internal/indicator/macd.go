package indicator

// MACD computes DIF = EMA(fast) - EMA(slow) and DEA = EMA(DIF, signal).
type MACD struct {
	fast   *EMA
	slow   *EMA
	dea    *EMA
	warmup int
	count  int

	prevDif, prevDea float64
	dif, deaValue    float64
}

// NewMACD creates a MACD; non-positive periods default to 12/26/9.
func NewMACD(fast, slow, signal int) *MACD {
	if fast <= 0 {
		fast = 12
	}
	if slow <= 0 {
		slow = 26
	}
	if signal <= 0 {
		signal = 9
	}
	return &MACD{
		fast:   NewEMA(fast),
		slow:   NewEMA(slow),
		dea:    NewEMA(signal),
		warmup: slow,
	}
}

// Add pushes a new close.
func (m *MACD) Add(close float64) {
	m.fast.Add(close)
	m.slow.Add(close)
	f, _ := m.fast.Value()
	s, _ := m.slow.Value()

	m.prevDif, m.prevDea = m.dif, m.deaValue
	m.dif = f - s
	m.dea.Add(m.dif)
	m.deaValue, _ = m.dea.Value()
	m.count++
}

// Value returns the latest (dif, dea) once slow-period closes have been seen.
func (m *MACD) Value() (dif, dea float64, ok bool) {
	return m.dif, m.deaValue, m.count >= m.warmup
}

// Cross reports a DIF/DEA crossing on the latest close:
// +1 golden cross, -1 death cross, 0 none.
func (m *MACD) Cross() int {
	if m.count <= m.warmup {
		return 0
	}
	if m.prevDif <= m.prevDea && m.dif > m.deaValue {
		return 1
	}
	if m.prevDif >= m.prevDea && m.dif < m.deaValue {
		return -1
	}
	return 0
}
