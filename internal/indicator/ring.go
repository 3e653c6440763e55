// Package indicator provides streaming technical indicators over close prices.
package indicator

// FloatRing is a fixed-size ring buffer of float64 values.
type FloatRing struct {
	buf   []float64
	len   int
	start int
}

// NewFloatRing creates a ring holding at most capacity values.
func NewFloatRing(capacity int) *FloatRing {
	if capacity <= 0 {
		capacity = 1
	}
	return &FloatRing{buf: make([]float64, capacity)}
}

// Push appends v, evicting the oldest value when full.
func (r *FloatRing) Push(v float64) {
	if r.len < len(r.buf) {
		r.buf[(r.start+r.len)%len(r.buf)] = v
		r.len++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

// Get returns the i-th value from the oldest. Negative i counts from the newest.
func (r *FloatRing) Get(i int) (float64, bool) {
	if i < 0 {
		i += r.len
	}
	if i < 0 || i >= r.len {
		return 0, false
	}
	return r.buf[(r.start+i)%len(r.buf)], true
}

// Len returns the number of stored values.
func (r *FloatRing) Len() int { return r.len }

// Full reports whether the ring is at capacity.
func (r *FloatRing) Full() bool { return r.len == len(r.buf) }
