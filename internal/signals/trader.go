// Package signals computes signal states from a bar generator and renders snapshots.
package signals

import (
	"fmt"
	"strconv"
	"time"

	"signal-lab/internal/bars"
	"signal-lab/internal/domain"
)

// State keys set on every update regardless of the signal function.
const (
	KeySymbol = "symbol"
	KeyDt     = "dt"
	KeyClose  = "close"
)

// SignalFunc computes signal values from the current generator state.
type SignalFunc func(g *bars.Generator) domain.SignalState

// Trader drives a generator and keeps the latest signal state.
// The state map is updated in place; callers that keep it must Clone it.
type Trader struct {
	gen   *bars.Generator
	fn    SignalFunc
	state domain.SignalState
}

// NewTrader binds a trader to an already primed generator.
// A nil fn uses DefaultSignals.
func NewTrader(gen *bars.Generator, fn SignalFunc) *Trader {
	if fn == nil {
		fn = DefaultSignals
	}
	t := &Trader{gen: gen, fn: fn, state: make(domain.SignalState)}
	t.recompute()
	return t
}

// Update feeds one base bar and recomputes signals.
func (t *Trader) Update(bar domain.Bar) error {
	if err := t.gen.Update(bar); err != nil {
		return fmt.Errorf("update generator: %w", err)
	}
	t.recompute()
	return nil
}

func (t *Trader) recompute() {
	for k := range t.state {
		delete(t.state, k)
	}
	for k, v := range t.fn(t.gen) {
		t.state[k] = v
	}
	t.state[KeySymbol] = t.gen.Symbol()
	if end := t.gen.EndDt(); !end.IsZero() {
		t.state[KeyDt] = end.Format(time.RFC3339)
	}
	if base := t.gen.Bars(t.gen.BaseFreq()); len(base) > 0 {
		t.state[KeyClose] = strconv.FormatFloat(base[len(base)-1].Close, 'f', -1, 64)
	}
}

// State returns the live signal state.
func (t *Trader) State() domain.SignalState { return t.state }

// EndDt returns the time of the last bar seen.
func (t *Trader) EndDt() time.Time { return t.gen.EndDt() }

// Symbol returns the traded symbol.
func (t *Trader) Symbol() string { return t.gen.Symbol() }

// Generator returns the underlying generator.
func (t *Trader) Generator() *bars.Generator { return t.gen }
