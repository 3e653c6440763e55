// Package bars synthesizes bars of several frequencies from a base-frequency stream.
package bars

import (
	"errors"
	"fmt"
	"time"

	"signal-lab/internal/domain"
)

var (
	// ErrOutOfOrder is returned when a bar is older than the previous one.
	ErrOutOfOrder = errors.New("bar older than previous bar")

	// ErrFreqMismatch is returned when a bar does not carry the base frequency.
	ErrFreqMismatch = errors.New("bar frequency does not match base frequency")
)

// Generator keeps synchronized bar series for the base frequency and each target frequency.
type Generator struct {
	baseFreq domain.Freq
	freqs    []domain.Freq // targets, excluding base
	maxCount int

	symbol string
	endDt  time.Time
	series map[domain.Freq][]domain.Bar
	bucket map[domain.Freq]time.Time // bucket start of the last bar per target
}

// NewGenerator creates a generator. Every target must be at least as coarse as
// baseFreq; each series retains at most maxCount bars.
func NewGenerator(baseFreq domain.Freq, freqs []domain.Freq, maxCount int) (*Generator, error) {
	if !baseFreq.Valid() {
		return nil, fmt.Errorf("invalid base freq %q", baseFreq)
	}
	if maxCount <= 0 {
		return nil, fmt.Errorf("max count must be positive, got %d", maxCount)
	}

	g := &Generator{
		baseFreq: baseFreq,
		maxCount: maxCount,
		series:   map[domain.Freq][]domain.Bar{baseFreq: nil},
		bucket:   make(map[domain.Freq]time.Time),
	}
	for _, f := range freqs {
		if !f.Valid() {
			return nil, fmt.Errorf("invalid freq %q", f)
		}
		if baseFreq.Coarser(f) {
			return nil, fmt.Errorf("freq %s is finer than base freq %s", f, baseFreq)
		}
		if _, seen := g.series[f]; seen {
			continue
		}
		g.freqs = append(g.freqs, f)
		g.series[f] = nil
	}
	return g, nil
}

// Update feeds one base-frequency bar.
func (g *Generator) Update(bar domain.Bar) error {
	if bar.Freq != g.baseFreq {
		return fmt.Errorf("%w: got %s, want %s", ErrFreqMismatch, bar.Freq, g.baseFreq)
	}
	if !g.endDt.IsZero() && bar.Dt.Before(g.endDt) {
		return fmt.Errorf("%w: %s before %s", ErrOutOfOrder, bar.Dt, g.endDt)
	}

	g.symbol = bar.Symbol
	g.endDt = bar.Dt
	g.series[g.baseFreq] = g.trim(append(g.series[g.baseFreq], bar))

	for _, f := range g.freqs {
		g.merge(f, bar)
	}
	return nil
}

// merge folds bar into the current bucket of freq, or opens a new one.
func (g *Generator) merge(freq domain.Freq, bar domain.Bar) {
	start := BucketStart(freq, bar.Dt)
	s := g.series[freq]

	if n := len(s); n > 0 && g.bucket[freq].Equal(start) {
		last := &s[n-1]
		if bar.High > last.High {
			last.High = bar.High
		}
		if bar.Low < last.Low {
			last.Low = bar.Low
		}
		last.Close = bar.Close
		last.Dt = bar.Dt
		last.Vol += bar.Vol
		last.Amount += bar.Amount
		return
	}

	next := bar
	next.Freq = freq
	next.ID = 1
	if n := len(s); n > 0 {
		next.ID = s[n-1].ID + 1
	}
	g.bucket[freq] = start
	g.series[freq] = g.trim(append(s, next))
}

func (g *Generator) trim(s []domain.Bar) []domain.Bar {
	if len(s) <= g.maxCount {
		return s
	}
	// append reallocates only the retained window once capacity runs out
	return s[len(s)-g.maxCount:]
}

// Bars returns a copy of the series for freq; nil for an unknown freq.
func (g *Generator) Bars(freq domain.Freq) []domain.Bar {
	s, ok := g.series[freq]
	if !ok {
		return nil
	}
	out := make([]domain.Bar, len(s))
	copy(out, s)
	return out
}

// Closes returns the close prices of the series for freq.
func (g *Generator) Closes(freq domain.Freq) []float64 {
	s := g.series[freq]
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Freqs returns the base frequency followed by the targets.
func (g *Generator) Freqs() []domain.Freq {
	return append([]domain.Freq{g.baseFreq}, g.freqs...)
}

// BaseFreq returns the base frequency.
func (g *Generator) BaseFreq() domain.Freq { return g.baseFreq }

// MaxCount returns the per-series retention cap.
func (g *Generator) MaxCount() int { return g.maxCount }

// Symbol returns the symbol of the last bar fed.
func (g *Generator) Symbol() string { return g.symbol }

// EndDt returns the time of the last bar fed.
func (g *Generator) EndDt() time.Time { return g.endDt }
