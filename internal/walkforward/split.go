package walkforward

import (
	"sort"
	"time"

	"signal-lab/internal/domain"
)

// SplitStrategy decides where the warm-up window ends.
// Index returns the number of leading bars that go to warm-up.
type SplitStrategy interface {
	Index(bars []domain.Bar) int
}

// CutoffSplit sends every bar strictly before Cutoff to warm-up. When that
// leaves MinWarmup bars or fewer, it falls back to FixedSplit{MinWarmup}.
type CutoffSplit struct {
	Cutoff    time.Time
	MinWarmup int
}

// Index implements SplitStrategy.
func (s CutoffSplit) Index(bars []domain.Bar) int {
	idx := idxAtOrAfter(bars, s.Cutoff)
	if idx <= s.MinWarmup {
		return FixedSplit{Warmup: s.MinWarmup}.Index(bars)
	}
	return idx
}

// FixedSplit sends the first Warmup bars to warm-up.
type FixedSplit struct {
	Warmup int
}

// Index implements SplitStrategy.
func (s FixedSplit) Index(bars []domain.Bar) int {
	if s.Warmup < 0 {
		return 0
	}
	if s.Warmup > len(bars) {
		return len(bars)
	}
	return s.Warmup
}

// Split partitions bars into warm-up and evaluation windows. Both windows
// alias the input slice.
func Split(bars []domain.Bar, strategy SplitStrategy) (left, right []domain.Bar) {
	idx := strategy.Index(bars)
	return bars[:idx], bars[idx:]
}

// idxAtOrAfter returns the first index with Dt >= t; bars must be ordered.
func idxAtOrAfter(bars []domain.Bar, t time.Time) int {
	return sort.Search(len(bars), func(i int) bool {
		return !bars[i].Dt.Before(t)
	})
}
