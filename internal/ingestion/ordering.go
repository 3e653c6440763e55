package ingestion

import (
	"sort"

	"signal-lab/internal/domain"
)

// SortBars orders bars by (dt ASC, id ASC) and renumbers ids 1..n.
// Imports that concatenate several files land in a valid sequence this way.
func SortBars(bars []domain.Bar) {
	sort.SliceStable(bars, func(i, j int) bool {
		return compareBars(&bars[i], &bars[j]) < 0
	})
	for i := range bars {
		bars[i].ID = int64(i + 1)
	}
}

// compareBars returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
//
// Order: (dt ASC, id ASC)
func compareBars(a, b *domain.Bar) int {
	if !a.Dt.Equal(b.Dt) {
		if a.Dt.Before(b.Dt) {
			return -1
		}
		return 1
	}
	if a.ID != b.ID {
		if a.ID < b.ID {
			return -1
		}
		return 1
	}
	return 0
}

// DedupBars drops bars whose dt repeats an earlier bar, keeping the first.
// Input must be sorted.
func DedupBars(bars []domain.Bar) []domain.Bar {
	if len(bars) == 0 {
		return bars
	}
	out := bars[:1]
	for _, b := range bars[1:] {
		if b.Dt.Equal(out[len(out)-1].Dt) {
			continue
		}
		out = append(out, b)
	}
	for i := range out {
		out[i].ID = int64(i + 1)
	}
	return out
}
