package walkforward

import (
	"fmt"

	"signal-lab/internal/domain"
)

// ValidateOrdering checks that timestamps never decrease and ids strictly increase.
// Returns ErrInvalidOrdering if not.
func ValidateOrdering(bars []domain.Bar) error {
	for i := 1; i < len(bars); i++ {
		if compareBars(bars[i-1], bars[i], false) >= 0 {
			return fmt.Errorf("%w: bar %d (id %d, %s) after bar %d (id %d, %s)",
				ErrInvalidOrdering, i, bars[i].ID, bars[i].Dt, i-1, bars[i-1].ID, bars[i-1].Dt)
		}
	}
	return nil
}

// validateStrict checks that timestamps and ids both strictly increase.
func validateStrict(bars []domain.Bar, offset int) error {
	for i := 1; i < len(bars); i++ {
		if compareBars(bars[i-1], bars[i], true) >= 0 {
			return fmt.Errorf("%w: bar %d must be strictly after bar %d",
				ErrInvalidOrdering, offset+i, offset+i-1)
		}
	}
	return nil
}

// compareBars returns a negative value when a properly precedes b.
//
// Order: (dt ASC, id ASC). With strictDt the timestamps must differ.
func compareBars(a, b domain.Bar, strictDt bool) int {
	if a.Dt.After(b.Dt) {
		return 1
	}
	if strictDt && a.Dt.Equal(b.Dt) {
		return 0
	}
	if a.ID != b.ID {
		if a.ID < b.ID {
			return -1
		}
		return 1
	}
	return 0
}
