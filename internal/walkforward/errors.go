package walkforward

import "errors"

var (
	// ErrInvalidOrdering is returned when bars are not in chronological order.
	ErrInvalidOrdering = errors.New("bars are not in chronological order")

	// ErrTooFewBars is returned when validation mode gets fewer than three bars.
	ErrTooFewBars = errors.New("too few bars")

	// ErrMixedFrequency is returned when the trailing bars disagree on frequency.
	ErrMixedFrequency = errors.New("trailing bars have mixed frequencies")
)
