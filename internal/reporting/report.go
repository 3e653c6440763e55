// Package reporting renders signal runs and return statistics as CSV and Markdown.
package reporting

import (
	"time"

	"signal-lab/internal/metrics"
)

// Report summarizes one or more return series.
type Report struct {
	GeneratedAt time.Time
	Title       string
	Start       time.Time // zero if unbounded
	End         time.Time // zero if unbounded

	// Series sorted by Name
	Series []SeriesRow
}

// SeriesRow is the summary of one return series.
type SeriesRow struct {
	Name    string
	Summary metrics.Summary
}
