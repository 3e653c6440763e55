package bars

import (
	"time"

	"signal-lab/internal/domain"
)

// BucketStart returns the start of the freq period containing dt.
//
// Intraday bars are labelled with their period end, so 09:35 belongs to the
// 09:30-09:35 five-minute bucket. Day, week and month buckets use the
// calendar of dt's location; weeks start on Monday.
func BucketStart(freq domain.Freq, dt time.Time) time.Time {
	if m := freq.Minutes(); m > 0 {
		d := time.Duration(m) * time.Minute
		return dt.Add(-time.Nanosecond).Truncate(d)
	}

	y, mo, day := dt.Date()
	loc := dt.Location()
	switch freq {
	case domain.FreqDay:
		return time.Date(y, mo, day, 0, 0, 0, 0, loc)
	case domain.FreqWeek:
		offset := (int(dt.Weekday()) + 6) % 7 // Monday = 0
		return time.Date(y, mo, day-offset, 0, 0, 0, 0, loc)
	case domain.FreqMonth:
		return time.Date(y, mo, 1, 0, 0, 0, 0, loc)
	}
	return dt
}
