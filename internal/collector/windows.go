package collector

import "time"

// Window is a bounded date range queried independently. A zero Until means
// the range is open-ended at the recent side.
type Window struct {
	Since time.Time
	Until time.Time
}

// SinceDate formats the lower bound for the search API.
func (w Window) SinceDate() string { return w.Since.Format("2006-01-02") }

// UntilDate formats the upper bound, or "" when open-ended.
func (w Window) UntilDate() string {
	if w.Until.IsZero() {
		return ""
	}
	return w.Until.Format("2006-01-02")
}

// SplitWindows divides a totalDays request into 1-3 sequential windows,
// most recent first. No single upstream call reliably covers a full range,
// so longer ranges are fetched in pieces:
//
//	<= 3 days: one open-ended window
//	4-7 days:  recent half open-ended, older half bounded
//	> 7 days:  thirds, most recent open-ended
//
// The split uses integer division; a remainder widens the oldest window.
func SplitWindows(now time.Time, totalDays int) []Window {
	if totalDays < 1 {
		totalDays = 1
	}
	switch {
	case totalDays <= 3:
		return []Window{
			{Since: now.AddDate(0, 0, -totalDays)},
		}
	case totalDays <= 7:
		mid := totalDays / 2
		return []Window{
			{Since: now.AddDate(0, 0, -mid)},
			{Since: now.AddDate(0, 0, -totalDays), Until: now.AddDate(0, 0, -mid)},
		}
	default:
		third := totalDays / 3
		return []Window{
			{Since: now.AddDate(0, 0, -third)},
			{Since: now.AddDate(0, 0, -2*third), Until: now.AddDate(0, 0, -third)},
			{Since: now.AddDate(0, 0, -totalDays), Until: now.AddDate(0, 0, -2*third)},
		}
	}
}
