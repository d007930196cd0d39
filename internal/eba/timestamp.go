package eba

import (
	"fmt"
	"time"
)

// The bulk feed labels hourly samples as "20190101T08Z" for UTC series and
// "20190101T03-05" for local-time series. Older exports and calendar-day
// fields show up in a handful of other layouts. Layouts without a zone
// designator are localized to UTC rather than rejected.
var (
	zonedLayouts = []string{
		"20060102T15Z",
		"20060102T15-07",
		"20060102T15:04Z",
		time.RFC3339,
	}
	naiveLayouts = []string{
		"20060102T15",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
		"20060102",
	}
)

// ParseTimestamp normalizes a feed timestamp string to UTC. Zone-aware
// inputs are converted, naive inputs are taken as already being UTC.
// An unrecognized layout is an error; there is no silent coercion.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range zonedLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format %q", s)
}
