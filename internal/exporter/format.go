package exporter

import (
	"fmt"
	"math"
	"time"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal
// places. NaN renders as an empty field so spreadsheet tools treat the hour
// as missing rather than as a literal "NaN" string.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.2f", f)
}

// formatTimestamp formats an hourly timestamp for CSV output
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
