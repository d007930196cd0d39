package intensity

import (
	"fmt"
	"time"
)

// DayLayout is the calendar-day format range boundaries arrive in.
const DayLayout = "2006-01-02"

// RangeNote records a non-fatal mismatch between a requested range and a
// source record's declared bounds. Extraction continues regardless; hours
// the record does not cover come back as zero.
type RangeNote struct {
	Fuel      FuelType  `json:"fuel"`
	Kind      string    `json:"kind"` // "start_before_data" or "end_beyond_data"
	Requested time.Time `json:"requested"`
	Declared  time.Time `json:"declared"`
}

func (n RangeNote) String() string {
	return fmt.Sprintf("%s %s: requested %s vs declared %s",
		n.Fuel, n.Kind,
		n.Requested.Format(time.RFC3339), n.Declared.Format(time.RFC3339))
}

// GenerationTable is a dense hourly table of generation power for one
// balancing authority: one row per hour of the requested range inclusive,
// one column per fuel type in fixed order. Cells may be negative; the
// feed uses negative samples for data corrections.
type GenerationTable struct {
	Authority string      `json:"authority"`
	Index     []time.Time `json:"index"`
	Values    [][]float64 `json:"values"` // Values[row][fuel]
	Notes     []RangeNote `json:"notes,omitempty"`
}

// Rows returns the number of hourly rows.
func (t *GenerationTable) Rows() int {
	return len(t.Index)
}

// At returns the generation value for a row and fuel.
func (t *GenerationTable) At(row int, fuel FuelType) float64 {
	return t.Values[row][fuel]
}

// Column returns a copy of one fuel's column.
func (t *GenerationTable) Column(fuel FuelType) []float64 {
	col := make([]float64, len(t.Values))
	for i, row := range t.Values {
		col[i] = row[fuel]
	}
	return col
}

// Series is a single derived time series sharing a table's hourly index.
// Values may be NaN where the series is undefined.
type Series struct {
	Name   string      `json:"name"`
	Index  []time.Time `json:"index"`
	Values []float64   `json:"values"`
}

// Len returns the number of points in the series.
func (s *Series) Len() int {
	return len(s.Index)
}
