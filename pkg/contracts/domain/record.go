package domain

import (
	"encoding/json"
	"fmt"
)

// Record represents one observation batch from the EIA bulk EBA feed.
// Each line of the bulk file decodes into exactly one Record. Timestamps
// are kept as the raw strings the feed delivered; normalization to UTC
// happens at extraction time, not at load time.
type Record struct {
	SeriesID    string      `json:"series_id"`
	Name        string      `json:"name,omitempty"`
	Units       string      `json:"units,omitempty"`
	Frequency   string      `json:"f,omitempty"`
	Description string      `json:"description,omitempty"`
	Start       string      `json:"start,omitempty"`
	End         string      `json:"end,omitempty"`
	LastUpdated string      `json:"last_updated,omitempty"`
	Data        []DataPoint `json:"data,omitempty"`
}

// HasSeriesID reports whether the record carries a usable series id.
// Lines without one (category headers in the bulk file) are kept in the
// record set but excluded from catalog derivation.
func (r Record) HasSeriesID() bool {
	return r.SeriesID != ""
}

// DataPoint is a single (timestamp, value) observation. The feed encodes
// it as a two-element JSON array, e.g. ["20190101T08Z", 1234.5].
type DataPoint struct {
	Timestamp string
	Value     float64
}

// UnmarshalJSON decodes the feed's pair encoding. The occasional null
// value the feed emits is treated as zero generation.
func (p *DataPoint) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("data point is not an array: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("data point has %d elements, want 2", len(pair))
	}

	if err := json.Unmarshal(pair[0], &p.Timestamp); err != nil {
		return fmt.Errorf("data point timestamp is not a string: %w", err)
	}

	if string(pair[1]) == "null" {
		p.Value = 0
		return nil
	}
	if err := json.Unmarshal(pair[1], &p.Value); err != nil {
		return fmt.Errorf("data point value is not a number: %w", err)
	}
	return nil
}

// MarshalJSON re-encodes the pair in the feed's array form so round trips
// preserve the external format.
func (p DataPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{p.Timestamp, p.Value})
}
