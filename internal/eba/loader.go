package eba

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"gridpulse/pkg/contracts/domain"
)

// ReferenceAuthority is the balancing authority whose series ids seed the
// sub-series catalog. CISO publishes the full metric set, which makes it
// the usual probe for what the feed carries.
const ReferenceAuthority = "CISO"

var (
	baPattern        = regexp.MustCompile(`EBA\.(.+?)-`)
	subSeriesPattern = regexp.MustCompile(`EBA\.` + ReferenceAuthority + `-([A-Z\-]+\.)([A-Z\.\-]*)`)
)

// Dataset is the immutable result of loading one bulk file: the full
// record set plus the catalogs derived from it. It is built once and
// treated as read-only afterwards; every query operates on the value
// handed back here rather than on package state.
type Dataset struct {
	Records     []domain.Record
	Authorities []string
	SubSeries   []string

	byID map[string]int
}

// Lookup returns the record for a series id, if present.
func (d *Dataset) Lookup(seriesID string) (domain.Record, bool) {
	idx, ok := d.byID[seriesID]
	if !ok {
		return domain.Record{}, false
	}
	return d.Records[idx], true
}

// Len returns the number of loaded records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// maxLineBytes bounds a single feed line. Dense hourly series run to a
// few megabytes of JSON per line in the bulk export.
const maxLineBytes = 64 * 1024 * 1024

// Load reads a line-delimited EBA bulk file into a Dataset. Every
// non-empty line must decode as one JSON record; the first line that
// does not is a fatal format error. Records without a string series id
// are retained but skipped during catalog derivation.
func Load(path string, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bulk file: %w", err)
	}
	defer f.Close()

	ds := &Dataset{byID: make(map[string]int)}
	seenBA := make(map[string]bool)
	seenSub := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec domain.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse line %d of %s: %w", lineNo, path, err)
		}

		ds.Records = append(ds.Records, rec)
		if !rec.HasSeriesID() {
			continue
		}

		if _, dup := ds.byID[rec.SeriesID]; !dup {
			ds.byID[rec.SeriesID] = len(ds.Records) - 1
		}

		if m := baPattern.FindStringSubmatch(rec.SeriesID); m != nil {
			if !seenBA[m[1]] {
				seenBA[m[1]] = true
				ds.Authorities = append(ds.Authorities, m[1])
			}

			if m[1] == ReferenceAuthority {
				if sm := subSeriesPattern.FindStringSubmatch(rec.SeriesID); sm != nil && !seenSub[sm[2]] {
					seenSub[sm[2]] = true
					ds.SubSeries = append(ds.SubSeries, sm[2])
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	logger.Info("bulk file loaded",
		slog.String("path", path),
		slog.Int("records", len(ds.Records)),
		slog.Int("authorities", len(ds.Authorities)),
		slog.Int("sub_series", len(ds.SubSeries)))

	return ds, nil
}
