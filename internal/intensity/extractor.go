package intensity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gridpulse/internal/eba"
	"gridpulse/pkg/contracts/domain"
)

// seriesIDFormat builds the generation series id for a BA and fuel code.
const seriesIDFormat = "EBA.%s-ALL.NG.%s.H"

// ErrInvalidRange marks a request range the extractor cannot use: an
// unparseable day bound or an end before the start. Callers classify
// with errors.Is.
var ErrInvalidRange = errors.New("invalid date range")

// Extractor reconstructs dense hourly generation tables from a loaded
// Dataset. It holds no mutable state beyond its logger; extractions are
// pure over the dataset and safe to repeat.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an extractor. A nil logger falls back to the
// process default.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With(slog.String("component", "extractor"))}
}

// ExtractRange builds the gap-filled hourly generation table for one
// balancing authority between two calendar days, both taken as 00:00 UTC
// hour boundaries and both inclusive. A fuel type with no matching record
// yields an all-zero column; a requested range reaching outside a
// record's declared bounds yields a RangeNote and a warn log, never an
// error. Malformed timestamps in the source data are fatal.
func (e *Extractor) ExtractRange(ctx context.Context, ds *eba.Dataset, ba, fromDay, toDay string) (*GenerationTable, error) {
	start, err := time.ParseInLocation(DayLayout, fromDay, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse range start %q: %w", fromDay, ErrInvalidRange)
	}
	end, err := time.ParseInLocation(DayLayout, toDay, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse range end %q: %w", toDay, ErrInvalidRange)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s precedes range start %s: %w", toDay, fromDay, ErrInvalidRange)
	}

	index := hourlyIndex(start, end)
	table := &GenerationTable{
		Authority: ba,
		Index:     index,
		Values:    make([][]float64, len(index)),
	}
	for i := range table.Values {
		table.Values[i] = make([]float64, NumFuels)
	}

	for _, fuel := range Fuels() {
		seriesID := fmt.Sprintf(seriesIDFormat, ba, fuel)
		rec, ok := ds.Lookup(seriesID)
		if !ok {
			// No record for this fuel: the column stays all zero.
			continue
		}

		notes, err := e.checkDeclaredBounds(ctx, rec, fuel, start, end)
		if err != nil {
			return nil, err
		}
		table.Notes = append(table.Notes, notes...)

		if err := e.fillColumn(table, rec, fuel, start, end); err != nil {
			return nil, err
		}
	}

	e.logger.DebugContext(ctx, "range extracted",
		slog.String("authority", ba),
		slog.String("from", fromDay),
		slog.String("to", toDay),
		slog.Int("rows", table.Rows()),
		slog.Int("range_notes", len(table.Notes)))

	return table, nil
}

// hourlyIndex returns every hour boundary from start through end
// inclusive, ascending, UTC.
func hourlyIndex(start, end time.Time) []time.Time {
	hours := int(end.Sub(start)/time.Hour) + 1
	index := make([]time.Time, hours)
	for i := range index {
		index[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return index
}

// checkDeclaredBounds compares the requested range against the record's
// declared start/end. Mismatches are informational: the caller gets a
// note, the log gets a warning, extraction proceeds.
func (e *Extractor) checkDeclaredBounds(ctx context.Context, rec domain.Record, fuel FuelType, start, end time.Time) ([]RangeNote, error) {
	var notes []RangeNote

	if rec.Start != "" {
		declared, err := eba.ParseTimestamp(rec.Start)
		if err != nil {
			return nil, fmt.Errorf("series %s declared start: %w", rec.SeriesID, err)
		}
		if start.Before(declared) {
			notes = append(notes, RangeNote{Fuel: fuel, Kind: "start_before_data", Requested: start, Declared: declared})
			e.logger.WarnContext(ctx, "requested start precedes dataset range",
				slog.String("fuel", fuel.String()),
				slog.Time("requested", start),
				slog.Time("declared", declared))
		}
	}

	if rec.End != "" {
		declared, err := eba.ParseTimestamp(rec.End)
		if err != nil {
			return nil, fmt.Errorf("series %s declared end: %w", rec.SeriesID, err)
		}
		if end.After(declared) {
			notes = append(notes, RangeNote{Fuel: fuel, Kind: "end_beyond_data", Requested: end, Declared: declared})
			e.logger.WarnContext(ctx, "requested end beyond dataset range",
				slog.String("fuel", fuel.String()),
				slog.Time("requested", end),
				slog.Time("declared", declared))
		}
	}

	return notes, nil
}

// fillColumn filters the record's samples to the requested range,
// sorts them, and reindexes them onto the table's hourly grid. Hours
// with no sample keep their zero fill; that covers both gaps inside the
// data and hours outside the record's coverage.
func (e *Extractor) fillColumn(table *GenerationTable, rec domain.Record, fuel FuelType, start, end time.Time) error {
	type sample struct {
		ts    time.Time
		value float64
	}

	filtered := make([]sample, 0, len(rec.Data))
	for _, p := range rec.Data {
		ts, err := eba.ParseTimestamp(p.Timestamp)
		if err != nil {
			return fmt.Errorf("series %s: %w", rec.SeriesID, err)
		}
		if ts.Before(start) || ts.After(end) {
			continue
		}
		filtered = append(filtered, sample{ts: ts, value: p.Value})
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].ts.Before(filtered[j].ts)
	})

	for _, s := range filtered {
		row := int(s.ts.Sub(start) / time.Hour)
		if s.ts.Equal(start.Add(time.Duration(row) * time.Hour)) {
			table.Values[row][fuel] = s.value
		}
	}
	return nil
}
