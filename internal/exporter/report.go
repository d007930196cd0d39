package exporter

import (
	"fmt"

	"gridpulse/internal/config"
	"gridpulse/internal/intensity"
)

// ReportExporter writes generation tables and derived series to CSV reports.
type ReportExporter struct {
	csvWriter *CSVWriter
}

// NewReportExporter creates a new report exporter
func NewReportExporter(paths *config.Paths) *ReportExporter {
	return &ReportExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// GenerationFileName returns the report file name for a generation table.
func GenerationFileName(authority, fromDay, toDay string) string {
	return fmt.Sprintf("generation_%s_%s_%s.csv", authority, fromDay, toDay)
}

// IntensityFileName returns the report file name for an intensity series.
func IntensityFileName(authority, fromDay, toDay string) string {
	return fmt.Sprintf("intensity_%s_%s_%s.csv", authority, fromDay, toDay)
}

// ExportGenerationTable writes an hourly generation table with one column
// per fuel type.
func (e *ReportExporter) ExportGenerationTable(table *intensity.GenerationTable, outputPath string) error {
	headers := make([]string, 0, intensity.NumFuels+1)
	headers = append(headers, "timestamp")
	for _, fuel := range intensity.Fuels() {
		headers = append(headers, fuel.String())
	}

	records := make([][]string, 0, table.Rows())
	for i, ts := range table.Index {
		row := make([]string, 0, intensity.NumFuels+1)
		row = append(row, formatTimestamp(ts))
		for _, fuel := range intensity.Fuels() {
			row = append(row, formatFloat(table.Values[i][fuel]))
		}
		records = append(records, row)
	}

	if err := e.csvWriter.WriteSimpleCSV(outputPath, headers, records); err != nil {
		return fmt.Errorf("failed to write generation report: %w", err)
	}
	return nil
}

// ExportSeries writes a single derived series such as carbon intensity or
// renewable share.
func (e *ReportExporter) ExportSeries(series *intensity.Series, outputPath string) error {
	headers := []string{"timestamp", series.Name}

	records := make([][]string, 0, series.Len())
	for i, ts := range series.Index {
		records = append(records, []string{
			formatTimestamp(ts),
			formatFloat(series.Values[i]),
		})
	}

	if err := e.csvWriter.WriteSimpleCSV(outputPath, headers, records); err != nil {
		return fmt.Errorf("failed to write %s report: %w", series.Name, err)
	}
	return nil
}

// ExportGenerationTableStreaming writes a generation table through the
// streaming writer. Used for multi-year ranges where buffering every row
// is wasteful.
func (e *ReportExporter) ExportGenerationTableStreaming(table *intensity.GenerationTable, outputPath string) error {
	headers := make([]string, 0, intensity.NumFuels+1)
	headers = append(headers, "timestamp")
	for _, fuel := range intensity.Fuels() {
		headers = append(headers, fuel.String())
	}

	stream, err := e.csvWriter.CreateStreamWriter(outputPath, headers)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for i, ts := range table.Index {
		row := make([]string, 0, intensity.NumFuels+1)
		row = append(row, formatTimestamp(ts))
		for _, fuel := range intensity.Fuels() {
			row = append(row, formatFloat(table.Values[i][fuel]))
		}
		if err := stream.WriteRecord(row); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}
