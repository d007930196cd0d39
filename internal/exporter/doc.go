// Package exporter provides CSV export functionality for GridPulse reports.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// ReportExporter: Writes hourly generation tables (one column per fuel type)
// and derived series such as carbon intensity and renewable share. Hours with
// no reported generation render as empty fields.
//
// Example usage:
//
//	reports := exporter.NewReportExporter(paths)
//
//	name := exporter.GenerationFileName("CISO", "2020-01-01", "2020-01-31")
//	err := reports.ExportGenerationTable(table, name)
//
//	name = exporter.IntensityFileName("CISO", "2020-01-01", "2020-01-31")
//	err = reports.ExportSeries(carbon, name)
package exporter
