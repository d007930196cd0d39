// Package pipeline orchestrates the fetch, load and report stages that
// turn the EIA bulk archive into hourly generation and carbon intensity
// reports.
//
// Stages implement the Stage interface and run sequentially under a
// Manager, which retries transient failures with exponential backoff and
// records per-stage state for inspection. Stages communicate through the
// run State context: LoadStage publishes the parsed dataset, ReportStage
// consumes it together with the requested authority and date range.
package pipeline
