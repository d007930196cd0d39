// Package app composes the GridPulse server: configuration loading,
// logging and telemetry initialization, service construction, pipeline
// registration, router setup, and graceful shutdown. main() stays a
// thin shell around Application.Run.
package app
