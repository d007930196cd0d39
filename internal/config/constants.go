package config

import "time"

// Application constants - all hardcoded values for the GridPulse system
const (
	// Application Info
	AppName    = "GridPulse"
	AppVersion = "1.2.0"

	// Config file looked up next to the executable
	ConfigFileName = "gridpulse.yml"

	// EIA bulk feed
	DefaultBulkURL = "https://api.eia.gov/bulk/EBA.zip"
	BulkFileName   = "EBA.txt"

	// Reference authority for the sub-series catalog
	ReferenceAuthority = "CISO"

	// Network Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultFetchTimeout = 10 * time.Minute

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultEBADir     = "data/eba"
	DefaultReportsDir = "data/reports"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
