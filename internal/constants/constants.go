// Package constants provides a centralized location for the defaults and
// magic numbers used throughout pulse.
package constants

import "time"

// Scan defaults
const (
	// DefaultStaleDays is the inactivity threshold, in whole days, at or
	// beyond which an item is stale.
	DefaultStaleDays = 3

	// DefaultCallTimeout bounds every external fetch.
	DefaultCallTimeout = 30 * time.Second

	// RepoPageSize is the page size used when listing organization repositories.
	RepoPageSize = 100

	// ItemPageSize is the page size used when listing pull requests and issues.
	ItemPageSize = 50
)

// Transport names
const (
	TransportAuto = "auto"
	TransportGH   = "gh"
	TransportAPI  = "api"
)

// Output defaults
const (
	// DefaultOutputPath is where the structured record is written in json mode.
	DefaultOutputPath = "/tmp/pulse.json"

	// ScanErrorFooterLimit is the number of failed endpoints listed in the digest footer.
	ScanErrorFooterLimit = 5

	// TruncationSuffixWidth is the width of the "..." suffix when truncating strings.
	TruncationSuffixWidth = 3
)

// TUI update and display constants
const (
	// TUIUpdateInterval is the minimum time between TUI progress updates.
	TUIUpdateInterval = 50 * time.Millisecond
)

// Rate limiting constants
const (
	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged.
	RateLimitLowWatermark = 100
)

// Exit codes understood by the orchestrator.
const (
	ExitActionable = 0
	ExitError      = 1
	ExitAllClear   = 2
)
