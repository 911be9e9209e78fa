package pixz

import "github.com/zoobzio/capitan"

// Signal definitions for pixz node events.
// Signals follow the pattern: <node-type>.<event>.
var (
	// Transformed signals.
	SignalTransformedSingular = capitan.NewSignal(
		"transformed.singular",
		"Transformed node could not invert its transform; every query will yield absence",
	)

	// Backed signals.
	SignalBackendFailed = capitan.NewSignal(
		"backed.execution-failed",
		"Backend returned a failure while executing an operation for a lookup",
	)

	// Cache signals.
	SignalCacheEvicted = capitan.NewSignal(
		"cache.evicted",
		"Cache node dropped an expired entry during lookup",
	)
)

// Common field keys using capitan primitive types.
// All keys use primitive types to avoid custom struct serialization.
var (
	FieldName        = capitan.NewStringKey("name")       // Node instance name
	FieldError       = capitan.NewStringKey("error")      // Error message
	FieldX           = capitan.NewIntKey("x")             // Queried x coordinate
	FieldY           = capitan.NewIntKey("y")             // Queried y coordinate
	FieldDeterminant = capitan.NewFloat64Key("det")       // Transform determinant
	FieldOperation   = capitan.NewStringKey("operation")  // Operation name
	FieldBackend     = capitan.NewStringKey("backend")    // Backend name
	FieldEntryAge    = capitan.NewFloat64Key("entry_age") // Age of a cache entry in seconds
	FieldTimestamp   = capitan.NewFloat64Key("timestamp") // Unix timestamp
)
