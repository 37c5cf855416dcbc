package ir

// Version constants. EngineVersion is stored with every config-load record
// of the audit log.
const (
	// GraphSpecVersion is the declarative config schema version.
	GraphSpecVersion = "1"

	// EngineVersion is the FluxGraph engine version.
	EngineVersion = "0.1.0"
)
