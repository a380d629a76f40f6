package log

// Version information for the log module.
const (
	// Version is the current version of the log module.
	// 2.0.0 replaced the Bool/Float64/Duration helpers with Offset and Time.
	Version = "2.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "2.0.0"
)
