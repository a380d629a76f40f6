package segb2

// Version information for the segb2 module.
const (
	// Version is the current version of the segb2 module.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)
