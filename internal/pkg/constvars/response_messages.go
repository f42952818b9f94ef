package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"

	// Auth messages
	LogoutSuccessMessage = "Successfully logged out"
)
