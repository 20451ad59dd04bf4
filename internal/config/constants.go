package config

const (
	// DefaultDatabasePath is the default path for the local state database
	// (session slots + catalog snapshot).
	DefaultDatabasePath = "./libradesk.db"

	// DefaultRemoteBaseURL is the default base URL of the authoritative
	// catalog service.
	DefaultRemoteBaseURL = "http://localhost:3000/api"
)
