package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	IngestTimeout      = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

// MaxConflictRetries bounds load-modify-upsert retries after a version
// conflict before the key is reported failed.
const MaxConflictRetries = 5

const (
	ShutdownTimeout = 5 * time.Second
)
