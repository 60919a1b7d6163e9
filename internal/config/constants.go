package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 25 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 30 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Migrations may take longer than a ping on a cold database.
const DBMigrateTimeout = 2 * time.Minute

// Session token lifetime. The cookie expires with the token.
const SessionTokenTTL = 24 * time.Hour

// Login throttling
const (
	LoginMaxAttempts = 5
	LoginWindow      = time.Minute
)

// How often stored session expiries are swept.
const SessionSweepInterval = 15 * time.Minute
