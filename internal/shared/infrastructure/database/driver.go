package database

import "strings"

// Driver represents a storage backend type.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverMongo    Driver = "mongodb"
	DriverRedis    Driver = "redis"
	// DriverMemory keeps everything in process memory. Nothing survives a restart.
	DriverMemory Driver = "memory"
)

func (d Driver) String() string {
	return string(d)
}

// DetectDriver picks a backend from a connection string.
// An empty URL selects SQLite for zero-config local mode.
func DetectDriver(url string) Driver {
	if url == "" {
		return DriverSQLite
	}

	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return DriverMongo
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return DriverRedis
	case strings.HasPrefix(url, "memory://"):
		return DriverMemory
	}

	if strings.HasPrefix(url, "sqlite://") ||
		strings.HasPrefix(url, "file:") ||
		strings.HasSuffix(url, ".db") ||
		strings.HasSuffix(url, ".sqlite") ||
		strings.HasSuffix(url, ".sqlite3") {
		return DriverSQLite
	}

	// Bare host/dbname strings are treated as PostgreSQL DSNs.
	return DriverPostgres
}

// IsValid returns true if the driver is a known type.
func (d Driver) IsValid() bool {
	switch d {
	case DriverPostgres, DriverSQLite, DriverMongo, DriverRedis, DriverMemory:
		return true
	default:
		return false
	}
}

// IsSQL reports whether the driver is served through a Connection and needs migrations.
func (d Driver) IsSQL() bool {
	return d == DriverPostgres || d == DriverSQLite
}
