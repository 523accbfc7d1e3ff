package database

import (
	"errors"
	"fmt"
	"strings"
)

// Driver names registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// ErrUnsupportedScheme is returned for connection strings whose scheme maps
// to no known driver.
var ErrUnsupportedScheme = errors.New("database: unsupported connection string scheme")

// Target is a resolved connection string.
type Target struct {
	// Driver is the database/sql driver name.
	Driver string
	// DSN is what gets handed to sql.Open.
	DSN string
}

// Resolve picks a driver for dsn.
//
//	postgres://... postgresql://...      pgx, passed through
//	host=... dbname=... (keyword/value)  pgx, passed through
//	sqlite://path sqlite3://path         sqlite3, scheme stripped
//	file:... :memory:                    sqlite3, passed through
func Resolve(dsn string) (Target, error) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return Target{}, fmt.Errorf("%w: empty connection string", ErrUnsupportedScheme)
	}

	if trimmed == ":memory:" || strings.HasPrefix(trimmed, "file:") {
		return Target{Driver: DriverSQLite, DSN: trimmed}, nil
	}

	scheme, rest, found := strings.Cut(trimmed, "://")
	if !found {
		if strings.Contains(trimmed, "=") {
			return Target{Driver: DriverPostgres, DSN: trimmed}, nil
		}
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, redact(trimmed))
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return Target{Driver: DriverPostgres, DSN: trimmed}, nil
	case "sqlite", "sqlite3":
		if rest == "" {
			return Target{}, fmt.Errorf("%w: sqlite path is empty", ErrUnsupportedScheme)
		}
		return Target{Driver: DriverSQLite, DSN: rest}, nil
	default:
		return Target{}, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

// redact hides everything after the first few characters so credentials in a
// malformed string do not end up on the terminal.
func redact(value string) string {
	const keep = 8
	if len(value) <= keep {
		return value
	}
	return value[:keep] + "..."
}
