package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Driver represents a database backend type.
type Driver string

const (
	// DriverPostgres represents PostgreSQL database.
	DriverPostgres Driver = "postgres"
	// DriverSQLite represents SQLite database.
	DriverSQLite Driver = "sqlite"
	// DriverAuto selects the driver from the connection URL.
	DriverAuto Driver = "auto"
)

// String returns the string representation of the driver.
func (d Driver) String() string {
	return string(d)
}

// ParseDriver parses a configured driver name. Empty means auto.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(strings.TrimSpace(s))); d {
	case "", DriverAuto:
		return DriverAuto, nil
	case DriverPostgres, DriverSQLite:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", s)
	}
}

// DetectDriver parses a connection string and returns the driver type.
// An empty URL selects SQLite so the CLI works without any setup.
func DetectDriver(url string) Driver {
	switch {
	case url == "":
		return DriverSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "file:"):
		return DriverSQLite
	}
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(url, ext) {
			return DriverSQLite
		}
	}
	// Anything else is assumed to be a libpq key/value DSN.
	return DriverPostgres
}

// Resolve returns d, or the driver detected from url when d is auto.
func (d Driver) Resolve(url string) Driver {
	if d == "" || d == DriverAuto {
		return DetectDriver(url)
	}
	return d
}

// Placeholder returns the bind parameter marker for the n-th (1-based) argument.
func (d Driver) Placeholder(n int) string {
	if d == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
