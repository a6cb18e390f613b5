package config

import (
	"fmt"
	"strings"
)

// User store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ParseDatabaseURL splits a DATABASE_URL into a driver and the DSN that
// driver expects. sqlite:///rel.db and sqlite:////abs.db follow the
// SQLAlchemy convention; sqlite://rel.db is accepted too.
func ParseDatabaseURL(url string) (driver, dsn string, err error) {
	switch {
	case url == "" || url == "memory://" || url == "memory":
		return DriverMemory, "", nil
	case strings.HasPrefix(url, "sqlite:///"):
		dsn = strings.TrimPrefix(url, "sqlite:///")
	case strings.HasPrefix(url, "sqlite://"):
		dsn = strings.TrimPrefix(url, "sqlite://")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	default:
		return "", "", fmt.Errorf("unsupported database url %q", url)
	}

	if dsn == "" {
		return "", "", fmt.Errorf("database url %q has no path", url)
	}
	return DriverSQLite, dsn, nil
}
