package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatabaseURL(t *testing.T) {
	tests := []struct {
		url    string
		driver string
		dsn    string
	}{
		{"", DriverMemory, ""},
		{"memory://", DriverMemory, ""},
		{"sqlite://./debook.db", DriverSQLite, "./debook.db"},
		{"sqlite:///./rental.db", DriverSQLite, "./rental.db"},
		{"sqlite:////var/lib/debook.db", DriverSQLite, "/var/lib/debook.db"},
		{"postgres://u:p@db:5432/debook", DriverPostgres, "postgres://u:p@db:5432/debook"},
		{"postgresql://db/debook", DriverPostgres, "postgresql://db/debook"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			driver, dsn, err := ParseDatabaseURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.dsn, dsn)
		})
	}

	for _, bad := range []string{"mysql://db", "sqlite://", "redis://x"} {
		_, _, err := ParseDatabaseURL(bad)
		assert.Error(t, err, bad)
	}
}
