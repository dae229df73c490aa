package database

import (
	"strings"

	goosedb "github.com/pressly/goose/v3/database"

	// Registered database/sql drivers.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Normalize maps driver aliases onto one of the supported names.
func Normalize(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	case "mysql", "mariadb":
		return DriverMySQL, nil
	default:
		return "", ErrUnsupportedDriver
	}
}

// sqlDriver returns the database/sql registration name for a normalized driver.
func sqlDriver(driver string) string {
	if driver == DriverPostgres {
		return "pgx"
	}
	return driver
}

func gooseDialect(driver string) goosedb.Dialect {
	switch driver {
	case DriverPostgres:
		return goosedb.DialectPostgres
	case DriverMySQL:
		return goosedb.DialectMySQL
	default:
		return goosedb.DialectSQLite3
	}
}
