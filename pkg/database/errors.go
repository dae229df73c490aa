package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUnsupportedDriver        = errors.New("unsupported database driver")
	ErrEmptyDSN                 = errors.New("empty data source name, use DB_DSN env var")
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrHealthcheckFailed        = errors.New("healthcheck failed, connection is not available")
	ErrFailedToApplyMigrations  = errors.New("failed to apply migrations")
	ErrStatsUnavailable         = errors.New("unable to retrieve database stats")
)

// IsDuplicateKeyError detects unique constraint violations on every supported driver:
// SQLSTATE 23505 on PostgreSQL, error 1062 on MySQL and "UNIQUE constraint failed" on SQLite.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolationError detects referential integrity violations.
func IsForeignKeyViolationError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1452 || myErr.Number == 1451
	}

	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
