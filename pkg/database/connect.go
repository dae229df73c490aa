package database

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/blogkit/pkg/logger"
)

// OpenOption configures Open.
type OpenOption func(*openOptions)

type openOptions struct {
	log *slog.Logger
}

// WithLogger reports failed connection attempts to l.
func WithLogger(l *slog.Logger) OpenOption {
	return func(o *openOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// Open connects to the configured database, retrying with a linearly growing
// wait: attempt 1 waits RetryInterval, attempt 2 waits 2x and so on.
func Open(ctx context.Context, cfg Config, opts ...OpenOption) (*sql.DB, error) {
	o := openOptions{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	driver, err := Normalize(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, ErrEmptyDSN
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for i := range attempts {
		db, err := sql.Open(sqlDriver(driver), cfg.DSN)
		if err == nil {
			configurePool(db, driver, cfg)
			if err = db.PingContext(ctx); err == nil {
				return db, nil
			}
			_ = db.Close()
		}
		lastErr = err
		o.log.WarnContext(ctx, "database connection attempt failed",
			logger.Driver(driver),
			logger.RetryCount(i+1),
			logger.Error(err),
			logger.Component("database"),
		)

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToOpenDBConnection, lastErr)
}

func configurePool(db *sql.DB, driver string, cfg Config) {
	// Every connection to an in-memory SQLite database is a separate database.
	if driver == DriverSQLite && strings.Contains(cfg.DSN, ":memory:") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxIdleTime(0)
		db.SetConnMaxLifetime(0)
		return
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
}
