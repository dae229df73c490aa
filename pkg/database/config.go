package database

import "time"

// Config holds connection settings, populated from the environment with caarlos0/env.
type Config struct {
	// Driver is one of sqlite, postgres or mysql. Aliases such as pgx or postgresql are accepted.
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"`
	// DSN is the driver specific data source name.
	DSN string `env:"DB_DSN" envDefault:"file:blogkit.db?_pragma=foreign_keys(1)&_time_format=sqlite"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`      // MaxOpenConns is the maximum number of open connections.
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`       // MaxIdleConns is the maximum number of idle connections.
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"10m"` // MaxConnIdleTime is how long a connection may stay idle.
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"30m"`  // MaxConnLifetime is how long a connection may be reused.

	RetryAttempts int           `env:"DB_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of connection attempts.
	RetryInterval time.Duration `env:"DB_RETRY_INTERVAL" envDefault:"2s"` // RetryInterval is the base wait between attempts.

	MigrationsTable string `env:"DB_MIGRATIONS_TABLE" envDefault:"schema_migrations"` // MigrationsTable stores the applied migration versions.
}
