// Package database opens the blog's SQL connection and owns its schema.
//
// Three drivers are supported through database/sql: SQLite (modernc.org/sqlite,
// the default), PostgreSQL (pgx/v5 stdlib) and MySQL (go-sql-driver/mysql).
// Config is read from the environment with caarlos0/env:
//
//	var cfg database.Config
//	if err := env.Parse(&cfg); err != nil {
//		return err
//	}
//	db, err := database.Open(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	if err := database.Migrate(ctx, db, cfg.Driver, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
// Open retries failed connections with a linearly growing wait. Migrations are
// embedded per driver and applied with a goose Provider; their output is
// routed through slog.
//
// IsDuplicateKeyError and IsForeignKeyViolationError classify constraint
// violations regardless of the driver that produced them. CollectStats reports
// row counts and pool usage without exposing the DSN.
package database
