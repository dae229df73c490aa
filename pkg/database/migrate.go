package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"time"

	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"

	"github.com/dmitrymomot/blogkit/pkg/logger"
)

//go:embed migrations
var migrations embed.FS

// MigrationStatus describes one migration known to the migrator.
type MigrationStatus struct {
	Version   int64
	Source    string
	Applied   bool
	AppliedAt time.Time
}

// Migrator applies the embedded schema for one driver.
type Migrator struct {
	provider *goose.Provider
	log      *slog.Logger
}

// NewMigrator prepares a goose provider for db. table is where applied
// versions are recorded; empty means "schema_migrations".
func NewMigrator(db *sql.DB, driver, table string, log *slog.Logger) (*Migrator, error) {
	driver, err := Normalize(driver)
	if err != nil {
		return nil, err
	}
	if table == "" {
		table = "schema_migrations"
	}
	if log == nil {
		log = logger.Discard()
	}

	fsys, err := fs.Sub(migrations, path.Join("migrations", driver))
	if err != nil {
		return nil, errors.Join(ErrFailedToApplyMigrations, err)
	}

	store, err := goosedb.NewStore(gooseDialect(driver), table)
	if err != nil {
		return nil, errors.Join(ErrFailedToApplyMigrations, err)
	}

	// Route goose output through the application logger instead of stdout.
	provider, err := goose.NewProvider("", db, fsys,
		goose.WithStore(store),
		goose.WithLogger(newSlogAdapter(log)),
	)
	if err != nil {
		return nil, errors.Join(ErrFailedToApplyMigrations, err)
	}

	return &Migrator{provider: provider, log: log}, nil
}

// Up applies every pending migration and returns the number applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	results, err := m.provider.Up(ctx)
	for _, r := range results {
		m.logResult(ctx, r)
	}
	if err != nil {
		return len(results), errors.Join(ErrFailedToApplyMigrations, err)
	}
	return len(results), nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	r, err := m.provider.Down(ctx)
	if r != nil {
		m.logResult(ctx, r)
	}
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// Status lists every known migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	list, err := m.provider.Status(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MigrationStatus, 0, len(list))
	for _, s := range list {
		out = append(out, MigrationStatus{
			Version:   s.Source.Version,
			Source:    path.Base(s.Source.Path),
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

func (m *Migrator) logResult(ctx context.Context, r *goose.MigrationResult) {
	attrs := []any{
		slog.Int64("version", r.Source.Version),
		slog.String("direction", r.Direction),
		logger.Duration(r.Duration),
		logger.Component("database"),
	}
	if r.Error != nil {
		m.log.ErrorContext(ctx, "migration failed", append(attrs, logger.Error(r.Error))...)
		return
	}
	m.log.InfoContext(ctx, "migration applied", attrs...)
}

// Migrate applies all pending migrations. It is the one-call form used at startup.
func Migrate(ctx context.Context, db *sql.DB, driver, table string, log *slog.Logger) error {
	m, err := NewMigrator(db, driver, table, log)
	if err != nil {
		return err
	}
	_, err = m.Up(ctx)
	return err
}

// migrateSlogAdapter bridges goose's Printf-style logging to structured logging.
type migrateSlogAdapter struct {
	log *slog.Logger
}

func newSlogAdapter(log *slog.Logger) goose.Logger {
	return &migrateSlogAdapter{log: log}
}

func (a *migrateSlogAdapter) Fatalf(format string, v ...any) {
	a.log.Error(fmt.Sprintf(format, v...), logger.Component("goose"))
}

func (a *migrateSlogAdapter) Printf(format string, v ...any) {
	a.log.Info(fmt.Sprintf(format, v...), logger.Component("goose"))
}
