package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/blogkit/pkg/clientip"
	"github.com/dmitrymomot/blogkit/pkg/config"
	"github.com/dmitrymomot/blogkit/pkg/database"
	"github.com/dmitrymomot/blogkit/pkg/logger"
	"github.com/dmitrymomot/blogkit/pkg/query"
	"github.com/dmitrymomot/blogkit/pkg/rbac"
	"github.com/dmitrymomot/blogkit/svc/blog"
)

// appConfig is the process level configuration.
type appConfig struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Name      string `env:"APP_NAME" envDefault:"blogkit"`
	RolesFile string `env:"RBAC_ROLES_FILE"` // RolesFile replaces the built-in role table when set.
}

// app holds the dependencies shared by commands.
type app struct {
	cfg   appConfig
	log   *slog.Logger
	db    *sql.DB
	dbCfg database.Config
	b     *query.Builder
	authz *rbac.Authorizer
	users *blog.Users
}

func loadEnvFile(path string) error {
	config.ResetCache()
	return config.LoadEnv(path)
}

func newLogger(cfg appConfig) (*slog.Logger, error) {
	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		return nil, err
	}
	l := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithConfig(logCfg),
		logger.WithContextExtractors(logger.RequestIDExtractor(), rbac.ActorExtractor(), clientip.Extractor()),
	)
	logger.SetAsDefault(l)
	return l, nil
}

// bootstrap loads configuration and opens the database. Callers must call
// close.
func bootstrap(ctx context.Context) (*app, error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	var dbCfg database.Config
	if err := config.Load(&dbCfg); err != nil {
		return nil, err
	}
	driver, err := database.Normalize(dbCfg.Driver)
	if err != nil {
		return nil, err
	}
	dbCfg.Driver = driver

	db, err := database.Open(ctx, dbCfg, database.WithLogger(log))
	if err != nil {
		return nil, err
	}

	hierarchy, err := loadHierarchy(ctx, cfg.RolesFile)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	b := query.New(db, query.WithDialect(query.DialectFor(driver)), query.WithLogger(log))
	users := blog.NewUsers(b)

	return &app{
		cfg:   cfg,
		log:   log,
		db:    db,
		dbCfg: dbCfg,
		b:     b,
		authz: rbac.NewAuthorizer(hierarchy, users, rbac.WithLogger(log)),
		users: users,
	}, nil
}

func loadHierarchy(ctx context.Context, path string) (*rbac.Hierarchy, error) {
	if path == "" {
		return rbac.Default(), nil
	}
	return rbac.NewHierarchy(ctx, rbac.NewYAMLFileSource(path))
}

func (a *app) migrate(ctx context.Context) error {
	return database.Migrate(ctx, a.db, a.dbCfg.Driver, a.dbCfg.MigrationsTable, a.log)
}

func (a *app) close() error {
	if err := a.db.Close(); err != nil {
		return errors.Join(errors.New("closing database"), err)
	}
	return nil
}
