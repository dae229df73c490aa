package database_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogkit/pkg/database"
)

func memoryConfig() database.Config {
	return database.Config{
		Driver:        "sqlite",
		DSN:           "file::memory:?_pragma=foreign_keys(1)&_time_format=sqlite",
		RetryAttempts: 1,
	}
}

func openMigrated(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(ctx, db, "sqlite", "", nil))
	return db
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":           database.DriverSQLite,
		"sqlite3":    database.DriverSQLite,
		"Postgres":   database.DriverPostgres,
		"postgresql": database.DriverPostgres,
		"pgx":        database.DriverPostgres,
		"mysql":      database.DriverMySQL,
		"mariadb":    database.DriverMySQL,
	}
	for in, want := range tests {
		got, err := database.Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := database.Normalize("oracle")
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("empty dsn", func(t *testing.T) {
		t.Parallel()
		_, err := database.Open(context.Background(), database.Config{Driver: "sqlite"})
		assert.ErrorIs(t, err, database.ErrEmptyDSN)
	})

	t.Run("unsupported driver", func(t *testing.T) {
		t.Parallel()
		_, err := database.Open(context.Background(), database.Config{Driver: "oracle", DSN: "x"})
		assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
	})

	t.Run("cancelled while retrying", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := database.Open(ctx, database.Config{
			Driver:        "mysql",
			DSN:           "nobody:secret@tcp(127.0.0.1:1)/blog",
			RetryAttempts: 3,
			RetryInterval: time.Minute,
		})
		assert.ErrorIs(t, err, database.ErrFailedToOpenDBConnection)
	})

	t.Run("memory database", func(t *testing.T) {
		t.Parallel()
		db, err := database.Open(context.Background(), memoryConfig())
		require.NoError(t, err)
		defer db.Close()
		assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	})
}

func TestMigrate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openMigrated(t)

	for _, table := range []string{"users", "posts", "search_logs"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	m, err := database.NewMigrator(db, "sqlite", "", nil)
	require.NoError(t, err)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Zero(t, applied, "second run applies nothing")

	status, err := m.Status(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, status)
	assert.Equal(t, int64(1), status[0].Version)
	assert.True(t, status[0].Applied)
}

func TestMigrator_Down(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openMigrated(t)

	m, err := database.NewMigrator(db, "sqlite", "", nil)
	require.NoError(t, err)
	require.NoError(t, m.Down(ctx))

	var n int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'posts'").Scan(&n)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIsDuplicateKeyError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openMigrated(t)

	insert := "INSERT INTO users (username, email, password) VALUES (?, ?, ?)"
	_, err := db.ExecContext(ctx, insert, "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insert, "alice", "other@example.com", "hash")
	require.Error(t, err)
	assert.True(t, database.IsDuplicateKeyError(err))
	assert.False(t, database.IsForeignKeyViolationError(err))

	assert.True(t, database.IsDuplicateKeyError(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, database.IsDuplicateKeyError(&mysql.MySQLError{Number: 1062}))
	assert.False(t, database.IsDuplicateKeyError(&mysql.MySQLError{Number: 1452}))
	assert.False(t, database.IsDuplicateKeyError(errors.New("boom")))
	assert.False(t, database.IsDuplicateKeyError(nil))
}

func TestIsForeignKeyViolationError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openMigrated(t)

	_, err := db.ExecContext(ctx, "INSERT INTO posts (user_id, title, content) VALUES (?, ?, ?)", 42, "t", "c")
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolationError(err))

	assert.True(t, database.IsForeignKeyViolationError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, database.IsForeignKeyViolationError(&mysql.MySQLError{Number: 1452}))
	assert.False(t, database.IsForeignKeyViolationError(nil))
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()
	db, err := database.Open(context.Background(), memoryConfig())
	require.NoError(t, err)

	check := database.Healthcheck(db)
	require.NoError(t, check(context.Background()))

	require.NoError(t, db.Close())
	assert.ErrorIs(t, check(context.Background()), database.ErrHealthcheckFailed)
}

func TestCollectStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openMigrated(t)

	_, err := db.ExecContext(ctx, `INSERT INTO users (username, email, password, role) VALUES ('ann', 'ann@example.com', 'x', 'user')`)
	require.NoError(t, err)

	count := func(ctx context.Context, table string) (int64, error) {
		var n int64
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
		return n, err
	}

	stats, err := database.CollectStats(ctx, db, "sqlite", count, "users", "posts")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", stats.Driver)
	assert.Equal(t, []database.TableRows{{Table: "users", Rows: 1}, {Table: "posts", Rows: 0}}, stats.Tables)
	assert.Equal(t, 1, stats.Pool.MaxOpen, "memory databases use one connection")
	assert.GreaterOrEqual(t, stats.Pool.Open, 1)

	_, err = database.CollectStats(ctx, db, "sqlite", count, "users", "missing_table")
	assert.ErrorIs(t, err, database.ErrStatsUnavailable)
}
