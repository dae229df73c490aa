package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RowCounter counts the rows of one table.
type RowCounter func(ctx context.Context, table string) (int64, error)

// TableRows is the row count of one table.
type TableRows struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// PoolStats is the connection pool part of sql.DBStats.
type PoolStats struct {
	MaxOpen      int           `json:"max_open"`
	Open         int           `json:"open"`
	InUse        int           `json:"in_use"`
	Idle         int           `json:"idle"`
	WaitCount    int64         `json:"wait_count"`
	WaitDuration time.Duration `json:"wait_duration"`
}

// Stats describes the store without revealing how to reach it: the driver
// name, row counts and pool usage. The DSN is never part of it.
type Stats struct {
	Driver string      `json:"driver"`
	Tables []TableRows `json:"tables"`
	Pool   PoolStats   `json:"pool"`
}

// CollectStats counts the rows of every table with count and snapshots the
// pool of db. The first failing count aborts with ErrStatsUnavailable.
func CollectStats(ctx context.Context, db *sql.DB, driver string, count RowCounter, tables ...string) (Stats, error) {
	s := Stats{Driver: driver, Tables: make([]TableRows, 0, len(tables))}
	for _, table := range tables {
		n, err := count(ctx, table)
		if err != nil {
			return Stats{}, errors.Join(ErrStatsUnavailable, fmt.Errorf("count %s: %w", table, err))
		}
		s.Tables = append(s.Tables, TableRows{Table: table, Rows: n})
	}

	ds := db.Stats()
	s.Pool = PoolStats{
		MaxOpen:      ds.MaxOpenConnections,
		Open:         ds.OpenConnections,
		InUse:        ds.InUse,
		Idle:         ds.Idle,
		WaitCount:    ds.WaitCount,
		WaitDuration: ds.WaitDuration,
	}
	return s, nil
}
