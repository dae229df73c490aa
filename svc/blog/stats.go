package blog

import (
	"context"
	"database/sql"

	"github.com/dmitrymomot/blogkit/pkg/database"
	"github.com/dmitrymomot/blogkit/pkg/query"
)

// Tables lists the blog's tables in schema order.
var Tables = []string{usersTable, postsTable, searchLogsTable}

// StoreStats reports the row count of every blog table and the pool usage
// of db. Counts go through the query builder.
func StoreStats(ctx context.Context, db *sql.DB, driver string) (database.Stats, error) {
	b := query.New(db, query.WithDialect(query.DialectFor(driver)))
	count := func(ctx context.Context, table string) (int64, error) {
		return b.Count(ctx, table, nil)
	}
	return database.CollectStats(ctx, db, driver, count, Tables...)
}
