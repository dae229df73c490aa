// Package query builds and runs parameterized SQL for a small, closed subset of
// statements: SELECT, INSERT, UPDATE and DELETE with AND-ed equality/range
// conditions, OR groups, ordering and LIMIT/OFFSET.
//
// The package enforces one rule above all others: values are always bound as
// parameters and never appear in statement text. Identifiers (tables,
// columns, aliases) can not be bound, so they are passed through
// sanitizer.TableName / sanitizer.ColumnName which strip every character
// outside the allowed set. LIMIT and OFFSET are Go ints formatted with strconv,
// the only literals ever written into the text.
//
// # Usage
//
//	db, _ := sql.Open("sqlite", dsn)
//	q := query.New(db, query.WithDialect(query.Question))
//
//	rows, err := q.Select(ctx, "posts", query.Conditions{"status": "published"},
//	    query.Columns("id", "title"),
//	    query.OrderBy("created_at", "desc"),
//	    query.Limit(10),
//	)
//
//	id, err := q.Insert(ctx, "posts", query.Values{"title": "Hello", "user_id": 7})
//
//	err = q.Transaction(ctx, func(ctx context.Context, tx *query.Builder) error {
//	    if _, err := tx.Delete(ctx, "posts", query.Conditions{"id": id}); err != nil {
//	        return err
//	    }
//	    _, err := tx.Delete(ctx, "search_logs", query.Conditions{"post_id": id})
//	    return err
//	})
//
// Update and Delete refuse to run without conditions and return
// ErrMissingConditions; UpdateAll and DeleteAll are the explicit opt-in for
// statements that touch every row.
//
// The Build* functions return the compiled Statement without touching the
// database, which is what typed table stores and tests use.
package query
