package query

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/blogkit/pkg/logger"
)

// Conn is the part of *sql.DB and *sql.Tx the builder uses.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxBeginner starts transactions. *sql.DB implements it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Builder compiles statements and runs them on a connection.
// It holds no per-request state and is safe for concurrent use when the
// underlying Conn is.
type Builder struct {
	conn    Conn
	begin   TxBeginner
	dialect Dialect
	log     *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithDialect sets the placeholder dialect. The default is Question.
func WithDialect(d Dialect) Option {
	return func(b *Builder) { b.dialect = d }
}

// WithLogger sets the logger used for store failures.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// New returns a Builder bound to conn. If conn can begin transactions
// (e.g. *sql.DB) Transaction is available.
func New(conn Conn, opts ...Option) *Builder {
	b := &Builder{
		conn:    conn,
		dialect: Question,
		log:     logger.Discard(),
	}
	if tb, ok := conn.(TxBeginner); ok {
		b.begin = tb
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Dialect returns the builder's placeholder dialect.
func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// Select returns all rows of table matching conds.
func (b *Builder) Select(ctx context.Context, table string, conds Conditions, opts ...SelectOption) ([]Row, error) {
	stmt, err := BuildSelect(b.dialect, NewSelect(table, conds, opts...))
	if err != nil {
		return nil, err
	}
	return b.Query(ctx, stmt)
}

// First returns the first matching row, or nil when there is none.
func (b *Builder) First(ctx context.Context, table string, conds Conditions, opts ...SelectOption) (Row, error) {
	rows, err := b.Select(ctx, table, conds, append(opts, Limit(1))...)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// Count returns the number of rows of table matching conds.
func (b *Builder) Count(ctx context.Context, table string, conds Conditions, opts ...SelectOption) (int64, error) {
	stmt, err := BuildCount(b.dialect, NewSelect(table, conds, opts...))
	if err != nil {
		return 0, err
	}
	return b.QueryInt(ctx, stmt)
}

// Exists reports whether at least one row has column = value.
func (b *Builder) Exists(ctx context.Context, table, column string, value any) (bool, error) {
	n, err := b.Count(ctx, table, Conditions{column: value})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Insert writes one row and returns its id. With the Dollar dialect the id is
// read through "RETURNING id"; otherwise sql.Result.LastInsertId is used.
func (b *Builder) Insert(ctx context.Context, table string, data Values) (int64, error) {
	stmt, err := BuildInsert(b.dialect, table, data)
	if err != nil {
		return 0, err
	}

	if b.dialect == Dollar {
		stmt.SQL += " RETURNING id"
		return b.QueryInt(ctx, stmt)
	}

	res, err := b.Exec(ctx, stmt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, b.fail(ctx, "insert id", err)
	}
	return id, nil
}

// Update sets data on rows matching conds and returns the affected row count.
// Empty conds fail with ErrMissingConditions before anything is sent.
func (b *Builder) Update(ctx context.Context, table string, data Values, conds Conditions) (int64, error) {
	stmt, err := BuildUpdate(b.dialect, table, data, conds)
	if err != nil {
		return 0, err
	}
	return b.affected(ctx, stmt)
}

// UpdateAll sets data on every row of table.
func (b *Builder) UpdateAll(ctx context.Context, table string, data Values) (int64, error) {
	stmt, err := buildUpdate(b.dialect, table, data, nil)
	if err != nil {
		return 0, err
	}
	return b.affected(ctx, stmt)
}

// UpdateWhere is Update with arbitrary predicates. At least one non-empty
// predicate is required.
func (b *Builder) UpdateWhere(ctx context.Context, table string, data Values, preds ...Predicate) (int64, error) {
	if !hasPredicates(preds) {
		return 0, ErrMissingConditions
	}
	stmt, err := buildUpdate(b.dialect, table, data, preds)
	if err != nil {
		return 0, err
	}
	return b.affected(ctx, stmt)
}

// Delete removes rows matching conds and returns the affected row count.
// Empty conds fail with ErrMissingConditions before anything is sent.
func (b *Builder) Delete(ctx context.Context, table string, conds Conditions) (int64, error) {
	stmt, err := BuildDelete(b.dialect, table, conds)
	if err != nil {
		return 0, err
	}
	return b.affected(ctx, stmt)
}

// DeleteAll removes every row of table.
func (b *Builder) DeleteAll(ctx context.Context, table string) (int64, error) {
	stmt, err := buildDelete(b.dialect, table, nil)
	if err != nil {
		return 0, err
	}
	return b.affected(ctx, stmt)
}

// DeleteWhere is Delete with arbitrary predicates. At least one non-empty
// predicate is required.
func (b *Builder) DeleteWhere(ctx context.Context, table string, preds ...Predicate) (int64, error) {
	if !hasPredicates(preds) {
		return 0, ErrMissingConditions
	}
	stmt, err := buildDelete(b.dialect, table, preds)
	if err != nil {
		return 0, err
	}
	return b.affected(ctx, stmt)
}

// Transaction runs work inside a database transaction. The transaction is
// committed when work returns nil and rolled back when it returns an error or
// panics; the error is returned and the panic re-raised. There is no retry.
func (b *Builder) Transaction(ctx context.Context, work func(ctx context.Context, tx *Builder) error) error {
	if b.begin == nil {
		return ErrNestedTransaction
	}

	tx, err := b.begin.BeginTx(ctx, nil)
	if err != nil {
		return b.fail(ctx, "begin", err)
	}

	txb := &Builder{conn: tx, dialect: b.dialect, log: b.log}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				b.log.ErrorContext(ctx, "rollback after panic failed", logger.Error(rbErr), logger.Component("query"))
			}
			panic(p)
		}
	}()

	if err := work(ctx, txb); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			b.log.ErrorContext(ctx, "rollback failed", logger.Error(rbErr), logger.Component("query"))
			return errors.Join(err, ErrStore, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return b.fail(ctx, "commit", err)
	}
	return nil
}

// HealthCheck runs "SELECT 1" and reports whether it succeeded.
func (b *Builder) HealthCheck(ctx context.Context) bool {
	var one int
	if err := b.conn.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		b.log.WarnContext(ctx, "health check failed", logger.Error(err), logger.Component("query"))
		return false
	}
	return one == 1
}

// Query runs a compiled statement and scans every row.
func (b *Builder) Query(ctx context.Context, stmt Statement) ([]Row, error) {
	rows, err := b.conn.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, b.fail(ctx, "query", err)
	}
	defer func() { _ = rows.Close() }()

	out, err := scanRows(rows)
	if err != nil {
		return nil, b.fail(ctx, "scan", err)
	}
	return out, nil
}

// QueryInt runs a statement returning a single integer, such as COUNT(*).
func (b *Builder) QueryInt(ctx context.Context, stmt Statement) (int64, error) {
	var n int64
	if err := b.conn.QueryRowContext(ctx, stmt.SQL, stmt.Args...).Scan(&n); err != nil {
		return 0, b.fail(ctx, "query", err)
	}
	return n, nil
}

// Exec runs a compiled statement that returns no rows.
func (b *Builder) Exec(ctx context.Context, stmt Statement) (sql.Result, error) {
	res, err := b.conn.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, b.fail(ctx, "exec", err)
	}
	return res, nil
}

func (b *Builder) affected(ctx context.Context, stmt Statement) (int64, error) {
	res, err := b.Exec(ctx, stmt)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, b.fail(ctx, "rows affected", err)
	}
	return n, nil
}

// fail logs a store failure without statement arguments and wraps it in ErrStore.
func (b *Builder) fail(ctx context.Context, op string, err error) error {
	b.log.ErrorContext(ctx, "store operation failed",
		slog.String("op", op),
		logger.Error(err),
		logger.Component("query"),
	)
	return errors.Join(ErrStore, err)
}
