package query

import (
	"strconv"
	"strings"

	"github.com/dmitrymomot/blogkit/pkg/sanitizer"
)

// Statement is compiled SQL text with its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Sort directions.
const (
	Asc  = "ASC"
	Desc = "DESC"
)

type join struct {
	kind  string
	table string
	alias string
	left  string
	right string
}

// SelectSpec describes a SELECT. Build it with NewSelect and SelectOptions.
type SelectSpec struct {
	Table     string
	Alias     string
	Distinct  bool
	Columns   []string
	CountAs   string
	Where     []Predicate
	GroupBy   []string
	OrderBy   string
	Direction string
	Limit     int
	Offset    int

	joins []join
}

// SelectOption configures a SelectSpec.
type SelectOption func(*SelectSpec)

// NewSelect returns the spec for table filtered by conds and the given options.
func NewSelect(table string, conds Conditions, opts ...SelectOption) SelectSpec {
	spec := SelectSpec{Table: table, Where: conds.Predicates()}
	for _, opt := range opts {
		opt(&spec)
	}
	return spec
}

// Columns sets an explicit projection. The default is "*".
func Columns(cols ...string) SelectOption {
	return func(s *SelectSpec) { s.Columns = append(s.Columns, cols...) }
}

// Where adds predicates, AND-ed with the equality conditions.
func Where(preds ...Predicate) SelectOption {
	return func(s *SelectSpec) { s.Where = append(s.Where, preds...) }
}

// As aliases the main table.
func As(alias string) SelectOption {
	return func(s *SelectSpec) { s.Alias = alias }
}

// Distinct adds the DISTINCT modifier.
func Distinct() SelectOption {
	return func(s *SelectSpec) { s.Distinct = true }
}

// LeftJoin joins table (aliased) on left = right.
func LeftJoin(table, alias, left, right string) SelectOption {
	return func(s *SelectSpec) {
		s.joins = append(s.joins, join{kind: "LEFT JOIN", table: table, alias: alias, left: left, right: right})
	}
}

// InnerJoin joins table (aliased) on left = right.
func InnerJoin(table, alias, left, right string) SelectOption {
	return func(s *SelectSpec) {
		s.joins = append(s.joins, join{kind: "JOIN", table: table, alias: alias, left: left, right: right})
	}
}

// CountAs adds "COUNT(*) AS alias" to the projection.
func CountAs(alias string) SelectOption {
	return func(s *SelectSpec) { s.CountAs = alias }
}

// GroupBy groups the result by the given columns.
func GroupBy(cols ...string) SelectOption {
	return func(s *SelectSpec) { s.GroupBy = append(s.GroupBy, cols...) }
}

// OrderBy sorts by column. Any direction other than "desc" (any case) is ASC.
func OrderBy(column, direction string) SelectOption {
	return func(s *SelectSpec) {
		s.OrderBy = column
		s.Direction = direction
	}
}

// Limit caps the number of rows. Values <= 0 mean no limit.
func Limit(n int) SelectOption {
	return func(s *SelectSpec) { s.Limit = n }
}

// Offset skips rows. It is only applied together with a positive Limit.
func Offset(n int) SelectOption {
	return func(s *SelectSpec) { s.Offset = n }
}

// BuildSelect compiles a SELECT statement.
func BuildSelect(d Dialect, spec SelectSpec) (Statement, error) {
	w := &writer{d: d}
	w.sb.WriteString("SELECT ")
	if spec.Distinct {
		w.sb.WriteString("DISTINCT ")
	}

	cols, err := columnList(spec.Columns)
	if err != nil {
		return Statement{}, err
	}
	if spec.CountAs != "" {
		alias := sanitizer.ColumnName(spec.CountAs)
		if alias == "" {
			return Statement{}, ErrInvalidIdentifier
		}
		cols = append(cols, "COUNT(*) AS "+alias)
	}
	if len(cols) == 0 {
		w.sb.WriteByte('*')
	} else {
		w.sb.WriteString(strings.Join(cols, ", "))
	}

	if err := writeFrom(w, spec); err != nil {
		return Statement{}, err
	}
	if err := w.where(spec.Where); err != nil {
		return Statement{}, err
	}

	if len(spec.GroupBy) > 0 {
		groups, err := columnList(spec.GroupBy)
		if err != nil {
			return Statement{}, err
		}
		w.sb.WriteString(" GROUP BY ")
		w.sb.WriteString(strings.Join(groups, ", "))
	}

	if spec.OrderBy != "" {
		col := sanitizer.ColumnName(spec.OrderBy)
		if col == "" {
			return Statement{}, ErrInvalidIdentifier
		}
		w.sb.WriteString(" ORDER BY ")
		w.sb.WriteString(col)
		w.sb.WriteByte(' ')
		w.sb.WriteString(direction(spec.Direction))
	}

	if spec.Limit > 0 {
		w.sb.WriteString(" LIMIT ")
		w.sb.WriteString(strconv.Itoa(spec.Limit))
		if spec.Offset > 0 {
			w.sb.WriteString(" OFFSET ")
			w.sb.WriteString(strconv.Itoa(spec.Offset))
		}
	}

	return w.statement(), nil
}

// BuildCount compiles "SELECT COUNT(*)" over the spec's table, joins and
// predicates. Projection, ordering and paging are ignored.
func BuildCount(d Dialect, spec SelectSpec) (Statement, error) {
	w := &writer{d: d}
	w.sb.WriteString("SELECT COUNT(*)")
	if err := writeFrom(w, spec); err != nil {
		return Statement{}, err
	}
	if err := w.where(spec.Where); err != nil {
		return Statement{}, err
	}
	return w.statement(), nil
}

// BuildInsert compiles a single-row INSERT. Columns are written in sorted order.
func BuildInsert(d Dialect, table string, data Values) (Statement, error) {
	tbl := sanitizer.TableName(table)
	if tbl == "" {
		return Statement{}, ErrInvalidIdentifier
	}
	if len(data) == 0 {
		return Statement{}, ErrEmptyData
	}

	cols := data.sortedColumns()
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		col := sanitizer.ColumnName(c)
		if col == "" {
			return Statement{}, ErrInvalidIdentifier
		}
		names = append(names, col)
	}

	w := &writer{d: d}
	w.sb.WriteString("INSERT INTO ")
	w.sb.WriteString(tbl)
	w.sb.WriteString(" (")
	w.sb.WriteString(strings.Join(names, ", "))
	w.sb.WriteString(") VALUES (")
	for i, c := range cols {
		if i > 0 {
			w.sb.WriteString(", ")
		}
		w.bind(data[c])
	}
	w.sb.WriteByte(')')

	return w.statement(), nil
}

// BuildUpdate compiles an UPDATE. It fails with ErrMissingConditions when conds is empty.
func BuildUpdate(d Dialect, table string, data Values, conds Conditions) (Statement, error) {
	if len(conds) == 0 {
		return Statement{}, ErrMissingConditions
	}
	return buildUpdate(d, table, data, conds.Predicates())
}

// BuildDelete compiles a DELETE. It fails with ErrMissingConditions when conds is empty.
func BuildDelete(d Dialect, table string, conds Conditions) (Statement, error) {
	if len(conds) == 0 {
		return Statement{}, ErrMissingConditions
	}
	return buildDelete(d, table, conds.Predicates())
}

func buildUpdate(d Dialect, table string, data Values, preds []Predicate) (Statement, error) {
	tbl := sanitizer.TableName(table)
	if tbl == "" {
		return Statement{}, ErrInvalidIdentifier
	}
	if len(data) == 0 {
		return Statement{}, ErrEmptyData
	}

	w := &writer{d: d}
	w.sb.WriteString("UPDATE ")
	w.sb.WriteString(tbl)
	w.sb.WriteString(" SET ")
	for i, c := range data.sortedColumns() {
		col := sanitizer.ColumnName(c)
		if col == "" {
			return Statement{}, ErrInvalidIdentifier
		}
		if i > 0 {
			w.sb.WriteString(", ")
		}
		w.sb.WriteString(col)
		w.sb.WriteString(" = ")
		w.bind(data[c])
	}
	if err := w.where(preds); err != nil {
		return Statement{}, err
	}
	return w.statement(), nil
}

func buildDelete(d Dialect, table string, preds []Predicate) (Statement, error) {
	tbl := sanitizer.TableName(table)
	if tbl == "" {
		return Statement{}, ErrInvalidIdentifier
	}

	w := &writer{d: d}
	w.sb.WriteString("DELETE FROM ")
	w.sb.WriteString(tbl)
	if err := w.where(preds); err != nil {
		return Statement{}, err
	}
	return w.statement(), nil
}

func writeFrom(w *writer, spec SelectSpec) error {
	tbl := sanitizer.TableName(spec.Table)
	if tbl == "" {
		return ErrInvalidIdentifier
	}
	w.sb.WriteString(" FROM ")
	w.sb.WriteString(tbl)
	if spec.Alias != "" {
		alias := sanitizer.TableName(spec.Alias)
		if alias == "" {
			return ErrInvalidIdentifier
		}
		w.sb.WriteByte(' ')
		w.sb.WriteString(alias)
	}

	for _, j := range spec.joins {
		jt := sanitizer.TableName(j.table)
		ja := sanitizer.TableName(j.alias)
		left := sanitizer.ColumnName(j.left)
		right := sanitizer.ColumnName(j.right)
		if jt == "" || left == "" || right == "" || (j.alias != "" && ja == "") {
			return ErrInvalidIdentifier
		}
		w.sb.WriteByte(' ')
		w.sb.WriteString(j.kind)
		w.sb.WriteByte(' ')
		w.sb.WriteString(jt)
		if ja != "" {
			w.sb.WriteByte(' ')
			w.sb.WriteString(ja)
		}
		w.sb.WriteString(" ON ")
		w.sb.WriteString(left)
		w.sb.WriteString(" = ")
		w.sb.WriteString(right)
	}
	return nil
}

func columnList(in []string) ([]string, error) {
	out := make([]string, 0, len(in)+1)
	for _, c := range in {
		col := sanitizer.ColumnName(c)
		if col == "" {
			return nil, ErrInvalidIdentifier
		}
		out = append(out, col)
	}
	return out, nil
}

func direction(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), Desc) {
		return Desc
	}
	return Asc
}
