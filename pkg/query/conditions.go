package query

import (
	"slices"
	"strings"

	"github.com/dmitrymomot/blogkit/pkg/sanitizer"
)

// Op is a comparison operator. Only the constants below are accepted.
type Op string

const (
	OpEq   Op = "="
	OpNe   Op = "<>"
	OpLt   Op = "<"
	OpLte  Op = "<="
	OpGt   Op = ">"
	OpGte  Op = ">="
	OpLike Op = "LIKE"
)

func (o Op) valid() bool {
	switch o {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte, OpLike:
		return true
	}
	return false
}

// Predicate is one element of a WHERE clause.
type Predicate interface {
	build(w *writer) error
	empty() bool
}

// Cond compares a column with a bound value.
type Cond struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, value any) Cond   { return Cond{Column: column, Op: OpEq, Value: value} }
func Ne(column string, value any) Cond   { return Cond{Column: column, Op: OpNe, Value: value} }
func Lt(column string, value any) Cond   { return Cond{Column: column, Op: OpLt, Value: value} }
func Lte(column string, value any) Cond  { return Cond{Column: column, Op: OpLte, Value: value} }
func Gt(column string, value any) Cond   { return Cond{Column: column, Op: OpGt, Value: value} }
func Gte(column string, value any) Cond  { return Cond{Column: column, Op: OpGte, Value: value} }
func Like(column string, value any) Cond { return Cond{Column: column, Op: OpLike, Value: value} }

func (c Cond) empty() bool { return false }

func (c Cond) build(w *writer) error {
	col := sanitizer.ColumnName(c.Column)
	if col == "" {
		return ErrInvalidIdentifier
	}
	if !c.Op.valid() {
		return ErrInvalidOperator
	}
	w.sb.WriteString(col)
	w.sb.WriteByte(' ')
	w.sb.WriteString(string(c.Op))
	w.sb.WriteByte(' ')
	w.bind(c.Value)
	return nil
}

// IsNull matches rows where column is NULL.
func IsNull(column string) Predicate { return nullCheck{column: column} }

// NotNull matches rows where column is not NULL.
func NotNull(column string) Predicate { return nullCheck{column: column, not: true} }

type nullCheck struct {
	column string
	not    bool
}

func (n nullCheck) empty() bool { return false }

func (n nullCheck) build(w *writer) error {
	col := sanitizer.ColumnName(n.column)
	if col == "" {
		return ErrInvalidIdentifier
	}
	w.sb.WriteString(col)
	if n.not {
		w.sb.WriteString(" IS NOT NULL")
	} else {
		w.sb.WriteString(" IS NULL")
	}
	return nil
}

// AnyOf groups predicates with OR. An empty group is dropped from the clause.
func AnyOf(preds ...Predicate) Predicate {
	return anyOf(preds)
}

type anyOf []Predicate

func (g anyOf) empty() bool {
	for _, p := range g {
		if p != nil && !p.empty() {
			return false
		}
	}
	return true
}

func (g anyOf) build(w *writer) error {
	w.sb.WriteByte('(')
	first := true
	for _, p := range g {
		if p == nil || p.empty() {
			continue
		}
		if !first {
			w.sb.WriteString(" OR ")
		}
		if err := p.build(w); err != nil {
			return err
		}
		first = false
	}
	w.sb.WriteByte(')')
	return nil
}

// Conditions is the common equality-only filter: every entry becomes
// "column = ?" and the entries are AND-ed in column order.
type Conditions map[string]any

// Predicates returns the conditions as Eq predicates sorted by column name.
func (c Conditions) Predicates() []Predicate {
	if len(c) == 0 {
		return nil
	}
	cols := make([]string, 0, len(c))
	for col := range c {
		cols = append(cols, col)
	}
	slices.Sort(cols)

	preds := make([]Predicate, 0, len(cols))
	for _, col := range cols {
		preds = append(preds, Eq(col, c[col]))
	}
	return preds
}

// Values maps columns to the values written by Insert and Update.
type Values map[string]any

func (v Values) sortedColumns() []string {
	cols := make([]string, 0, len(v))
	for col := range v {
		cols = append(cols, col)
	}
	slices.Sort(cols)
	return cols
}

// writer accumulates statement text and bound arguments.
type writer struct {
	d    Dialect
	sb   strings.Builder
	args []any
}

func (w *writer) bind(v any) {
	w.args = append(w.args, v)
	w.sb.WriteString(w.d.placeholder(len(w.args)))
}

func (w *writer) where(preds []Predicate) error {
	first := true
	for _, p := range preds {
		if p == nil || p.empty() {
			continue
		}
		if first {
			w.sb.WriteString(" WHERE ")
			first = false
		} else {
			w.sb.WriteString(" AND ")
		}
		if err := p.build(w); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) statement() Statement {
	return Statement{SQL: w.sb.String(), Args: w.args}
}

func hasPredicates(preds []Predicate) bool {
	for _, p := range preds {
		if p != nil && !p.empty() {
			return true
		}
	}
	return false
}
