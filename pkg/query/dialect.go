package query

import "strconv"

// Dialect controls placeholder syntax.
type Dialect int

const (
	// Question uses "?" placeholders (SQLite, MySQL).
	Question Dialect = iota
	// Dollar uses "$1, $2, ..." placeholders (PostgreSQL).
	Dollar
)

// DialectFor returns the dialect for a database/sql driver name.
func DialectFor(driver string) Dialect {
	switch driver {
	case "postgres", "pgx", "postgresql":
		return Dollar
	default:
		return Question
	}
}

func (d Dialect) String() string {
	if d == Dollar {
		return "dollar"
	}
	return "question"
}

func (d Dialect) placeholder(n int) string {
	if d == Dollar {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
