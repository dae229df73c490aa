package sanitizer

// TableName strips every character outside [A-Za-z0-9_].
//
// The identifier is never rejected: "users; --" becomes "users". Callers that
// need to refuse malformed names must compare input and output themselves.
func TableName(s string) string {
	return keepBytes(s, func(c byte) bool {
		return isAlnum(c) || c == '_'
	})
}

// ColumnName strips every character outside [A-Za-z0-9_.]. The dot is kept so
// qualified references such as "p.title" survive.
func ColumnName(s string) string {
	return keepBytes(s, func(c byte) bool {
		return isAlnum(c) || c == '_' || c == '.'
	})
}

// IsTableName reports whether s is already a clean, non-empty table name.
func IsTableName(s string) bool {
	return s != "" && TableName(s) == s
}

// IsColumnName reports whether s is already a clean, non-empty column name.
func IsColumnName(s string) bool {
	return s != "" && ColumnName(s) == s
}
