package query

import "errors"

var (
	// ErrInvalidIdentifier is returned when a table, column or alias is empty
	// after sanitization.
	ErrInvalidIdentifier = errors.New("query: invalid identifier")

	// ErrInvalidOperator is returned for a comparison operator outside the supported set.
	ErrInvalidOperator = errors.New("query: invalid operator")

	// ErrMissingConditions is returned by Update and Delete when no conditions
	// were given. Use UpdateAll / DeleteAll to touch every row deliberately.
	ErrMissingConditions = errors.New("query: conditions are required")

	// ErrEmptyData is returned by Insert and Update when there is nothing to write.
	ErrEmptyData = errors.New("query: no data to write")

	// ErrStore wraps every error returned by the underlying connection.
	ErrStore = errors.New("query: store error")

	// ErrNestedTransaction is returned when Transaction is called on a builder
	// that is already bound to a transaction.
	ErrNestedTransaction = errors.New("query: nested transactions are not supported")
)
