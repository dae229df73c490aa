// Package sanitizer normalises untrusted scalar input before it is stored or
// rendered.
//
// Every helper strips what is not allowed instead of rejecting the value, so a
// caller always gets a usable (possibly empty) result back:
//
//   - String  – trims whitespace and escapes HTML-significant characters.
//   - Email   – keeps only characters legal in an e-mail address.
//   - Int     – keeps digits and sign characters.
//   - Float   – keeps digits, sign characters and the decimal point.
//   - URL     – keeps only characters legal in a URL.
//
// # Identifiers
//
// SQL identifiers can not be passed as bound parameters, so table and column
// names are allow-listed instead:
//
//	sanitizer.TableName("users; DROP TABLE x")  // "usersDROPTABLEx"
//	sanitizer.ColumnName("p.created_at")        // "p.created_at"
//
// Both functions are deterministic and idempotent. They never return an error;
// a name made entirely of disallowed characters becomes the empty string and
// it is up to the query layer to refuse it.
//
// # Composition
//
// Apply and Compose build small pipelines out of the individual helpers:
//
//	clean := sanitizer.Compose(sanitizer.Trim, sanitizer.ToLower)
//	clean("  Mixed CASE ") // "mixed case"
//
// All helpers are stateless and safe for concurrent use.
package sanitizer
