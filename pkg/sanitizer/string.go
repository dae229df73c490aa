package sanitizer

import (
	"html"
	"strings"
)

// Trim removes leading and trailing whitespace from a string.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// ToLower converts a string to lowercase.
func ToLower(s string) string {
	return strings.ToLower(s)
}

// EscapeHTML escapes <, >, &, ' and " so the value can be embedded in markup.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// String trims the value and escapes it for safe embedding in rendered output.
func String(s string) string {
	return Apply(s, Trim, EscapeHTML)
}

// NormalizeEmail lowercases and trims an address and collapses repeated dots in
// the local part. Values that are not in local@domain form are returned trimmed
// and lowercased only.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}

	for strings.Contains(local, "..") {
		local = strings.ReplaceAll(local, "..", ".")
	}
	local = strings.Trim(local, ".")

	return local + "@" + domain
}
