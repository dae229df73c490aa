package validator

import (
	"regexp"
)

// PasswordMinLength is the minimum byte length accepted by Password.
const PasswordMinLength = 8

var (
	upperRegex   = regexp.MustCompile(`[A-Z]`)
	lowerRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex   = regexp.MustCompile(`[0-9]`)
	specialRegex = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// Password returns the password policy as separate rules. Apply reports every
// violated rule, and the engine does the same for the "password" rule.
func Password(field, value string) []Rule {
	return []Rule{
		{
			Check: optional(value, func(v string) bool { return len(v) >= PasswordMinLength }),
			Error: fieldError(field, "validation.password.min_length",
				"Password must be at least 8 characters long.",
				map[string]any{"min": PasswordMinLength}),
		},
		{
			Check: optional(value, upperRegex.MatchString),
			Error: fieldError(field, "validation.password.uppercase",
				"Password must contain at least one uppercase letter.", nil),
		},
		{
			Check: optional(value, lowerRegex.MatchString),
			Error: fieldError(field, "validation.password.lowercase",
				"Password must contain at least one lowercase letter.", nil),
		},
		{
			Check: optional(value, digitRegex.MatchString),
			Error: fieldError(field, "validation.password.digit",
				"Password must contain at least one number.", nil),
		},
		{
			Check: optional(value, specialRegex.MatchString),
			Error: fieldError(field, "validation.password.special",
				"Password must contain at least one special character.", nil),
		},
	}
}
