package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// Every constructor except Required treats an empty value as valid, so optional
// fields skip format checks until they are filled in.

var (
	numberRegex    = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)
	integerRegex   = regexp.MustCompile(`^\s*[+-]?(0|[1-9]\d*)\s*$`)
	alphaRegex     = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaNumRegex  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	alphaDashRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

func fieldError(field, key, message string, values map[string]any) ValidationError {
	if values == nil {
		values = map[string]any{}
	}
	values["field"] = field
	return ValidationError{
		Field:             field,
		Message:           message,
		TranslationKey:    key,
		TranslationValues: values,
	}
}

// optional wraps a check so that the empty string passes.
func optional(value string, check func(string) bool) func() bool {
	return func() bool {
		return value == "" || check(value)
	}
}

// Required fails only for the empty string. "0" and whitespace count as present.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return value != "" },
		Error: fieldError(field, "validation.required",
			fmt.Sprintf("The %s field is required.", field), nil),
	}
}

// Email validates a bare address (no display name) with a dotted domain.
func Email(field, value string) Rule {
	return Rule{
		Check: optional(value, isEmail),
		Error: fieldError(field, "validation.email",
			fmt.Sprintf("The %s must be a valid email address.", field), nil),
	}
}

func isEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || addr.Name != "" {
		return false
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return false
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// MinLen checks the byte length of value.
func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: optional(value, func(v string) bool { return len(v) >= min }),
		Error: fieldError(field, "validation.min_length",
			fmt.Sprintf("The %s must be at least %d characters.", field, min),
			map[string]any{"min": min}),
	}
}

// MaxLen checks the byte length of value.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: optional(value, func(v string) bool { return len(v) <= max }),
		Error: fieldError(field, "validation.max_length",
			fmt.Sprintf("The %s may not be greater than %d characters.", field, max),
			map[string]any{"max": max}),
	}
}

// Numeric accepts decimal numbers with an optional sign, fraction and exponent.
func Numeric(field, value string) Rule {
	return Rule{
		Check: optional(value, numberRegex.MatchString),
		Error: fieldError(field, "validation.numeric",
			fmt.Sprintf("The %s must be a number.", field), nil),
	}
}

// Integer accepts an optionally signed integer without leading zeros.
func Integer(field, value string) Rule {
	return Rule{
		Check: optional(value, integerRegex.MatchString),
		Error: fieldError(field, "validation.integer",
			fmt.Sprintf("The %s must be an integer.", field), nil),
	}
}

func Alpha(field, value string) Rule {
	return Rule{
		Check: optional(value, alphaRegex.MatchString),
		Error: fieldError(field, "validation.alpha",
			fmt.Sprintf("The %s may only contain letters.", field), nil),
	}
}

func AlphaNum(field, value string) Rule {
	return Rule{
		Check: optional(value, alphaNumRegex.MatchString),
		Error: fieldError(field, "validation.alpha_num",
			fmt.Sprintf("The %s may only contain letters and numbers.", field), nil),
	}
}

func AlphaDash(field, value string) Rule {
	return Rule{
		Check: optional(value, alphaDashRegex.MatchString),
		Error: fieldError(field, "validation.alpha_dash",
			fmt.Sprintf("The %s may only contain letters, numbers, dashes, and underscores.", field), nil),
	}
}

// URL requires an absolute URL with scheme and host.
func URL(field, value string) Rule {
	return Rule{
		Check: optional(value, func(v string) bool {
			u, err := url.ParseRequestURI(v)
			return err == nil && u.Scheme != "" && u.Host != ""
		}),
		Error: fieldError(field, "validation.url",
			fmt.Sprintf("The %s must be a valid URL.", field), nil),
	}
}

// Matches validates value against a compiled pattern.
func Matches(field, value string, re *regexp.Regexp) Rule {
	return Rule{
		Check: optional(value, re.MatchString),
		Error: fieldError(field, "validation.regex",
			fmt.Sprintf("The %s format is invalid.", field),
			map[string]any{"pattern": re.String()}),
	}
}

// In checks exact, case-sensitive membership.
func In(field, value string, allowed []string) Rule {
	return Rule{
		Check: optional(value, func(v string) bool { return slices.Contains(allowed, v) }),
		Error: fieldError(field, "validation.in",
			fmt.Sprintf("The selected %s is invalid.", field),
			map[string]any{"values": allowed}),
	}
}

// Confirmed compares value with its confirmation field.
func Confirmed(field, value, confirmation string) Rule {
	return Rule{
		Check: optional(value, func(v string) bool { return v == confirmation }),
		Error: fieldError(field, "validation.confirmed",
			fmt.Sprintf("The %s confirmation does not match.", field), nil),
	}
}

// Unique fails when the value is already taken.
func Unique(field string, taken bool) Rule {
	return Rule{
		Check: func() bool { return !taken },
		Error: fieldError(field, "validation.unique",
			fmt.Sprintf("The %s has already been taken.", field), nil),
	}
}

// Exists fails when no matching row was found.
func Exists(field string, found bool) Rule {
	return Rule{
		Check: func() bool { return found },
		Error: fieldError(field, "validation.exists",
			fmt.Sprintf("The selected %s is invalid.", field), nil),
	}
}
