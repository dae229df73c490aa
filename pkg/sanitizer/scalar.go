package sanitizer

import "strings"

const (
	emailExtra = "!#$%&'*+-=?^_`{|}~@.[]"
	urlExtra   = "$-_.+!*'(),{}|\\^~[]`<>#%\";/?:@&="
)

// Email removes every character that can not appear in an e-mail address.
// Non-ASCII bytes are dropped.
func Email(s string) string {
	return keepBytes(strings.TrimSpace(s), func(c byte) bool {
		return isAlnum(c) || strings.IndexByte(emailExtra, c) >= 0
	})
}

// Int keeps decimal digits and the + and - signs.
func Int(s string) string {
	return keepBytes(s, func(c byte) bool {
		return isDigit(c) || c == '+' || c == '-'
	})
}

// Float keeps decimal digits, the + and - signs and the decimal point.
func Float(s string) string {
	return keepBytes(s, func(c byte) bool {
		return isDigit(c) || c == '+' || c == '-' || c == '.'
	})
}

// URL removes every character that can not appear in a URL.
func URL(s string) string {
	return keepBytes(s, func(c byte) bool {
		return isAlnum(c) || strings.IndexByte(urlExtra, c) >= 0
	})
}

// KeepDigits keeps only decimal digits.
func KeepDigits(s string) string {
	return keepBytes(s, isDigit)
}

func keepBytes(s string, keep func(byte) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if keep(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
