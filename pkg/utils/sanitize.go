package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeEmail sanitizes email input
func SanitizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	email = htmlTagPattern.ReplaceAllString(email, "")
	return removeControlChars(email)
}

// SanitizePhone drops spaces, dashes, dots and parentheses from phone. It
// reports false when any other non-digit is present.
func SanitizePhone(phone string) (string, bool) {
	var result strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		switch {
		case unicode.IsDigit(r):
			result.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '.', r == '(', r == ')':
		default:
			return "", false
		}
	}
	return result.String(), true
}

// SanitizeDialCode keeps a leading plus and digits
func SanitizeDialCode(code string) string {
	var result strings.Builder
	for i, r := range strings.TrimSpace(code) {
		if unicode.IsDigit(r) || (i == 0 && r == '+') {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func removeControlChars(input string) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
