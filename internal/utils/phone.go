package utils

import (
	"regexp"
	"strings"
)

var (
	phoneRegex    = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	phoneStripper = regexp.MustCompile(`[^\d+]`)
)

// NormalizePhone strips formatting and prefixes defaultCountryCode when the
// number has none.
func NormalizePhone(phone, defaultCountryCode string) string {
	normalized := phoneStripper.ReplaceAllString(phone, "")
	if normalized == "" {
		return ""
	}
	if !strings.HasPrefix(normalized, "+") {
		normalized = "+" + strings.TrimPrefix(defaultCountryCode, "+") + strings.TrimLeft(normalized, "0")
	}
	return normalized
}

// IsValidPhone reports whether phone is in E.164 form.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}
