package utils

import (
	"regexp"
	"strings"
)

var (
	phoneRegex    = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	nonDigitRegex = regexp.MustCompile(`[^\d+]`)
)

func IsValidPhone(phone string) bool {
	cleaned := nonDigitRegex.ReplaceAllString(phone, "")
	return phoneRegex.MatchString(cleaned)
}

func FormatPhone(phone, countryCode string) string {
	cleaned := regexp.MustCompile(`[^\d]`).ReplaceAllString(phone, "")
	prefix := strings.TrimPrefix(countryCode, "+")

	// Local numbers with a leading zero get the country prefix instead
	if strings.HasPrefix(cleaned, "0") {
		cleaned = prefix + strings.TrimPrefix(cleaned, "0")
	} else if !strings.HasPrefix(cleaned, prefix) {
		cleaned = prefix + cleaned
	}

	return "+" + cleaned
}

func NormalizePhone(phone string) string {
	normalized := nonDigitRegex.ReplaceAllString(phone, "")
	if !strings.HasPrefix(normalized, "+") {
		normalized = "+" + normalized
	}
	return normalized
}

func MaskPhone(phone string) string {
	if len(phone) < 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
