// utils/valid.go
package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	nonPhoneChars = regexp.MustCompile(`[^\d+]`)
	scriptTags    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
)

// SanitizeInput trims free text and strips control characters and script tags
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = scriptTags.ReplaceAllString(input, "")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
}

// SanitizeOptional applies SanitizeInput to an optional field, turning blanks into nil
func SanitizeOptional(input *string) *string {
	if input == nil {
		return nil
	}
	clean := SanitizeInput(*input)
	if clean == "" {
		return nil
	}
	return &clean
}

// NormalizeEmail lowercases and trims an address. Format is checked by the
// request validator before this runs.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername trims a login name. Usernames are matched case sensitively.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// SanitizePhone keeps digits and a leading +; empty input stays empty
func SanitizePhone(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", nil
	}

	phone = nonPhoneChars.ReplaceAllString(phone, "")
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	if len(phone) < 8 || len(phone) > 16 {
		return "", errors.New("invalid phone number length")
	}
	return phone, nil
}
