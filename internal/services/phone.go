package services

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/you/investorportal/domain"
)

// ITU-T E.164
var e164Regex = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// IsE164 reports basic E.164 compliance
func IsE164(number string) bool { return e164Regex.MatchString(number) }

// NormalizePhone canonicalizes a user-entered phone number to E.164.
// Bare 10-digit numbers are assumed to be NANP and prefixed with +1.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return "", domain.ErrInvalidPhone
	}

	if !strings.HasPrefix(cleaned, "+") {
		digits := cleaned
		switch {
		case len(digits) == 10:
			cleaned = "+1" + digits
		case len(digits) == 11 && strings.HasPrefix(digits, "1"):
			cleaned = "+" + digits
		default:
			cleaned = "+" + digits
		}
	}

	if !IsE164(cleaned) {
		return "", domain.ErrInvalidPhone
	}
	return cleaned, nil
}

// NormalizeEmail lowercases and validates an email address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}
