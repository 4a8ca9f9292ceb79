package normalize

import (
	"regexp"
	"strings"

	apperrors "dev-event-hub/pkg/app_errors"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email lowercases and trims the address, then checks its shape
// (local@domain.tld). Deliverability is not checked.
func Email(input string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(input))
	if !emailPattern.MatchString(email) {
		return "", apperrors.ErrInvalidEmailFormat
	}
	return email, nil
}
