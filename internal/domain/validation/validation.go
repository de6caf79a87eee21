package validation

import (
	"fmt"
	"regexp"
	"time"
)

// Error is a field-level validation failure raised before any I/O.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func Errorf(field, format string, args ...any) *Error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

var (
	emailRe = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)
	phoneRe = regexp.MustCompile(`^\+\d{1,15}$`)
)

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidPhone accepts a + followed by 1-15 digits.
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

var minDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateInRange reports whether d lies in [1900-01-01, today]. A nil date is
// always acceptable; absence means "present".
func DateInRange(d *time.Time) bool {
	if d == nil {
		return true
	}
	now := time.Now()
	return !d.Before(minDate) && !d.After(now)
}
