package validation

import (
	"fmt"
	"regexp"
	"time"
)

const (
	MaxSlugLen     = 50
	MaxUsernameLen = 150
)

// slugs and usernames share the same restricted charset
var namePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ValidateYear rejects negative years and years after the current calendar year.
func ValidateYear(year int) error {
	if year < 0 {
		return fmt.Errorf("%d is not a correct year: value is negative", year)
	}
	if current := time.Now().Year(); year > current {
		return fmt.Errorf("%d is not a correct year: value is after %d", year, current)
	}
	return nil
}

// ValidateSlug checks that the value is a non-empty string of characters
// from [\w.@+-] no longer than MaxSlugLen.
func ValidateSlug(value string) error {
	if value == "" {
		return fmt.Errorf("slug must not be empty")
	}
	if len(value) > MaxSlugLen {
		return fmt.Errorf("slug must not exceed %d characters", MaxSlugLen)
	}
	if !namePattern.MatchString(value) {
		return fmt.Errorf("slug %q contains forbidden characters", value)
	}
	return nil
}

// ValidateUsername checks the username charset and rejects the reserved
// name "me", which is taken by the self-profile endpoint.
func ValidateUsername(value string) error {
	if value == "me" {
		return fmt.Errorf("username %q is reserved", value)
	}
	if value == "" {
		return fmt.Errorf("username must not be empty")
	}
	if len(value) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}
	if !namePattern.MatchString(value) {
		return fmt.Errorf("username %q contains forbidden characters", value)
	}
	return nil
}
