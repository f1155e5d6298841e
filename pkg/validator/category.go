package validator

import (
	"regexp"
	"strings"
)

// categoryRegexp defines the valid format for destination categories:
// lowercase letters, numbers, underscores, and hyphens, 1-64 characters.
// Categories double as storage sub-directories, so anything that could
// escape the uploads root is rejected here.
var categoryRegexp = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidateCategory checks if the given tag is a valid destination category
// ("colors", "laminates", "hero", ...).
func ValidateCategory(category string) bool {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return false
	}
	return categoryRegexp.MatchString(trimmed)
}

// SanitizeCategory trims whitespace and validates the destination category.
// Returns the sanitized tag and a boolean indicating if it's valid.
func SanitizeCategory(category string) (string, bool) {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return "", false
	}
	if !categoryRegexp.MatchString(trimmed) {
		return trimmed, false
	}
	return trimmed, true
}
