package utils

import (
	"regexp"
	"strings"

	"github.com/yukikurage/project-tracker-api/internal/constants"
)

var projectKeyPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// NormalizeProjectKey uppercases and trims a raw project key. Keys are
// compared case-insensitively because they are always stored normalized.
func NormalizeProjectKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// ValidProjectKey reports whether a normalized key is non-empty uppercase
// alphanumeric of at most the allowed length.
func ValidProjectKey(key string) bool {
	if key == "" || len(key) > constants.MaxProjectKeyLength {
		return false
	}
	return projectKeyPattern.MatchString(key)
}
