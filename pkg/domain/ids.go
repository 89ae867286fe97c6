package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// idPattern matches valid ID formats: alphanumeric with hyphens/underscores
var idPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateID checks that value is usable as a task, todo, or deliverable
// identifier. IDs become directory and file names under .workintel/, so the
// format is restricted to path-safe characters. kind names the identifier in
// the error message ("task", "todo", "deliverable").
func ValidateID(kind, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s ID cannot be empty", kind)
	}
	if !idPattern.MatchString(value) {
		return fmt.Errorf("invalid %s ID format: %s", kind, value)
	}
	return nil
}
