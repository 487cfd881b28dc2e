package plugin

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProfileNotFound is returned when a plugin directory has no plugin-profile.yaml.
	ErrProfileNotFound = errors.New("plugin-profile.yaml not found")

	// ErrPlaybookNotFound is returned when the playbook file does not exist.
	ErrPlaybookNotFound = errors.New("playbook not found")

	// ErrPlaybookSections is returned when a playbook lacks the Objective or
	// Contextual Prompt Template section.
	ErrPlaybookSections = errors.New("playbook is missing required sections")
)

// ValidationError collects every problem found in a plugin profile.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	where := ""
	if e.Path != "" {
		where = " " + e.Path
	}
	return fmt.Sprintf("invalid plugin profile%s: %s", where, strings.Join(e.Problems, "; "))
}
