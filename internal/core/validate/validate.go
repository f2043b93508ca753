// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/hay-kot/criterio"
)

// TaskID validates a task id is non-empty after trimming whitespace and
// contains no control characters. Ids are otherwise free-form and
// case-sensitive.
func TaskID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("task id is required")
	}
	if strings.IndexFunc(id, unicode.IsControl) >= 0 {
		return fmt.Errorf("task id %q contains control characters", id)
	}
	return nil
}

// TaskIDField returns a criterio validator for task ids.
func TaskIDField(field, id string) error {
	return criterio.Run(field, id, TaskID)
}

// Estimation parses a story point estimate given on the command line.
func Estimation(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("estimation must be an integer, got %q", raw)
	}
	return n, nil
}
