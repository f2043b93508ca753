package task

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// State selects tasks by completion.
type State string

const (
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateAll       State = "all"
)

// IsValid reports whether s is a known state. The empty state is valid and
// behaves like StateActive.
func (s State) IsValid() bool {
	switch s {
	case "", StateActive, StateCompleted, StateAll:
		return true
	default:
		return false
	}
}

// Filter controls which tasks are returned by List.
type Filter struct {
	State   State  // empty means active only
	Pattern string // doublestar glob matched against the id, empty means any
}

// Validate checks the state and the glob pattern.
func (f Filter) Validate() error {
	if !f.State.IsValid() {
		return fmt.Errorf("invalid state %q: must be one of active, completed, all", f.State)
	}
	if f.Pattern != "" && !doublestar.ValidatePattern(f.Pattern) {
		return fmt.Errorf("invalid pattern %q", f.Pattern)
	}
	return nil
}

// Matches reports whether t passes the filter. An invalid pattern never
// matches; call Validate first to surface it.
func (f Filter) Matches(t Task) bool {
	switch f.State {
	case StateAll:
	case StateCompleted:
		if !t.Completed {
			return false
		}
	default:
		if t.Completed {
			return false
		}
	}

	if f.Pattern == "" {
		return true
	}

	ok, err := doublestar.Match(f.Pattern, t.ID)
	return err == nil && ok
}

// Apply returns the tasks that pass the filter, preserving order.
func (f Filter) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
