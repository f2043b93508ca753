// Package task defines the task domain model: story-point estimated units of
// work that are completed once, optionally recording the effort spent.
package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Task is a single unit of work tracked by pom.
type Task struct {
	ID         string  `json:"id"`
	Estimation int     `json:"estimation"`
	Effort     *string `json:"effort"`
	Completed  bool    `json:"completed"`
}

// New returns a pending task with no recorded effort.
func New(id string, estimation int) Task {
	return Task{ID: id, Estimation: estimation}
}

// HasEffort reports whether a non-empty effort was recorded at completion.
func (t Task) HasEffort() bool {
	return t.Effort != nil && *t.Effort != ""
}

// UnmarshalJSON accepts effort as a string, a number or null. Numbers show up
// when the store file is edited by hand and are kept as their literal text.
func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	aux := struct {
		*alias
		Effort json.RawMessage `json:"effort"`
	}{alias: (*alias)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	effort, err := decodeEffort(aux.Effort)
	if err != nil {
		return fmt.Errorf("task %q: %w", t.ID, err)
	}
	t.Effort = effort

	return nil
}

func decodeEffort(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("effort must be a string, number or null: %s", raw)
		}
		s := n.String()
		return &s, nil
	}
}

// Document is the persisted aggregate: every task keyed by id.
type Document struct {
	Tasks map[string]Task `json:"tasks"`
}

// NewDocument returns a document with an empty task mapping.
func NewDocument() Document {
	return Document{Tasks: map[string]Task{}}
}

// Sorted returns all tasks ordered ascending by id.
func (d Document) Sorted() []Task {
	tasks := make([]Task, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		tasks = append(tasks, t)
	}

	slices.SortFunc(tasks, func(a, b Task) int {
		return strings.Compare(a.ID, b.ID)
	})

	return tasks
}
