package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Task is a single to-do entry.
type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// ErrEmptySnapshot is returned when a stored snapshot holds no data at all.
var ErrEmptySnapshot = errors.New("empty snapshot")

// Encode serializes the full task list. A nil list encodes as [].
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}

// Decode parses a stored snapshot. The snapshot must satisfy the embedded
// schema; a JSON null decodes to an empty list.
func Decode(data []byte) ([]Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptySnapshot
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return []Task{}, nil
	}

	result := Validate(trimmed)
	if !result.Valid {
		return nil, fmt.Errorf("invalid snapshot: %w", result.Errors[0])
	}

	var tasks []Task
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Clone returns an independent copy of tasks.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// Equal reports whether two lists hold the same tasks in the same order.
func Equal(a, b []Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CountCompleted returns how many tasks are marked completed.
func CountCompleted(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
