// Package task defines the task record held by the registry.
package task

import (
	"errors"
	"fmt"
)

// Priority bounds, inclusive.
const (
	MinPriority = 1
	MaxPriority = 5
)

// ErrInvalidPriority is returned when a priority falls outside
// [MinPriority, MaxPriority].
var ErrInvalidPriority = errors.New("invalid priority")

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // field the error refers to
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Task is a single unit of work.
type Task struct {
	id          int
	description string
	priority    int
	completed   bool
}

// New creates an incomplete task. It fails if priority is out of range.
func New(id int, description string, priority int) (*Task, error) {
	if err := ValidatePriority(priority); err != nil {
		return nil, err
	}
	return &Task{
		id:          id,
		description: description,
		priority:    priority,
	}, nil
}

// ValidatePriority reports whether p may be assigned to a task.
func ValidatePriority(p int) error {
	if p < MinPriority || p > MaxPriority {
		return &ValidationError{
			Path: "priority",
			Err:  fmt.Errorf("%w: must be between %d and %d, got %d", ErrInvalidPriority, MinPriority, MaxPriority, p),
		}
	}
	return nil
}

func (t *Task) ID() int             { return t.id }
func (t *Task) Description() string { return t.description }
func (t *Task) Priority() int       { return t.priority }
func (t *Task) Completed() bool     { return t.completed }

// MarkComplete sets the completion flag. Completing twice is a no-op.
func (t *Task) MarkComplete() {
	t.completed = true
}

// SetDescription replaces the description. Any string is accepted.
func (t *Task) SetDescription(description string) {
	t.description = description
}

// SetPriority replaces the priority. On error the task is left unchanged.
func (t *Task) SetPriority(p int) error {
	if err := ValidatePriority(p); err != nil {
		return err
	}
	t.priority = p
	return nil
}

// Snapshot returns a detached value copy of the task.
func (t *Task) Snapshot() Snapshot {
	return Snapshot{
		ID:          t.id,
		Description: t.description,
		Priority:    t.priority,
		Completed:   t.completed,
	}
}

// Clone returns an independent copy that can be mutated and later committed.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// Snapshot is the read-only view of a task handed to callers.
type Snapshot struct {
	ID          int    `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Priority    int    `json:"priority" yaml:"priority"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// Less reports whether a orders before b: higher priority first, then lower id.
func Less(a, b Snapshot) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.ID < b.ID
}
