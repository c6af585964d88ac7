package registry

import (
	"time"

	"github.com/nibzard/ptm-go/internal/task"
)

// Op names a mutating registry operation.
type Op string

const (
	OpAdd      Op = "add"
	OpComplete Op = "complete"
	OpEdit     Op = "edit"
	OpRemove   Op = "remove"
)

// Event describes a committed mutation. Task holds the state after the
// change, or the last state before removal for OpRemove.
type Event struct {
	Op   Op            `json:"op"`
	Task task.Snapshot `json:"task"`
	At   time.Time     `json:"ts"`
}

// Observer is notified after each committed mutation.
// Returned errors are logged and never undo the mutation.
type Observer interface {
	Observe(Event) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event) error

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) error {
	return f(e)
}
