// Package registry owns the task collection: it assigns ids, applies
// id-addressed mutations, and lists tasks in priority order.
package registry

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/ptm-go/internal/task"
)

// ErrNotFound is returned when no task has the requested id, including ids
// that were never issued and ids that were removed.
var ErrNotFound = errors.New("not found")

// Counts summarizes the collection by completion state.
type Counts struct {
	Total      int
	Completed  int
	Incomplete int
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for operation debug output.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithObserver registers an observer at construction time.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// Registry is the single owner of all tasks for the process lifetime.
//
// Tasks are stored by id. Priority order is derived when listing, so an
// edited priority is reflected by the next List call.
type Registry struct {
	mu     sync.Mutex
	tasks  map[int]*task.Task
	nextID int

	observers []Observer
	logger    *log.Logger
	now       func() time.Time
}

// New creates an empty registry whose first id is 1.
func New(opts ...Option) *Registry {
	r := &Registry{
		tasks:  make(map[int]*task.Task),
		nextID: 1,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add stores a new task and returns its id. The id counter only advances
// when the task is accepted.
func (r *Registry) Add(description string, priority int) (int, error) {
	r.mu.Lock()
	t, err := task.New(r.nextID, description, priority)
	if err != nil {
		r.mu.Unlock()
		r.logger.Debug("add rejected", "priority", priority, "err", err)
		return 0, err
	}
	r.tasks[t.ID()] = t
	r.nextID++
	snap := t.Snapshot()
	r.mu.Unlock()

	r.logger.Debug("task added", "id", snap.ID, "priority", snap.Priority)
	r.notify(OpAdd, snap)
	return snap.ID, nil
}

// List returns snapshots of the tasks matching filter, highest priority
// first and lowest id first among equal priorities. It never returns nil.
func (r *Registry) List(filter Filter) []task.Snapshot {
	r.mu.Lock()
	out := make([]task.Snapshot, 0, len(r.tasks))
	for _, t := range r.tasks {
		snap := t.Snapshot()
		if filter.Matches(snap) {
			out = append(out, snap)
		}
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return task.Less(out[i], out[j])
	})
	return out
}

// Get returns a snapshot of the task with the given id.
func (r *Registry) Get(id int) (task.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return task.Snapshot{}, notFound(id)
	}
	return t.Snapshot(), nil
}

// Complete marks the task as completed. Completing a completed task succeeds
// without changing it.
func (r *Registry) Complete(id int) error {
	r.mu.Lock()
	t, ok := r.tasks[id]
	if !ok {
		r.mu.Unlock()
		return notFound(id)
	}
	t.MarkComplete()
	snap := t.Snapshot()
	r.mu.Unlock()

	r.logger.Debug("task completed", "id", id)
	r.notify(OpComplete, snap)
	return nil
}

// Edit replaces the description and/or priority of a task. A nil argument
// leaves that field alone. The change is staged on a copy and committed only
// if every field is valid, so a failed edit leaves the task untouched.
func (r *Registry) Edit(id int, description *string, priority *int) error {
	r.mu.Lock()
	current, ok := r.tasks[id]
	if !ok {
		r.mu.Unlock()
		return notFound(id)
	}
	if description == nil && priority == nil {
		r.mu.Unlock()
		return nil
	}

	staged := current.Clone()
	if priority != nil {
		if err := staged.SetPriority(*priority); err != nil {
			r.mu.Unlock()
			r.logger.Debug("edit rejected", "id", id, "priority", *priority, "err", err)
			return err
		}
	}
	if description != nil {
		staged.SetDescription(*description)
	}
	r.tasks[id] = staged
	snap := staged.Snapshot()
	r.mu.Unlock()

	r.logger.Debug("task edited", "id", id, "priority", snap.Priority)
	r.notify(OpEdit, snap)
	return nil
}

// Remove deletes the task. Its id is never issued again.
func (r *Registry) Remove(id int) error {
	r.mu.Lock()
	t, ok := r.tasks[id]
	if !ok {
		r.mu.Unlock()
		return notFound(id)
	}
	delete(r.tasks, id)
	snap := t.Snapshot()
	r.mu.Unlock()

	r.logger.Debug("task removed", "id", id)
	r.notify(OpRemove, snap)
	return nil
}

// Len returns the number of stored tasks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Counts returns the number of tasks per completion state.
func (r *Registry) Counts() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := Counts{Total: len(r.tasks)}
	for _, t := range r.tasks {
		if t.Completed() {
			c.Completed++
		} else {
			c.Incomplete++
		}
	}
	return c
}

// notify delivers an event to observers outside the lock.
func (r *Registry) notify(op Op, snap task.Snapshot) {
	r.mu.Lock()
	observers := make([]Observer, len(r.observers))
	copy(observers, r.observers)
	r.mu.Unlock()

	if len(observers) == 0 {
		return
	}
	event := Event{Op: op, Task: snap, At: r.now().UTC()}
	for _, o := range observers {
		if err := o.Observe(event); err != nil {
			r.logger.Warn("observer failed", "op", op, "id", snap.ID, "err", err)
		}
	}
}

func notFound(id int) error {
	return fmt.Errorf("task %d: %w", id, ErrNotFound)
}
