package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/nibzard/ptm-go/internal/registry"
	"github.com/nibzard/ptm-go/internal/task"
)

// Store is the set of registry operations a script can invoke.
type Store interface {
	Add(description string, priority int) (int, error)
	List(filter registry.Filter) []task.Snapshot
	Complete(id int) error
	Edit(id int, description *string, priority *int) error
	Remove(id int) error
}

// Options controls script execution.
type Options struct {
	// StopOnError halts at the first failing command. By default every
	// command runs and failures are recorded in the results.
	StopOnError bool
}

// Result is the outcome of one command.
type Result struct {
	Index int             `json:"index" yaml:"index"`
	Op    string          `json:"op" yaml:"op"`
	OK    bool            `json:"ok" yaml:"ok"`
	ID    int             `json:"id,omitempty" yaml:"id,omitempty"`
	Error string          `json:"error,omitempty" yaml:"error,omitempty"`
	Tasks []task.Snapshot `json:"tasks,omitempty" yaml:"tasks,omitempty"`

	Err error `json:"-" yaml:"-"`
}

// String formats the result as a single line.
func (r Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s", r.Index, r.Op)
	if !r.OK {
		fmt.Fprintf(&b, " failed: %s", r.Error)
		return b.String()
	}
	b.WriteString(" ok")
	if r.ID != 0 {
		fmt.Fprintf(&b, " id=%d", r.ID)
	}
	if r.Op == OpList {
		fmt.Fprintf(&b, " tasks=%d", len(r.Tasks))
	}
	return b.String()
}

// Failed counts the results that did not succeed.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.OK {
			n++
		}
	}
	return n
}

// Run executes the script's commands in order against store. It returns the
// results of the commands that ran. An error is returned only when ctx is
// cancelled or, with StopOnError, when a command fails.
func Run(ctx context.Context, store Store, s *Script, opts Options) ([]Result, error) {
	if s == nil {
		return nil, nil
	}
	results := make([]Result, 0, len(s.Commands))
	for i, cmd := range s.Commands {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := execute(store, i, cmd)
		results = append(results, res)
		if res.Err != nil && opts.StopOnError {
			return results, fmt.Errorf("command %d (%s): %w", i, cmd.Op, res.Err)
		}
	}
	return results, nil
}

func execute(store Store, index int, cmd Command) Result {
	res := Result{Index: index, Op: cmd.Op}
	var err error

	switch cmd.Op {
	case OpAdd:
		var description string
		var priority int
		if cmd.Description != nil {
			description = *cmd.Description
		}
		if cmd.Priority != nil {
			priority = *cmd.Priority
		}
		res.ID, err = store.Add(description, priority)
	case OpList:
		var filter registry.Filter
		filter, err = registry.ParseFilter(cmd.Filter)
		if err == nil {
			res.Tasks = store.List(filter)
		}
	case OpComplete:
		res.ID = cmd.ID
		err = store.Complete(cmd.ID)
	case OpEdit:
		res.ID = cmd.ID
		err = store.Edit(cmd.ID, cmd.Description, cmd.Priority)
	case OpRemove:
		res.ID = cmd.ID
		err = store.Remove(cmd.ID)
	default:
		err = fmt.Errorf("unknown op %q", cmd.Op)
	}

	if err != nil {
		res.Err = err
		res.Error = err.Error()
		return res
	}
	res.OK = true
	return res
}
