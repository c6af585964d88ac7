package registry

import (
	"fmt"
	"strings"

	"github.com/nibzard/ptm-go/internal/task"
)

// Filter selects tasks by completion state at listing time.
type Filter int

const (
	FilterAll Filter = iota
	FilterCompleted
	FilterIncomplete
)

// String returns the canonical name of the filter.
func (f Filter) String() string {
	switch f {
	case FilterCompleted:
		return "completed"
	case FilterIncomplete:
		return "incomplete"
	default:
		return "all"
	}
}

// Matches reports whether t passes the filter.
func (f Filter) Matches(t task.Snapshot) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterIncomplete:
		return !t.Completed
	default:
		return true
	}
}

// ParseFilter parses a filter name. Empty input means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "completed", "complete", "done":
		return FilterCompleted, nil
	case "incomplete", "pending", "todo":
		return FilterIncomplete, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q, must be one of: all, completed, incomplete", s)
	}
}

// Filters returns every filter in menu order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterCompleted, FilterIncomplete}
}
