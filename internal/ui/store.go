// Package ui provides the interactive front ends: the numbered menu shell and
// a full-screen terminal UI.
package ui

import (
	"github.com/nibzard/ptm-go/internal/registry"
	"github.com/nibzard/ptm-go/internal/task"
)

// Store is the registry surface the front ends drive.
type Store interface {
	Add(description string, priority int) (int, error)
	List(filter registry.Filter) []task.Snapshot
	Complete(id int) error
	Edit(id int, description *string, priority *int) error
	Remove(id int) error
	Counts() registry.Counts
}
