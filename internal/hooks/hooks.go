// Package hooks runs an external command after each committed registry change.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/nibzard/ptm-go/internal/registry"
)

// Options configures a hook runner.
type Options struct {
	Command string
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Runner invokes the hook command for every event it observes.
type Runner struct {
	ctx  context.Context
	opts Options
}

// NewRunner returns a runner bound to ctx. Hook processes are killed when ctx
// is cancelled.
func NewRunner(ctx context.Context, opts Options) *Runner {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Runner{ctx: ctx, opts: opts}
}

// Observe implements registry.Observer.
func (r *Runner) Observe(e registry.Event) error {
	_, err := Invoke(r.ctx, r.opts, e)
	return err
}

// Invoke runs `<command> <op> <task-id>` with the task snapshot as JSON on
// stdin. An empty command is a no-op.
func Invoke(ctx context.Context, opts Options, e registry.Event) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	payload, err := json.Marshal(e.Task)
	if err != nil {
		return Result{}, fmt.Errorf("marshal hook payload: %w", err)
	}

	id := strconv.Itoa(e.Task.ID)
	cmd := exec.CommandContext(ctx, opts.Command, string(e.Op), id)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Env = append(os.Environ(), "PTM_OP="+string(e.Op), "PTM_TASK_ID="+id)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	err = cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
