// Package hooks provides tests for external hook invocation.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/ptm-go/internal/registry"
	"github.com/nibzard/ptm-go/internal/task"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("hook scripts use /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "hook.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func sampleEvent() registry.Event {
	return registry.Event{
		Op:   registry.OpAdd,
		Task: task.Snapshot{ID: 7, Description: "write docs", Priority: 4},
		At:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestInvokeEmptyCommand(t *testing.T) {
	result, err := Invoke(context.Background(), Options{}, sampleEvent())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Ran {
		t.Error("expected Ran to be false")
	}
}

func TestInvokeArgumentsAndEnv(t *testing.T) {
	script := writeScript(t, `echo "args=$1 $2"; echo "env=$PTM_OP $PTM_TASK_ID"; cat`)

	var stdout bytes.Buffer
	result, err := Invoke(context.Background(), Options{Command: script, Stdout: &stdout}, sampleEvent())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Ran {
		t.Error("expected Ran to be true")
	}
	if result.ExitCode != 0 {
		t.Errorf("expected ExitCode 0, got %d", result.ExitCode)
	}
	if len(result.Command) != 3 || result.Command[1] != "add" || result.Command[2] != "7" {
		t.Errorf("unexpected command args: %v", result.Command)
	}

	lines := strings.SplitN(stdout.String(), "\n", 3)
	if len(lines) < 3 {
		t.Fatalf("unexpected hook output: %q", stdout.String())
	}
	if lines[0] != "args=add 7" {
		t.Errorf("args line: got %q", lines[0])
	}
	if lines[1] != "env=add 7" {
		t.Errorf("env line: got %q", lines[1])
	}
	var snap task.Snapshot
	if err := json.Unmarshal([]byte(strings.TrimSpace(lines[2])), &snap); err != nil {
		t.Fatalf("stdin payload is not JSON: %q: %v", lines[2], err)
	}
	if snap != sampleEvent().Task {
		t.Errorf("stdin payload: got %+v", snap)
	}
}

func TestInvokeHookFailure(t *testing.T) {
	script := writeScript(t, "exit 42")

	result, err := Invoke(context.Background(), Options{Command: script}, sampleEvent())
	if err == nil {
		t.Fatal("expected error for failed hook, got nil")
	}
	if !result.Ran {
		t.Error("expected Ran to be true")
	}
	if result.ExitCode != 42 {
		t.Errorf("expected ExitCode 42, got %d", result.ExitCode)
	}
}

func TestInvokeMissingCommand(t *testing.T) {
	result, err := Invoke(context.Background(), Options{
		Command: filepath.Join(t.TempDir(), "does-not-exist"),
	}, sampleEvent())
	if err == nil {
		t.Fatal("expected error for missing command")
	}
	if result.ExitCode != -1 {
		t.Errorf("expected ExitCode -1, got %d", result.ExitCode)
	}
}

func TestInvokeWithWorkDir(t *testing.T) {
	workDir := t.TempDir()
	script := writeScript(t, "pwd")

	var stdout bytes.Buffer
	if _, err := Invoke(context.Background(), Options{Command: script, WorkDir: workDir, Stdout: &stdout}, sampleEvent()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, err := filepath.EvalSymlinks(strings.TrimSpace(stdout.String()))
	if err != nil {
		t.Fatal(err)
	}
	want, err := filepath.EvalSymlinks(workDir)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("hook ran in %q, want %q", got, want)
	}
}

func TestInvokeWithContextCancellation(t *testing.T) {
	script := writeScript(t, "sleep 10")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := Invoke(ctx, Options{Command: script}, sampleEvent())
	if err == nil {
		t.Fatal("expected error for cancelled hook")
	}
	if !result.Ran {
		t.Error("expected Ran to be true")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("hook was not killed on cancellation")
	}
}

func TestRunnerAsObserver(t *testing.T) {
	dir := t.TempDir()
	record := filepath.Join(dir, "calls.txt")
	script := writeScript(t, `echo "$PTM_OP $PTM_TASK_ID" >> "`+record+`"`)

	r := registry.New(registry.WithObserver(NewRunner(context.Background(), Options{Command: script})))
	id, err := r.Add("hooked", 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Complete(id); err != nil {
		t.Fatal(err)
	}
	if err := r.Remove(id); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(record)
	if err != nil {
		t.Fatal(err)
	}
	want := "add 1\ncomplete 1\nremove 1\n"
	if string(data) != want {
		t.Errorf("hook calls: got %q, want %q", data, want)
	}
}

func TestRunnerFailureDoesNotFailRegistry(t *testing.T) {
	script := writeScript(t, "exit 3")

	var logs bytes.Buffer
	r := registry.New(
		registry.WithLogger(log.New(&logs)),
		registry.WithObserver(NewRunner(context.Background(), Options{Command: script})),
	)
	id, err := r.Add("still stored", 2)
	if err != nil {
		t.Fatalf("Add returned hook error: %v", err)
	}
	if _, err := r.Get(id); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "observer failed") {
		t.Errorf("expected hook failure to be logged, got %q", logs.String())
	}
}

func TestExitCodeFromError(t *testing.T) {
	if got := exitCodeFromError(nil); got != 0 {
		t.Errorf("nil error: got %d, want 0", got)
	}
	if got := exitCodeFromError(errors.New("boom")); got != -1 {
		t.Errorf("plain error: got %d, want -1", got)
	}
	if runtime.GOOS != "windows" {
		err := exec.Command("/bin/sh", "-c", "exit 5").Run()
		if got := exitCodeFromError(err); got != 5 {
			t.Errorf("exit error: got %d, want 5", got)
		}
	}
}
