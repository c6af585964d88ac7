// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/ptm-go/internal/logging"
)

// setup isolates config lookup and captures the standard streams.
func setup(t *testing.T, input string) (out, errOut *bytes.Buffer) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range []string{
		"PTM_LOG_LEVEL", "PTM_LOG_FORMAT", "PTM_LOG_TIMESTAMPS", "PTM_LOG_CALLER",
		"PTM_LOG_DIR", "PTM_JOURNAL", "PTM_HOOK", "PTM_FORMAT", "PTM_FILTER",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	{
		dir := t.TempDir()
		prev, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chdir(prev) })
	}

	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	origIn, origOut, origErr := stdin, stdout, stderr
	stdin, stdout, stderr = strings.NewReader(input), out, errOut
	t.Cleanup(func() {
		stdin, stdout, stderr = origIn, origOut, origErr
	})
	return out, errOut
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	t.Run("shows help with -h flag", func(t *testing.T) {
		out, _ := setup(t, "")
		if err := Run(context.Background(), []string{"-h"}); err != nil {
			t.Fatalf("expected no error with -h, got %v", err)
		}
		if !strings.Contains(out.String(), "Usage:") {
			t.Errorf("expected usage output, got %q", out.String())
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		out, _ := setup(t, "")
		if err := Run(context.Background(), []string{"help"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "run <script>") {
			t.Errorf("expected command list, got %q", out.String())
		}
	})

	t.Run("shows version", func(t *testing.T) {
		for _, args := range [][]string{{"-version"}, {"-v"}, {"version"}} {
			out, _ := setup(t, "")
			if err := Run(context.Background(), args); err != nil {
				t.Fatalf("%v: expected no error, got %v", args, err)
			}
			if out.String() != "ptm version dev\n" {
				t.Errorf("%v: got %q", args, out.String())
			}
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		_, errOut := setup(t, "")
		err := Run(context.Background(), []string{"unknown-command"})
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Fatalf("expected 'unknown command' error, got %v", err)
		}
		if !strings.Contains(errOut.String(), "Unknown command: unknown-command") {
			t.Errorf("expected message on stderr, got %q", errOut.String())
		}
	})

	t.Run("invalid config value returns error", func(t *testing.T) {
		setup(t, "")
		err := Run(context.Background(), []string{"-format", "csv", "version"})
		if err == nil || !strings.Contains(err.Error(), "output_format") {
			t.Fatalf("expected output_format error, got %v", err)
		}
	})
}

func TestShellIsDefault(t *testing.T) {
	out, _ := setup(t, "1\nwater plants\n2\n2\n1\n6\n")
	if err := Run(context.Background(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Priority Task Manager",
		"Task added successfully.",
		"ID: 1, Priority: 2, Description: water plants, Completed: false",
		"Goodbye!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestShellRejectsArguments(t *testing.T) {
	setup(t, "")
	if err := Run(context.Background(), []string{"shell", "extra"}); err == nil {
		t.Error("expected error for extra arguments")
	}
}

func TestShellWritesJournal(t *testing.T) {
	setup(t, "1\njournaled\n3\n6\n")
	logDir := filepath.Join(t.TempDir(), "logs")

	if err := Run(context.Background(), []string{"-journal", "-log-dir", logDir, "shell"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	path, err := logging.FindLatestJournal(logDir)
	if err != nil || path == "" {
		t.Fatalf("expected a journal in %s, got %q, %v", logDir, path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"op":"add"`) || !strings.Contains(string(data), `"description":"journaled"`) {
		t.Errorf("unexpected journal content: %q", data)
	}
}

func TestRunCommand(t *testing.T) {
	t.Run("text output", func(t *testing.T) {
		out, _ := setup(t, "")
		path := writeScript(t, `{"version": 1, "commands": [
			{"op": "add", "description": "low", "priority": 1},
			{"op": "add", "description": "high", "priority": 5},
			{"op": "complete", "id": 1}
		]}`)

		if err := Run(context.Background(), []string{"run", path}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := "[0] add ok id=1\n" +
			"[1] add ok id=2\n" +
			"[2] complete ok id=1\n" +
			"\n" +
			"ID: 2, Priority: 5, Description: high, Completed: false\n" +
			"ID: 1, Priority: 1, Description: low, Completed: true\n"
		if out.String() != want {
			t.Errorf("got:\n%s\nwant:\n%s", out.String(), want)
		}
	})

	t.Run("failures are reported and returned", func(t *testing.T) {
		out, _ := setup(t, "")
		path := writeScript(t, `{"version": 1, "commands": [
			{"op": "add", "description": "bad", "priority": 6},
			{"op": "remove", "id": 3}
		]}`)

		err := Run(context.Background(), []string{"run", path})
		if err == nil || err.Error() != "2 of 2 commands failed" {
			t.Fatalf("expected failure count error, got %v", err)
		}
		if !strings.Contains(out.String(), "[1] remove failed: task 3: not found") {
			t.Errorf("unexpected output: %q", out.String())
		}
		if !strings.Contains(out.String(), "No tasks found.") {
			t.Errorf("expected empty listing, got %q", out.String())
		}
	})

	t.Run("json report honours the filter flag", func(t *testing.T) {
		out, _ := setup(t, "")
		path := writeScript(t, `{"version": 1, "commands": [
			{"op": "add", "description": "a", "priority": 3},
			{"op": "add", "description": "b", "priority": 3},
			{"op": "complete", "id": 2}
		]}`)

		if err := Run(context.Background(), []string{"-format", "json", "-filter", "completed", "run", path}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var report runReport
		if err := json.Unmarshal(out.Bytes(), &report); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out.String())
		}
		if len(report.Results) != 3 || report.Failed != 0 {
			t.Errorf("unexpected results: %+v", report)
		}
		if len(report.Tasks) != 1 || report.Tasks[0].ID != 2 {
			t.Errorf("expected only task 2, got %+v", report.Tasks)
		}
	})

	t.Run("stop on error", func(t *testing.T) {
		out, _ := setup(t, "")
		path := writeScript(t, `{"version": 1, "commands": [
			{"op": "complete", "id": 1},
			{"op": "add", "description": "never", "priority": 2}
		]}`)

		err := Run(context.Background(), []string{"run", "-stop-on-error", path})
		if err == nil || !strings.Contains(err.Error(), "command 0 (complete)") {
			t.Fatalf("expected stop error, got %v", err)
		}
		if strings.Contains(out.String(), "never") {
			t.Errorf("command after failure should not run: %q", out.String())
		}
	})

	t.Run("schema errors are returned before running", func(t *testing.T) {
		out, _ := setup(t, "")
		path := writeScript(t, `{"version": 1, "commands": [{"op": "edit"}]}`)

		err := Run(context.Background(), []string{"run", path})
		if err == nil || !strings.Contains(err.Error(), "commands[0]") {
			t.Fatalf("expected schema error, got %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("expected no output, got %q", out.String())
		}
	})

	t.Run("requires a path", func(t *testing.T) {
		setup(t, "")
		if err := Run(context.Background(), []string{"run"}); err == nil {
			t.Error("expected error without a script path")
		}
	})
}

func TestTailCommand(t *testing.T) {
	t.Run("no journals", func(t *testing.T) {
		out, _ := setup(t, "")
		if err := Run(context.Background(), []string{"-log-dir", t.TempDir(), "tail"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.String() != "No journal files found.\n" {
			t.Errorf("got %q", out.String())
		}
	})

	t.Run("prints last lines", func(t *testing.T) {
		out, _ := setup(t, "")
		dir := t.TempDir()
		path := filepath.Join(dir, "20260101-000000-1.jsonl")
		if err := os.WriteFile(path, []byte("a\nb\nc\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := Run(context.Background(), []string{"-log-dir", dir, "tail", "-n", "2"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := "Tailing: " + path + "\n\nb\nc\n"
		if out.String() != want {
			t.Errorf("got %q, want %q", out.String(), want)
		}
	})
}

func TestConfigCommand(t *testing.T) {
	t.Run("shows sources", func(t *testing.T) {
		out, _ := setup(t, "")
		if err := os.WriteFile("ptm.toml", []byte("output_format = \"yaml\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("PTM_FILTER", "completed")

		if err := Run(context.Background(), []string{"-log-level", "debug", "config"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got := out.String()
		for _, want := range []string{
			"ptm.toml",
			"output_format   yaml (project file)",
			"default_filter  completed (environment)",
			"log_level       debug (flag)",
			"log_format      text (default)",
			`hook_command    "" (default)`,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("example", func(t *testing.T) {
		out, _ := setup(t, "")
		if err := Run(context.Background(), []string{"config", "-example"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "output_format") {
			t.Errorf("expected example config, got %q", out.String())
		}
	})
}
