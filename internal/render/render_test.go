package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/ptm-go/internal/task"
)

var sample = []task.Snapshot{
	{ID: 2, Description: "Pay rent", Priority: 5, Completed: false},
	{ID: 1, Description: "Water plants", Priority: 3, Completed: true},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRow(t *testing.T) {
	got := Row(sample[0])
	want := "ID: 2, Priority: 5, Description: Pay rent, Completed: false"
	if got != want {
		t.Errorf("Row: got %q, want %q", got, want)
	}
}

func TestTasksText(t *testing.T) {
	var buf bytes.Buffer
	if err := Tasks(&buf, FormatText, sample); err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID: 2,") || !strings.HasPrefix(lines[1], "ID: 1,") {
		t.Errorf("rows out of order: %q", lines)
	}

	buf.Reset()
	if err := Tasks(&buf, FormatText, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != EmptyMessage {
		t.Errorf("empty text output: got %q", buf.String())
	}
}

func TestTasksJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Tasks(&buf, FormatJSON, sample); err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  {") {
		t.Errorf("expected 2-space indentation, got %q", buf.String())
	}
	var decoded []task.Snapshot
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != sample[0] {
		t.Errorf("decoded: got %+v", decoded)
	}

	buf.Reset()
	if err := Tasks(&buf, FormatJSON, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty JSON output: got %q", buf.String())
	}
}

func TestTasksYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Tasks(&buf, FormatYAML, sample); err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if !strings.Contains(buf.String(), "description: Pay rent") {
		t.Errorf("missing field in YAML output: %q", buf.String())
	}
	var decoded []task.Snapshot
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(decoded) != 2 || decoded[1] != sample[1] {
		t.Errorf("decoded: got %+v", decoded)
	}
}

func TestTasksUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Tasks(&buf, Format("csv"), sample); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDocument(t *testing.T) {
	doc := map[string]any{"failed": 1}

	var buf bytes.Buffer
	if err := Document(&buf, FormatJSON, doc); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\n  \"failed\": 1\n}\n" {
		t.Errorf("json document: got %q", got)
	}

	buf.Reset()
	if err := Document(&buf, FormatYAML, doc); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "failed: 1\n" {
		t.Errorf("yaml document: got %q", got)
	}

	if err := Document(&buf, FormatText, doc); err == nil {
		t.Error("expected error for text documents")
	}
}
