// Package render formats task listings for terminals and machine consumers.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/ptm-go/internal/task"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// EmptyMessage is printed by the text format when nothing matched.
const EmptyMessage = "No tasks found."

// ParseFormat parses a format name. Empty input means FormatText.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q, must be one of: text, json, yaml", s)
	}
}

// Row formats one task the way the interactive shell prints it.
func Row(t task.Snapshot) string {
	return fmt.Sprintf("ID: %d, Priority: %d, Description: %s, Completed: %t",
		t.ID, t.Priority, t.Description, t.Completed)
}

// Tasks writes tasks to w in the given format. The slice is written in the
// order received.
func Tasks(w io.Writer, format Format, tasks []task.Snapshot) error {
	if tasks == nil {
		tasks = []task.Snapshot{}
	}

	switch format {
	case FormatJSON, FormatYAML:
		return Document(w, format, tasks)
	case FormatText, "":
		if len(tasks) == 0 {
			_, err := fmt.Fprintln(w, EmptyMessage)
			return err
		}
		for _, t := range tasks {
			if _, err := fmt.Fprintln(w, Row(t)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Document writes v as a single JSON or YAML document.
func Document(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q cannot encode documents", format)
	}
}
