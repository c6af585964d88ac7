package script

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Version is the only script format version understood by this package.
const Version = 1

// Ops accepted in a script command.
const (
	OpAdd      = "add"
	OpList     = "list"
	OpComplete = "complete"
	OpEdit     = "edit"
	OpRemove   = "remove"
)

const schemaURL = "https://github.com/nibzard/ptm-go/script.schema.json"

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Script is a parsed batch script.
type Script struct {
	Version  int       `json:"version"`
	Commands []Command `json:"commands"`
}

// Command is one registry operation. Unused fields are left zero.
type Command struct {
	Op          string  `json:"op"`
	ID          int     `json:"id,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	Filter      string  `json:"filter,omitempty"`
}

// ValidationError reports a script that does not match the schema.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse validates data against the script schema and decodes it.
func Parse(data []byte) (*Script, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("script is empty")
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return &s, nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load script schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile script schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

func validate(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return schemaError(err)
	}
	return nil
}

// schemaError reduces a jsonschema error tree to its first leaf, taking
// leaves in instance path order.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Message: err.Error()}
	}

	var leaves []*jsonschema.ValidationError
	collectLeaves(ve, &leaves)
	if len(leaves) == 0 {
		return &ValidationError{Message: ve.Message}
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].InstanceLocation < leaves[j].InstanceLocation
	})
	return &ValidationError{
		Path:    pointerToPath(leaves[0].InstanceLocation),
		Message: leaves[0].Message,
	}
}

func collectLeaves(err *jsonschema.ValidationError, out *[]*jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*out = append(*out, err)
		return
	}
	for _, cause := range err.Causes {
		collectLeaves(cause, out)
	}
}
