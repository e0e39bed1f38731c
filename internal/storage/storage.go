// Package storage loads and saves the task list as a JSON data file.
//
// The file format is:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    {"id": "…", "type": "todo", "description": "read book", "done": false},
//	    {"id": "…", "type": "deadline", "description": "return book", "done": false, "by": "Sunday"},
//	    {"id": "…", "type": "event", "description": "book club", "done": true, "at": "Friday"}
//	  ]
//	}
//
// Files are validated against an embedded JSON Schema before use and written
// with 2-space indentation and a trailing newline.
package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/duke-go/internal/task"
	"github.com/nibzard/duke-go/internal/utils"
)

// SchemaVersion is the only file version this package reads and writes.
const SchemaVersion = 1

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://duke.local/duke.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// File is the on-disk representation of a task list.
type File struct {
	SchemaVersion int      `json:"schema_version"`
	Tasks         []Record `json:"tasks"`
}

// Record is one stored task.
type Record struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
	By          string `json:"by,omitempty"`
	At          string `json:"at,omitempty"`
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dot path to the error location
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Load reads the data file at path and rebuilds the task list. A missing file
// yields an empty list.
func Load(path string) (*task.List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return task.NewList(), nil
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}
	if errs := validate(raw); len(errs) > 0 {
		return nil, fmt.Errorf("invalid data file %s: %w", path, errors.Join(errs...))
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}
	if errs := checkIDs(&f); len(errs) > 0 {
		return nil, fmt.Errorf("invalid data file %s: %w", path, errors.Join(errs...))
	}
	return f.List()
}

// Save writes the task list to path, replacing any previous file atomically.
func Save(path string, list *task.List) error {
	data, err := json.MarshalIndent(FromList(list), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod data file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// FromList converts a task list into its file representation.
func FromList(list *task.List) *File {
	f := &File{SchemaVersion: SchemaVersion, Tasks: make([]Record, 0, list.Size())}
	for _, t := range list.Tasks() {
		rec := Record{
			ID:          t.ID(),
			Type:        string(t.Kind()),
			Description: t.Description(),
			Done:        t.IsDone(),
		}
		switch t.Kind() {
		case task.KindDeadline:
			rec.By = t.When()
		case task.KindEvent:
			rec.At = t.When()
		}
		f.Tasks = append(f.Tasks, rec)
	}
	return f
}

// List rebuilds the task list through the task constructors.
func (f *File) List() (*task.List, error) {
	list := task.NewList()
	for i, rec := range f.Tasks {
		when := ""
		switch task.Kind(rec.Type) {
		case task.KindDeadline:
			when = rec.By
		case task.KindEvent:
			when = rec.At
		}
		t, err := task.Restore(rec.ID, task.Kind(rec.Type), rec.Description, when, rec.Done)
		if err != nil {
			return nil, &ValidationError{Path: fmt.Sprintf("tasks[%d]", i), Err: err}
		}
		list.Add(t)
	}
	return list, nil
}

// Validate checks the file against the schema and for duplicate IDs.
func (f *File) Validate() []error {
	data, err := json.Marshal(f)
	if err != nil {
		return []error{&ValidationError{Err: fmt.Errorf("failed to marshal file for validation: %w", err)}}
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return []error{&ValidationError{Err: fmt.Errorf("failed to unmarshal file for validation: %w", err)}}
	}
	errs := validate(raw)
	return append(errs, checkIDs(f)...)
}

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

func validate(doc interface{}) []error {
	s, err := schema()
	if err != nil {
		return []error{fmt.Errorf("compile schema: %w", err)}
	}
	err = s.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errs
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

func checkIDs(f *File) []error {
	var errs []error
	seen := make(map[string]int, len(f.Tasks))
	for i, rec := range f.Tasks {
		if first, ok := seen[rec.ID]; ok {
			errs = append(errs, &ValidationError{
				Path: fmt.Sprintf("tasks[%d].id", i),
				Err:  fmt.Errorf("duplicate id %q (first used by tasks[%d])", rec.ID, first),
			})
			continue
		}
		seen[rec.ID] = i
	}
	return errs
}
