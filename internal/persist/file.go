// File: internal/persist/file.go
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// JSONFile stores the collection as a single JSON array
type JSONFile[T any] struct {
	path string
}

func NewJSONFile[T any](path string) *JSONFile[T] {
	return &JSONFile[T]{path: path}
}

func (f *JSONFile[T]) Path() string {
	return f.path
}

func (f *JSONFile[T]) Load(_ context.Context) ([]T, error) {
	data, err := readFileIfExists(f.path)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return nil, err
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", f.path, err)
	}
	return records, nil
}

func (f *JSONFile[T]) Save(_ context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", f.path, err)
	}
	return writeFileAtomic(f.path, data)
}

// YAMLFile stores the collection as a YAML sequence
type YAMLFile[T any] struct {
	path string
}

func NewYAMLFile[T any](path string) *YAMLFile[T] {
	return &YAMLFile[T]{path: path}
}

func (f *YAMLFile[T]) Path() string {
	return f.path
}

func (f *YAMLFile[T]) Load(_ context.Context) ([]T, error) {
	data, err := readFileIfExists(f.path)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return nil, err
	}

	var records []T
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", f.path, err)
	}
	return records, nil
}

func (f *YAMLFile[T]) Save(_ context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", f.path, err)
	}
	return writeFileAtomic(f.path, data)
}
