package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&mf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	// Apply defaults and normalize
	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = "1"
	}

	for i := range mf.TypeMappings {
		tm := &mf.TypeMappings[i]

		// A member entry naming only one side maps equally named members.
		for j := range tm.Members {
			m := &tm.Members[j]
			if m.Source == "" {
				m.Source = m.Target
			}

			if m.Target == "" {
				m.Target = m.Source
			}
		}
	}

	for i := range mf.UserMappings {
		um := &mf.UserMappings[i]
		if um.Name == "" {
			um.Name = fmt.Sprintf("Map%sTo%s", typeBaseName(um.Source), typeBaseName(um.Target))
		}
	}
}

func typeBaseName(name string) string {
	name = strings.TrimLeft(name, "*[]")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	if name == "" {
		return name
	}

	r, size := utf8.DecodeRuneInString(name)

	return string(unicode.ToUpper(r)) + name[size:]
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a MappingFile to the given path.
func WriteFile(mf *MappingFile, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}
