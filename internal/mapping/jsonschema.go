package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaID identifies the JSON schema of mapping files.
const SchemaID = "https://caster-planner.dev/schema/mapping.json"

// Schema returns the JSON schema describing the mapping file format.
// Editors use it to validate and complete mapping YAML.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		FieldNameTag:   "yaml",
		DoNotReference: true,
		ExpandedStruct: true,
	}

	s := r.Reflect(new(MappingFile))
	s.ID = SchemaID
	s.Title = "caster-planner mapping file"

	return s
}

// SchemaJSON returns the indented JSON encoding of Schema.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode mapping schema: %w", err)
	}

	return data, nil
}
