package docgen

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/mochibot/mochibot/pkg/schema"
)

const schemaVersion = "http://json-schema.org/draft-07/schema#"

func buildJSONSchema(m *schema.Model) ([]byte, error) {
	root := modelSchema(m)
	root.Version = schemaVersion
	root.ID = jsonschema.ID(schemaFileName(m))
	root.Title = m.Name()
	schemaJSON, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return schemaJSON, nil
}

func modelSchema(m *schema.Model) *jsonschema.Schema {
	docs := m.Docs()
	properties := jsonschema.NewProperties()
	for _, f := range m.Fields() {
		fs := specSchema(f.Type)
		fs.Description = docs[f.Name]
		if f.Default != nil {
			fs.Default = f.Default
		} else if f.DefaultFunc != nil {
			fs.Default = f.DefaultFunc()
		}
		properties.Set(f.Name, fs)
	}
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           properties,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

// specSchema maps a type descriptor to its JSON Schema form. Nested models
// are inlined; the grammar guarantees the nesting is finite.
func specSchema(s schema.Spec) *jsonschema.Schema {
	switch s.Kind() {
	case schema.KindInt:
		return &jsonschema.Schema{Type: "integer"}
	case schema.KindFloat:
		return &jsonschema.Schema{Type: "number"}
	case schema.KindString, schema.KindBytes, schema.KindComplex:
		return &jsonschema.Schema{Type: "string"}
	case schema.KindBool:
		return &jsonschema.Schema{Type: "boolean"}
	case schema.KindNone:
		return &jsonschema.Schema{Type: "null"}
	case schema.KindAny:
		return &jsonschema.Schema{}
	case schema.KindUnion:
		arms := s.Params()
		anyOf := make([]*jsonschema.Schema, 0, len(arms))
		for _, arm := range arms {
			anyOf = append(anyOf, specSchema(arm))
		}
		return &jsonschema.Schema{AnyOf: anyOf}
	case schema.KindList:
		return &jsonschema.Schema{Type: "array", Items: specSchema(s.Params()[0])}
	case schema.KindSet:
		return &jsonschema.Schema{
			Type:        "array",
			Items:       specSchema(s.Params()[0]),
			UniqueItems: true,
		}
	case schema.KindDict:
		return &jsonschema.Schema{
			Type:                 "object",
			AdditionalProperties: specSchema(s.Params()[1]),
		}
	case schema.KindModel:
		return modelSchema(s.ModelRef())
	}
	return &jsonschema.Schema{}
}
