package layout

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema/layout-v1.json
var layoutSchemaJSON string

type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()

	if err := compiler.AddResource("layout-v1.json",
		strings.NewReader(layoutSchemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile("layout-v1.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// ValidateYAML checks a YAML document against the layout schema.
func (v *Validator) ValidateYAML(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	// YAML scalars decode to Go ints; go through JSON so the schema sees JSON types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("layout is not JSON-representable: %w", err)
	}

	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := v.schema.Validate(normalized); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}
