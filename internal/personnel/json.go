package personnel

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// importSchema describes a JSON personnel import payload.
var importSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"people": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"email": map[string]any{
						"type": "string",
					},
					"status": map[string]any{
						"type": "string",
						"enum": []any{"", "Active", "Inactive"},
					},
				},
				"required":             []any{"name"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"people"},
	"additionalProperties": false,
}

const importSchemaURL = "schema://personnel-import.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a plain decoded JSON value, not Go maps of
		// typed slices, so round-trip the definition.
		raw, err := json.Marshal(importSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(importSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(importSchemaURL)
	})
	return compiledSchema, compileErr
}

type jsonPayload struct {
	People []struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Status string `json:"status"`
	} `json:"people"`
}

// ParseJSON reads people from a JSON payload of the form
// {"people": [{"name": "...", "email": "...", "status": "..."}]}.
// The payload is validated against the import schema before decoding.
func ParseJSON(data []byte) ([]Row, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := schema()
	if err != nil {
		return nil, fmt.Errorf("compile import schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var p jsonPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &ParseError{Err: err}
	}
	rows := make([]Row, 0, len(p.People))
	for i, person := range p.People {
		rows = append(rows, Row{
			Line:   i + 1,
			Name:   person.Name,
			Email:  person.Email,
			Status: person.Status,
		})
	}
	return rows, nil
}
