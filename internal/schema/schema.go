// Package schema validates record documents against the embedded JSON Schemas
// before they enter or leave the curation pipeline.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/hep.json schemas/journals.json
var schemaFS embed.FS

const (
	NameHEP      = "hep"
	NameJournals = "journals"
)

type Registry struct {
	compiled map[string]*jsonschema.Schema
}

// Load compiles the embedded schemas. Call once at startup.
func Load() (*Registry, error) {
	c := jsonschema.NewCompiler()
	names := []string{NameHEP, NameJournals}
	for _, name := range names {
		b, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", name, err)
		}
		if err := c.AddResource(name+".json", doc); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}
	reg := &Registry{compiled: make(map[string]*jsonschema.Schema, len(names))}
	for _, name := range names {
		sch, err := c.Compile(name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		reg.compiled[name] = sch
	}
	return reg, nil
}

// Validate checks v (a struct or decoded JSON value) against the named schema.
// A validation failure is returned unmodified so callers can surface the full
// instance location / keyword detail.
func (r *Registry) Validate(name string, v any) error {
	sch, ok := r.compiled[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	inst, err := toInstance(v)
	if err != nil {
		return fmt.Errorf("encode %s instance: %w", name, err)
	}
	return sch.Validate(inst)
}

// toInstance round-trips v through JSON so struct values validate the same way
// raw request bodies do.
func toInstance(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(b))
}
