package schema

import (
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/krypticmouse/dsgo/typeir"
)

// ErrExport indicates a type that cannot be projected to JSON Schema.
var ErrExport = errors.New("cannot export type")

// ExportJSONSchema projects a Type-IR onto a JSON Schema document, with
// class and enum definitions emitted under $defs and referenced by $ref.
// Recursive classes export naturally since references are by name.
//
// The projection is structural: constraints and streaming behavior have no
// JSON Schema counterpart and are omitted.
func ExportJSONSchema(reg *Registry, t *typeir.Type) (*jsonschema.Schema, error) {
	e := &exporter{reg: reg, defs: make(map[string]*jsonschema.Schema)}

	root, err := e.schemaFor(typeir.Simplify(t))
	if err != nil {
		return nil, err
	}

	root.Schema = "https://json-schema.org/draft/2020-12/schema"

	if len(e.defs) > 0 {
		root.Defs = e.defs
	}

	return root, nil
}

type exporter struct {
	reg  *Registry
	defs map[string]*jsonschema.Schema
}

func (e *exporter) schemaFor(t *typeir.Type) (*jsonschema.Schema, error) {
	switch t.Kind {
	case typeir.KindNull:
		return &jsonschema.Schema{Type: "null"}, nil
	case typeir.KindBool:
		return &jsonschema.Schema{Type: "boolean"}, nil
	case typeir.KindInt:
		return &jsonschema.Schema{Type: "integer"}, nil
	case typeir.KindFloat:
		return &jsonschema.Schema{Type: "number"}, nil
	case typeir.KindString:
		return &jsonschema.Schema{Type: "string"}, nil
	case typeir.KindAny:
		return &jsonschema.Schema{}, nil
	case typeir.KindLiteral:
		return literalSchema(t.Literal), nil
	case typeir.KindList:
		items, err := e.schemaFor(t.Elem)
		if err != nil {
			return nil, err
		}

		return &jsonschema.Schema{Type: "array", Items: items}, nil
	case typeir.KindMap:
		values, err := e.schemaFor(t.Elem)
		if err != nil {
			return nil, err
		}

		return &jsonschema.Schema{Type: "object", AdditionalProperties: values}, nil
	case typeir.KindTuple:
		return e.tupleSchema(t)
	case typeir.KindUnion:
		return e.unionSchema(t)
	case typeir.KindEnum:
		if err := e.ensureEnumDef(t.Name); err != nil {
			return nil, err
		}

		return &jsonschema.Schema{Ref: "#/$defs/" + t.Name}, nil
	case typeir.KindClass:
		key, err := e.ensureClassDef(t.Name, t.Mode)
		if err != nil {
			return nil, err
		}

		return &jsonschema.Schema{Ref: "#/$defs/" + key}, nil
	case typeir.KindAlias:
		if err := e.ensureAliasDef(t.Name); err != nil {
			return nil, err
		}

		return &jsonschema.Schema{Ref: "#/$defs/" + t.Name}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrExport, t)
}

func literalSchema(l typeir.LiteralValue) *jsonschema.Schema {
	switch l.Kind {
	case typeir.LiteralInt:
		return &jsonschema.Schema{Type: "integer", Enum: []any{l.Int}}
	case typeir.LiteralBool:
		return &jsonschema.Schema{Type: "boolean", Enum: []any{l.Bool}}
	}

	return &jsonschema.Schema{Type: "string", Enum: []any{l.Str}}
}

func (e *exporter) tupleSchema(t *typeir.Type) (*jsonschema.Schema, error) {
	members := make([]*jsonschema.Schema, 0, len(t.Members))

	for _, m := range t.Members {
		s, err := e.schemaFor(m)
		if err != nil {
			return nil, err
		}

		members = append(members, s)
	}

	n := float64(len(t.Members))

	return &jsonschema.Schema{
		Type: "array",
		Extra: map[string]any{
			"prefixItems": members,
			"minItems":    n,
			"maxItems":    n,
		},
	}, nil
}

func (e *exporter) unionSchema(t *typeir.Type) (*jsonschema.Schema, error) {
	members := make([]*jsonschema.Schema, 0, len(t.Members))

	for _, m := range t.Members {
		s, err := e.schemaFor(m)
		if err != nil {
			return nil, err
		}

		members = append(members, s)
	}

	return &jsonschema.Schema{AnyOf: members}, nil
}

func (e *exporter) ensureEnumDef(name string) error {
	if _, done := e.defs[name]; done {
		return nil
	}

	def, ok := e.reg.Enum(name)
	if !ok {
		return fmt.Errorf("%w: enum %q not in registry", ErrExport, name)
	}

	labels := make([]any, len(def.Values))
	for i, v := range def.Values {
		labels[i] = v.Label
	}

	e.defs[name] = &jsonschema.Schema{
		Type:        "string",
		Enum:        labels,
		Description: def.Description,
	}

	return nil
}

func (e *exporter) ensureClassDef(name string, mode typeir.Mode) (string, error) {
	key := name
	if mode == typeir.ModeStream {
		key = name + "Stream"
	}

	if _, done := e.defs[key]; done {
		return key, nil
	}

	def, ok := e.reg.Class(name, mode)
	if !ok {
		return "", fmt.Errorf("%w: class %q not in registry", ErrExport, name)
	}

	// Reserve the slot before recursing so cyclic classes terminate.
	s := &jsonschema.Schema{Type: "object", Description: def.Description}
	e.defs[key] = s

	s.Properties = make(map[string]*jsonschema.Schema, len(def.Fields))

	var (
		order    []string
		required []string
	)

	for _, f := range def.Fields {
		fs, err := e.schemaFor(f.Type)
		if err != nil {
			return "", err
		}

		if f.Description != "" && fs.Ref == "" {
			fs.Description = f.Description
		}

		s.Properties[f.Name] = fs
		order = append(order, f.Name)

		if !f.IsOptional() {
			required = append(required, f.Name)
		}
	}

	s.PropertyOrder = order
	s.Required = required

	if !def.Dynamic {
		s.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}}
	}

	return key, nil
}

func (e *exporter) ensureAliasDef(name string) error {
	if _, done := e.defs[name]; done {
		return nil
	}

	target, ok := e.reg.Alias(name)
	if !ok {
		return fmt.Errorf("%w: alias %q not in registry", ErrExport, name)
	}

	// Reserve the slot before recursing so self-referential aliases
	// terminate.
	placeholder := &jsonschema.Schema{}
	e.defs[name] = placeholder

	s, err := e.schemaFor(target)
	if err != nil {
		return err
	}

	*placeholder = *s

	return nil
}
