package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/krypticmouse/dsgo/typeir"
)

// Sentinel errors returned by the YAML loader.
var (
	ErrInvalidYAML   = errors.New("invalid yaml")
	ErrInvalidSchema = errors.New("invalid schema document")
)

// LoadYAML reads a schema document and returns a [Builder] populated with
// its classes, enums, aliases, and target. YAML comments directly above a
// class, enum, or field become its description unless an explicit
// `description` key is present. Comments on individual enum values are not
// read.
//
// Document shape:
//
//	target: Invoice[]
//	classes:
//	  Invoice:
//	    fields:
//	      # Total amount in dollars.
//	      total:
//	        type: float
//	        asserts:
//	          positive: this > 0.0
//	      id: string
//	enums:
//	  Status:
//	    values:
//	      - Open
//	      - label: Closed
//	        aliases: [Done]
//	aliases:
//	  JSON: map<string, JSON> | string | float | bool | null
func LoadYAML(data []byte) (*Builder, error) {
	file, err := parser.ParseBytes(data, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}

	b := NewBuilder()

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return b, nil
	}

	root, ok := mappingEntries(file.Docs[0].Body)
	if !ok {
		return nil, fmt.Errorf("%w: document root must be a mapping", ErrInvalidSchema)
	}

	for _, mvn := range root {
		key := keyString(mvn)

		switch key {
		case "target":
			t, terr := ParseTypeExpr(scalarString(mvn.Value))
			if terr != nil {
				return nil, fmt.Errorf("target: %w", terr)
			}

			b.SetTarget(t)

		case "classes":
			if err := loadClasses(b, mvn.Value); err != nil {
				return nil, err
			}

		case "enums":
			if err := loadEnums(b, mvn.Value); err != nil {
				return nil, err
			}

		case "aliases":
			if err := loadAliases(b, mvn.Value); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("%w: unknown top-level key %q", ErrInvalidSchema, key)
		}
	}

	return b, nil
}

func loadClasses(b *Builder, node ast.Node) error {
	entries, ok := mappingEntries(node)
	if !ok {
		return fmt.Errorf("%w: classes must be a mapping", ErrInvalidSchema)
	}

	for _, classNode := range entries {
		name := keyString(classNode)

		def := ClassDef{Name: name, Description: extractComment(classNode)}

		body, ok := mappingEntries(classNode.Value)
		if !ok {
			return fmt.Errorf("%w: class %q must be a mapping", ErrInvalidSchema, name)
		}

		for _, mvn := range body {
			switch k := keyString(mvn); k {
			case "description":
				def.Description = scalarString(mvn.Value)
			case "dynamic":
				def.Dynamic = scalarString(mvn.Value) == "true"
			case "mode":
				if scalarString(mvn.Value) == "stream" {
					def.Mode = typeir.ModeStream
				}
			case "checks", "asserts":
				cs, err := loadConstraints(mvn.Value, k == "asserts")
				if err != nil {
					return fmt.Errorf("class %q: %w", name, err)
				}

				def.Constraints = append(def.Constraints, cs...)
			case "fields":
				fields, err := loadFields(name, mvn.Value)
				if err != nil {
					return err
				}

				def.Fields = fields
			default:
				return fmt.Errorf("%w: class %q has unknown key %q", ErrInvalidSchema, name, k)
			}
		}

		b.AddClass(def)
	}

	return nil
}

func loadFields(className string, node ast.Node) ([]FieldDef, error) {
	entries, ok := mappingEntries(node)
	if !ok {
		return nil, fmt.Errorf("%w: fields of %q must be a mapping", ErrInvalidSchema, className)
	}

	fields := make([]FieldDef, 0, len(entries))

	for _, mvn := range entries {
		f := FieldDef{Name: keyString(mvn), Description: extractComment(mvn)}

		value := unwrapNode(mvn.Value)
		if body, isMapping := mappingEntries(value); isMapping {
			if err := loadFieldBody(className, &f, body); err != nil {
				return nil, err
			}
		} else {
			t, err := ParseTypeExpr(scalarString(value))
			if err != nil {
				return nil, fmt.Errorf("field %s.%s: %w", className, f.Name, err)
			}

			f.Type = t
		}

		if f.Type == nil {
			return nil, fmt.Errorf("%w: field %s.%s has no type",
				ErrInvalidSchema, className, f.Name)
		}

		fields = append(fields, f)
	}

	return fields, nil
}

func loadFieldBody(className string, f *FieldDef, body []*ast.MappingValueNode) error {
	var constraints []typeir.Constraint

	for _, mvn := range body {
		switch k := keyString(mvn); k {
		case "type":
			t, err := ParseTypeExpr(scalarString(mvn.Value))
			if err != nil {
				return fmt.Errorf("field %s.%s: %w", className, f.Name, err)
			}

			f.Type = t
		case "alias":
			f.Alias = scalarString(mvn.Value)
		case "description":
			f.Description = scalarString(mvn.Value)
		case "mode":
			if scalarString(mvn.Value) == "stream" {
				f.Mode = typeir.ModeStream
			}
		case "checks", "asserts":
			cs, err := loadConstraints(mvn.Value, k == "asserts")
			if err != nil {
				return fmt.Errorf("field %s.%s: %w", className, f.Name, err)
			}

			constraints = append(constraints, cs...)
		default:
			return fmt.Errorf("%w: field %s.%s has unknown key %q",
				ErrInvalidSchema, className, f.Name, k)
		}
	}

	if len(constraints) > 0 && f.Type != nil {
		f.Type = f.Type.Clone()
		f.Type.Meta.Constraints = append(f.Type.Meta.Constraints, constraints...)
	}

	return nil
}

func loadConstraints(node ast.Node, isAssert bool) ([]typeir.Constraint, error) {
	entries, ok := mappingEntries(node)
	if !ok {
		return nil, fmt.Errorf("%w: constraints must be a label-to-expression mapping",
			ErrInvalidSchema)
	}

	cs := make([]typeir.Constraint, 0, len(entries))

	for _, mvn := range entries {
		label := keyString(mvn)
		expr := scalarString(mvn.Value)

		if isAssert {
			cs = append(cs, typeir.Assert(label, expr))
		} else {
			cs = append(cs, typeir.Check(label, expr))
		}
	}

	return cs, nil
}

func loadEnums(b *Builder, node ast.Node) error {
	entries, ok := mappingEntries(node)
	if !ok {
		return fmt.Errorf("%w: enums must be a mapping", ErrInvalidSchema)
	}

	for _, enumNode := range entries {
		name := keyString(enumNode)
		def := EnumDef{Name: name, Description: extractComment(enumNode)}

		body, ok := mappingEntries(enumNode.Value)
		if !ok {
			return fmt.Errorf("%w: enum %q must be a mapping", ErrInvalidSchema, name)
		}

		for _, mvn := range body {
			switch k := keyString(mvn); k {
			case "description":
				def.Description = scalarString(mvn.Value)
			case "values":
				values, err := loadEnumValues(name, mvn.Value)
				if err != nil {
					return err
				}

				def.Values = values
			default:
				return fmt.Errorf("%w: enum %q has unknown key %q", ErrInvalidSchema, name, k)
			}
		}

		b.AddEnum(def)
	}

	return nil
}

func loadEnumValues(enumName string, node ast.Node) ([]EnumValueDef, error) {
	seq, ok := unwrapNode(node).(*ast.SequenceNode)
	if !ok {
		return nil, fmt.Errorf("%w: values of enum %q must be a sequence",
			ErrInvalidSchema, enumName)
	}

	values := make([]EnumValueDef, 0, len(seq.Values))

	for _, item := range seq.Values {
		item = unwrapNode(item)

		if body, isMapping := mappingEntries(item); isMapping {
			var v EnumValueDef

			for _, mvn := range body {
				switch k := keyString(mvn); k {
				case "label":
					v.Label = scalarString(mvn.Value)
				case "description":
					v.Description = scalarString(mvn.Value)
				case "aliases":
					aliasSeq, isSeq := unwrapNode(mvn.Value).(*ast.SequenceNode)
					if !isSeq {
						return nil, fmt.Errorf("%w: aliases of enum %q must be a sequence",
							ErrInvalidSchema, enumName)
					}

					for _, a := range aliasSeq.Values {
						v.Aliases = append(v.Aliases, scalarString(a))
					}
				default:
					return nil, fmt.Errorf("%w: enum %q value has unknown key %q",
						ErrInvalidSchema, enumName, k)
				}
			}

			if v.Label == "" {
				return nil, fmt.Errorf("%w: enum %q has a value without a label",
					ErrInvalidSchema, enumName)
			}

			values = append(values, v)

			continue
		}

		values = append(values, EnumValueDef{Label: scalarString(item)})
	}

	return values, nil
}

func loadAliases(b *Builder, node ast.Node) error {
	entries, ok := mappingEntries(node)
	if !ok {
		return fmt.Errorf("%w: aliases must be a mapping", ErrInvalidSchema)
	}

	for _, mvn := range entries {
		name := keyString(mvn)

		t, err := ParseTypeExpr(scalarString(mvn.Value))
		if err != nil {
			return fmt.Errorf("alias %q: %w", name, err)
		}

		b.AddAlias(name, t)
	}

	return nil
}

// mappingEntries returns the key-value nodes of a mapping, tolerating the
// single-entry MappingValueNode form the parser produces for one-key maps.
func mappingEntries(node ast.Node) ([]*ast.MappingValueNode, bool) {
	switch n := unwrapNode(node).(type) {
	case *ast.MappingNode:
		return n.Values, true
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{n}, true
	}

	return nil, false
}

// unwrapNode resolves tag and anchor wrappers to the underlying value node.
func unwrapNode(node ast.Node) ast.Node {
	for {
		switch n := node.(type) {
		case *ast.TagNode:
			node = n.Value
		case *ast.AnchorNode:
			node = n.Value
		default:
			return node
		}
	}
}

func keyString(mvn *ast.MappingValueNode) string {
	return strings.TrimSpace(mvn.Key.String())
}

func scalarString(node ast.Node) string {
	node = unwrapNode(node)
	if node == nil {
		return ""
	}

	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value
	case *ast.LiteralNode:
		return strings.TrimSpace(n.Value.Value)
	case *ast.NullNode:
		return ""
	}

	return strings.TrimSpace(node.String())
}

// extractComment pulls a plain-text description from the comment attached
// to a mapping entry: the head comment on the entry, or an inline comment
// on its key or value.
func extractComment(mvn *ast.MappingValueNode) string {
	if desc := commentText(mvn.GetComment()); desc != "" {
		return desc
	}

	if mvn.Value != nil {
		if desc := commentText(mvn.Value.GetComment()); desc != "" {
			return desc
		}
	}

	if keyNode, ok := mvn.Key.(ast.Node); ok {
		if desc := commentText(keyNode.GetComment()); desc != "" {
			return desc
		}
	}

	return ""
}

// commentText strips comment markers, joining multi-line comments with
// spaces.
func commentText(comment *ast.CommentGroupNode) string {
	if comment == nil {
		return ""
	}

	var parts []string

	for _, line := range strings.Split(comment.String(), "\n") {
		line = strings.TrimSpace(line)
		for strings.HasPrefix(line, "#") {
			line = strings.TrimPrefix(line, "#")
		}

		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}

	return strings.Join(parts, " ")
}
