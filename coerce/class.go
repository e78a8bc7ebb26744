package coerce

import (
	"fmt"

	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/schema"
	"github.com/krypticmouse/dsgo/typeir"
)

// coerceClass maps a raw object onto a class definition. Fields resolve by
// declared name first, then by alias; output field order follows the class
// declaration, not the source text. A bare non-object value is accepted
// when the class has exactly one required field, by synthesizing that
// field around it.
func coerceClass(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	def, ok := c.reg.Class(target.Name, target.Mode)
	if !ok {
		return nil, fmt.Errorf("%s: %w: class %q", c.display(), ErrUnknownDefinition, target.Name)
	}

	// Recursive classes can be driven into infinite descent by
	// self-referential raw data; revisiting the same raw node under the
	// same class is a cycle.
	if c.reg.IsRecursiveClass(def.Name) {
		visit := classVisit{class: def.Name, raw: raw}
		if c.seen[visit] {
			return nil, fmt.Errorf("%s: %w: class %q", c.display(), ErrCircularValue, def.Name)
		}

		c.seen[visit] = true
		defer delete(c.seen, visit)
	}

	result := &Value{Kind: KindClass, Name: def.Name, Type: target}

	obj, ok := raw.(*jsonish.Object)
	if !ok {
		return coerceImpliedClass(c, target, def, result, raw)
	}

	var errs []error

	for _, field := range def.Fields {
		entry, found := obj.Get(field.Name)
		if !found && field.Alias != "" {
			entry, found = obj.Get(field.Alias)
		}

		if !found {
			if field.IsOptional() {
				null := &Value{Kind: KindNull, Type: field.Type}
				null.AddFlag(Flag{Kind: FlagOptionalDefaultFromNoValue})
				result.Fields = append(result.Fields, Field{Name: field.Name, Value: null})

				continue
			}

			errs = append(errs, &MissingFieldError{Class: def.Name, Field: field.Name})

			continue
		}

		v, err := coerceValue(c.child(field.Name), field.Type, entry)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		result.Fields = append(result.Fields, Field{Name: field.Name, Value: v})
	}

	coerceExtraKeys(c, def, obj, result)

	if len(errs) > 0 {
		return nil, &MultipleErrors{Scope: c.display(), Errors: errs, Partial: result}
	}

	return result, nil
}

// coerceExtraKeys handles raw entries with no declared field: dynamic
// classes absorb them as typed any-fields, static classes record an
// ExtraKey flag per entry.
func coerceExtraKeys(c ctx, def *schema.ClassDef, obj *jsonish.Object, result *Value) {
	for _, e := range obj.Entries {
		if declaredField(def, e.Key) {
			continue
		}

		if def.Dynamic {
			v, err := coerceValue(c.child(e.Key), typeir.Any(), e.Value)
			if err == nil {
				result.Fields = append(result.Fields, Field{Name: e.Key, Value: v})

				continue
			}
		}

		result.AddFlag(Flag{Kind: FlagExtraKey, Key: e.Key, Raw: e.Value})
	}
}

func declaredField(def *schema.ClassDef, key string) bool {
	for _, f := range def.Fields {
		if f.Name == key || (f.Alias != "" && f.Alias == key) {
			return true
		}
	}

	return false
}

// coerceImpliedClass wraps a bare value into the class's single required
// field, tolerating model output that omitted the object wrapper.
func coerceImpliedClass(
	c ctx,
	target *typeir.Type,
	def *schema.ClassDef,
	result *Value,
	raw jsonish.Value,
) (*Value, error) {
	var required []schema.FieldDef

	for _, f := range def.Fields {
		if !f.IsOptional() {
			required = append(required, f)
		}
	}

	if len(required) != 1 {
		return nil, c.mismatch(target, raw)
	}

	only := required[0]

	v, err := coerceValue(c.child(only.Name), only.Type, raw)
	if err != nil {
		return nil, &MultipleErrors{Scope: c.display(), Errors: []error{err}, Partial: result}
	}

	result.AddFlag(Flag{Kind: FlagImpliedKey, Key: only.Name})

	// Field order still follows the declaration.
	for _, f := range def.Fields {
		if f.Name == only.Name {
			result.Fields = append(result.Fields, Field{Name: f.Name, Value: v})

			continue
		}

		null := &Value{Kind: KindNull, Type: f.Type}
		null.AddFlag(Flag{Kind: FlagOptionalDefaultFromNoValue})
		result.Fields = append(result.Fields, Field{Name: f.Name, Value: null})
	}

	return result, nil
}
