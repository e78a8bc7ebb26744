package coerce

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/krypticmouse/dsgo/typeir"
)

// Kind discriminates the variants of a typed [Value].
type Kind int

// Typed value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindEnum
	KindMedia
	KindList
	KindMap
	KindClass
)

// Media is an opaque media payload. It is part of the value model for
// callers that inject media parts; no coercion target produces it.
type Media struct {
	MIME   string
	URL    string
	Base64 string
}

// MapEntry is one entry of a map value, preserving coercion order.
type MapEntry struct {
	Key   string
	Value *Value
}

// Field is one class field, in class declaration order.
type Field struct {
	Name  string
	Value *Value
}

// Value is a schema-conformant typed value. Every node carries a
// [Conditions] flag set; containers also carry the declared Type-IR they
// were coerced against.
type Value struct {
	Kind Kind

	Bool  bool
	Int   int64
	Float float64
	Str   string

	// Name is the enum or class name; Variant the matched enum variant.
	Name    string
	Variant string

	Media *Media

	Items   []*Value
	Entries []MapEntry
	Fields  []Field

	// Type is the declared type for list, map, class, and null nodes.
	Type *typeir.Type

	Cond Conditions
}

// AddFlag appends a diagnostic flag to this node.
func (v *Value) AddFlag(f Flag) { v.Cond.Add(f) }

// Field returns the value of the named class field.
func (v *Value) Field(name string) (*Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}

	return nil, false
}

// AllFlags returns the flags of v and all descendants, depth-first in
// coercion order.
func (v *Value) AllFlags() []Flag {
	if v == nil {
		return nil
	}

	flags := append([]Flag{}, v.Cond.Flags...)

	for _, item := range v.Items {
		flags = append(flags, item.AllFlags()...)
	}

	for _, e := range v.Entries {
		flags = append(flags, e.Value.AllFlags()...)
	}

	for _, f := range v.Fields {
		flags = append(flags, f.Value.AllFlags()...)
	}

	return flags
}

// Plain projects the typed value onto plain Go data, losing flags:
// int64, float64, string, bool, nil, []any, and map[string]any. Enum
// values project to their variant label, classes to field maps.
func (v *Value) Plain() any {
	if v == nil {
		return nil
	}

	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindEnum:
		return v.Variant
	case KindMedia:
		if v.Media == nil {
			return nil
		}

		m := map[string]any{"mime": v.Media.MIME}

		if v.Media.URL != "" {
			m["url"] = v.Media.URL
		}

		if v.Media.Base64 != "" {
			m["base64"] = v.Media.Base64
		}

		return m
	case KindList:
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = item.Plain()
		}

		return items
	case KindMap:
		m := make(map[string]any, len(v.Entries))
		for _, e := range v.Entries {
			m[e.Key] = e.Value.Plain()
		}

		return m
	case KindClass:
		m := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			m[f.Name] = f.Value.Plain()
		}

		return m
	}

	return nil
}

// String renders the value compactly for diagnostics.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}

	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.Str)
	case KindEnum:
		return v.Name + "." + v.Variant
	case KindMedia:
		return "<media>"
	case KindList:
		items := make([]string, len(v.Items))
		for i, item := range v.Items {
			items[i] = item.String()
		}

		return "[" + strings.Join(items, ", ") + "]"
	case KindMap:
		entries := make([]string, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = fmt.Sprintf("%q: %s", e.Key, e.Value)
		}

		return "{" + strings.Join(entries, ", ") + "}"
	case KindClass:
		fields := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = f.Name + ": " + f.Value.String()
		}

		return v.Name + "{" + strings.Join(fields, ", ") + "}"
	}

	return "<unknown>"
}
