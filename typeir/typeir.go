package typeir

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the variants of a [Type].
type Kind int

// Type kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindAny
	KindLiteral
	KindEnum
	KindClass
	KindList
	KindMap
	KindTuple
	KindUnion
	KindAlias
	KindArrow
)

// Mode selects which rendition of a class a reference resolves to: the
// final shape, or the relaxed shape used while output is still streaming.
type Mode int

// Class streaming modes.
const (
	ModeFinal Mode = iota
	ModeStream
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeStream {
		return "stream"
	}

	return "final"
}

// LiteralKind discriminates the variants of a [LiteralValue].
type LiteralKind int

// Literal kinds.
const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralBool
)

// LiteralValue is the constant payload of a literal type.
type LiteralValue struct {
	Kind LiteralKind
	Str  string
	Int  int64
	Bool bool
}

// String renders the literal the way it would appear in a type expression.
func (l LiteralValue) String() string {
	switch l.Kind {
	case LiteralInt:
		return strconv.FormatInt(l.Int, 10)
	case LiteralBool:
		return strconv.FormatBool(l.Bool)
	}

	return strconv.Quote(l.Str)
}

// Type is the algebraic intermediate representation of an output type.
//
// A single struct with a Kind tag keeps structural comparison and cloning
// straightforward; only the fields relevant to the kind are populated.
// Every node carries a [Meta] with user constraints and streaming behavior.
type Type struct {
	Kind Kind

	// Literal payload for KindLiteral.
	Literal LiteralValue

	// Name of the referenced enum, class, or alias.
	Name string

	// Mode and Dynamic apply to KindClass references.
	Mode    Mode
	Dynamic bool

	// Elem is the list element or map value type.
	Elem *Type

	// Key is the map key type.
	Key *Type

	// Members holds tuple items, union members, or arrow parameters.
	Members []*Type

	// Ret is the arrow return type.
	Ret *Type

	Meta Meta
}

// Null returns the null type.
func Null() *Type { return &Type{Kind: KindNull} }

// Bool returns the bool primitive type.
func Bool() *Type { return &Type{Kind: KindBool} }

// Int returns the int primitive type.
func Int() *Type { return &Type{Kind: KindInt} }

// Float returns the float primitive type.
func Float() *Type { return &Type{Kind: KindFloat} }

// String returns the string primitive type.
func String() *Type { return &Type{Kind: KindString} }

// Any returns the top type, which accepts every value.
func Any() *Type { return &Type{Kind: KindAny} }

// LiteralStringType returns a singleton type holding the string s.
func LiteralStringType(s string) *Type {
	return &Type{Kind: KindLiteral, Literal: LiteralValue{Kind: LiteralString, Str: s}}
}

// LiteralIntType returns a singleton type holding the integer i.
func LiteralIntType(i int64) *Type {
	return &Type{Kind: KindLiteral, Literal: LiteralValue{Kind: LiteralInt, Int: i}}
}

// LiteralBoolType returns a singleton type holding the boolean b.
func LiteralBoolType(b bool) *Type {
	return &Type{Kind: KindLiteral, Literal: LiteralValue{Kind: LiteralBool, Bool: b}}
}

// Enum returns a by-name reference to an enum definition.
func Enum(name string) *Type { return &Type{Kind: KindEnum, Name: name} }

// Class returns a by-name reference to a class definition in final mode.
func Class(name string) *Type { return &Type{Kind: KindClass, Name: name} }

// ClassMode returns a by-name class reference with an explicit mode.
func ClassMode(name string, mode Mode) *Type {
	return &Type{Kind: KindClass, Name: name, Mode: mode}
}

// List returns a list type with the given element type.
func List(elem *Type) *Type { return &Type{Kind: KindList, Elem: elem} }

// Map returns a map type with the given key and value types.
func Map(key, value *Type) *Type { return &Type{Kind: KindMap, Key: key, Elem: value} }

// Tuple returns a tuple type with the given item types.
func Tuple(items ...*Type) *Type { return &Type{Kind: KindTuple, Members: items} }

// Union returns a union of the given member types. Member order is
// preserved; it determines tie-breaking during coercion.
func Union(members ...*Type) *Type { return &Type{Kind: KindUnion, Members: members} }

// Optional returns t | null.
func Optional(t *Type) *Type { return Union(t, Null()) }

// Alias returns a by-name reference to a recursive type alias.
func Alias(name string) *Type { return &Type{Kind: KindAlias, Name: name} }

// Arrow returns a function type. Arrows are carried in the IR but are not
// coercion targets.
func Arrow(params []*Type, ret *Type) *Type {
	return &Type{Kind: KindArrow, Members: params, Ret: ret}
}

// Clone returns a deep copy of t.
func (t *Type) Clone() *Type {
	if t == nil {
		return nil
	}

	c := *t
	c.Elem = t.Elem.Clone()
	c.Key = t.Key.Clone()
	c.Ret = t.Ret.Clone()

	if t.Members != nil {
		c.Members = make([]*Type, len(t.Members))
		for i, m := range t.Members {
			c.Members[i] = m.Clone()
		}
	}

	c.Meta = t.Meta.clone()

	return &c
}

// WithMeta returns a copy of t carrying the given metadata.
func (t *Type) WithMeta(meta Meta) *Type {
	c := t.Clone()
	c.Meta = meta

	return c
}

// WithConstraint returns a copy of t with the constraint appended.
func (t *Type) WithConstraint(c Constraint) *Type {
	cp := t.Clone()
	cp.Meta.Constraints = append(cp.Meta.Constraints, c)

	return cp
}

// IsOptional reports whether t is a union with a direct null member.
func (t *Type) IsOptional() bool {
	if t.Kind != KindUnion {
		return false
	}

	for _, m := range t.Members {
		if m.Kind == KindNull {
			return true
		}
	}

	return false
}

// EqualIgnoringMeta reports structural equality of a and b, disregarding
// metadata at every level. Union member order is significant.
func EqualIgnoringMeta(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindLiteral:
		return a.Literal == b.Literal
	case KindEnum, KindAlias:
		return a.Name == b.Name
	case KindClass:
		return a.Name == b.Name && a.Mode == b.Mode && a.Dynamic == b.Dynamic
	case KindList:
		return EqualIgnoringMeta(a.Elem, b.Elem)
	case KindMap:
		return EqualIgnoringMeta(a.Key, b.Key) && EqualIgnoringMeta(a.Elem, b.Elem)
	case KindTuple, KindUnion:
		return membersEqual(a.Members, b.Members)
	case KindArrow:
		return membersEqual(a.Members, b.Members) && EqualIgnoringMeta(a.Ret, b.Ret)
	}

	return true
}

func membersEqual(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !EqualIgnoringMeta(a[i], b[i]) {
			return false
		}
	}

	return true
}

// String renders the type as a human-readable type expression, used in
// error messages and diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindAny:
		return "any"
	case KindLiteral:
		return t.Literal.String()
	case KindEnum, KindClass, KindAlias:
		return t.Name
	case KindList:
		return t.Elem.String() + "[]"
	case KindMap:
		return fmt.Sprintf("map<%s, %s>", t.Key, t.Elem)
	case KindTuple:
		return "(" + joinTypes(t.Members, ", ") + ")"
	case KindUnion:
		return joinTypes(t.Members, " | ")
	case KindArrow:
		return fmt.Sprintf("fn(%s) -> %s", joinTypes(t.Members, ", "), t.Ret)
	}

	return "<unknown>"
}

func joinTypes(ts []*Type, sep string) string {
	var sb strings.Builder

	for i, t := range ts {
		if i > 0 {
			sb.WriteString(sep)
		}

		sb.WriteString(t.String())
	}

	return sb.String()
}
