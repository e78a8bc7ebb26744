package jsonish

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CompletionState tags a value with whether the raw text that produced it
// was fully received. Streaming input yields Incomplete leaves; a second
// parse with more text may refine them.
type CompletionState int

// Completion states. There are exactly two: a value is either complete or
// may still grow. No pending state exists at this layer.
const (
	Complete CompletionState = iota
	Incomplete
)

// String returns the state name.
func (c CompletionState) String() string {
	if c == Incomplete {
		return "incomplete"
	}

	return "complete"
}

// Fix is a marker recording which repair heuristic produced a value.
type Fix string

// Repair markers.
const (
	FixGreppedForJSON     Fix = "grepped-for-json"
	FixUnquotedKey        Fix = "unquoted-key"
	FixUnquotedString     Fix = "unquoted-string"
	FixSingleQuotes       Fix = "single-quoted-string"
	FixTrailingComma      Fix = "trailing-comma-stripped"
	FixUnclosedContainer  Fix = "unclosed-container"
	FixUnterminatedString Fix = "unterminated-string"
	FixCommentStripped    Fix = "comment-stripped"
)

// Value is the parser's output: a lazily-disambiguated JSON-like tree.
// Implementations are pointers, so values are comparable by identity.
type Value interface {
	// CompletionState reports whether the producing text was fully
	// received.
	CompletionState() CompletionState

	// TypeName names the variant for diagnostics.
	TypeName() string

	sealed()
}

// Null is the JSON null value.
type Null struct{}

// Bool is a JSON boolean.
type Bool struct {
	Value bool
}

// Number is a JSON number, kept in its textual form. A number parsed at
// the very end of streaming input is Incomplete: the next digit might
// still arrive.
type Number struct {
	Value json.Number
	State CompletionState
}

// String is a JSON or recovered string.
type String struct {
	Value string
	State CompletionState
}

// Entry is one key-value pair of an [Object]. Entries preserve source
// order.
type Entry struct {
	Key   string
	Value Value
}

// Object is a JSON object with ordered entries.
type Object struct {
	Entries []Entry
	State   CompletionState
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	for _, e := range o.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}

	return nil, false
}

// Array is a JSON array.
type Array struct {
	Items []Value
	State CompletionState
}

// Markdown is content extracted from a fenced code block, with the fence
// tag preserved.
type Markdown struct {
	Tag   string
	Inner Value
	State CompletionState
}

// Fixed wraps a value produced by repair heuristics; Fixes records which.
type Fixed struct {
	Inner Value
	Fixes []Fix
}

// AnyOf is an ordered candidate set of parse interpretations awaiting
// schema-directed disambiguation. Original holds the raw substring so
// string-typed coercion can recover it verbatim.
type AnyOf struct {
	Candidates []Value
	Original   string
}

func (*Null) sealed()     {}
func (*Bool) sealed()     {}
func (*Number) sealed()   {}
func (*String) sealed()   {}
func (*Object) sealed()   {}
func (*Array) sealed()    {}
func (*Markdown) sealed() {}
func (*Fixed) sealed()    {}
func (*AnyOf) sealed()    {}

// CompletionState implements [Value].
func (*Null) CompletionState() CompletionState { return Complete }

// CompletionState implements [Value].
func (*Bool) CompletionState() CompletionState { return Complete }

// CompletionState implements [Value].
func (n *Number) CompletionState() CompletionState { return n.State }

// CompletionState implements [Value].
func (s *String) CompletionState() CompletionState { return s.State }

// CompletionState implements [Value].
func (o *Object) CompletionState() CompletionState { return o.State }

// CompletionState implements [Value].
func (a *Array) CompletionState() CompletionState { return a.State }

// CompletionState implements [Value].
func (m *Markdown) CompletionState() CompletionState { return m.State }

// CompletionState implements [Value].
func (f *Fixed) CompletionState() CompletionState { return f.Inner.CompletionState() }

// CompletionState reports Incomplete when any candidate is incomplete.
func (a *AnyOf) CompletionState() CompletionState {
	for _, c := range a.Candidates {
		if c.CompletionState() == Incomplete {
			return Incomplete
		}
	}

	return Complete
}

// TypeName implements [Value].
func (*Null) TypeName() string { return "null" }

// TypeName implements [Value].
func (*Bool) TypeName() string { return "bool" }

// TypeName implements [Value].
func (*Number) TypeName() string { return "number" }

// TypeName implements [Value].
func (*String) TypeName() string { return "string" }

// TypeName implements [Value].
func (*Object) TypeName() string { return "object" }

// TypeName implements [Value].
func (*Array) TypeName() string { return "array" }

// TypeName implements [Value].
func (m *Markdown) TypeName() string { return "markdown(" + m.Tag + ")" }

// TypeName implements [Value].
func (f *Fixed) TypeName() string { return "fixed(" + f.Inner.TypeName() + ")" }

// TypeName implements [Value].
func (a *AnyOf) TypeName() string {
	names := make([]string, len(a.Candidates))
	for i, c := range a.Candidates {
		names[i] = c.TypeName()
	}

	return "anyOf(" + strings.Join(names, ", ") + ")"
}

// Simplify normalizes a value tree: single-candidate AnyOf wrappers
// collapse to their candidate and nested Fixed wrappers concatenate their
// markers. When isDone is true the tree is completed deeply, since no more
// text can arrive.
func Simplify(v Value, isDone bool) Value {
	v = simplify(v)

	if isDone {
		CompleteDeeply(v)
	}

	return v
}

func simplify(v Value) Value {
	switch t := v.(type) {
	case *AnyOf:
		for i, c := range t.Candidates {
			t.Candidates[i] = simplify(c)
		}

		if len(t.Candidates) == 1 {
			return t.Candidates[0]
		}

		return t

	case *Fixed:
		t.Inner = simplify(t.Inner)

		if inner, ok := t.Inner.(*Fixed); ok {
			t.Fixes = append(t.Fixes, inner.Fixes...)
			t.Inner = inner.Inner
		}

		return t

	case *Markdown:
		t.Inner = simplify(t.Inner)

		return t

	case *Array:
		for i, item := range t.Items {
			t.Items[i] = simplify(item)
		}

		return t

	case *Object:
		for i, e := range t.Entries {
			t.Entries[i].Value = simplify(e.Value)
		}

		return t
	}

	return v
}

// CompleteDeeply marks v and every descendant Complete. Used at
// end-of-stream, where nothing can grow further.
func CompleteDeeply(v Value) {
	switch t := v.(type) {
	case *Number:
		t.State = Complete
	case *String:
		t.State = Complete
	case *Object:
		t.State = Complete

		for _, e := range t.Entries {
			CompleteDeeply(e.Value)
		}
	case *Array:
		t.State = Complete

		for _, item := range t.Items {
			CompleteDeeply(item)
		}
	case *Markdown:
		t.State = Complete
		CompleteDeeply(t.Inner)
	case *Fixed:
		CompleteDeeply(t.Inner)
	case *AnyOf:
		for _, c := range t.Candidates {
			CompleteDeeply(c)
		}
	}
}

// Render serializes a value back to compact JSON text. AnyOf renders its
// original text; Markdown and Fixed render their inner value.
func Render(v Value) string {
	var sb strings.Builder

	render(&sb, v)

	return sb.String()
}

func render(sb *strings.Builder, v Value) {
	switch t := v.(type) {
	case *Null:
		sb.WriteString("null")
	case *Bool:
		sb.WriteString(strconv.FormatBool(t.Value))
	case *Number:
		sb.WriteString(t.Value.String())
	case *String:
		sb.WriteString(strconv.Quote(t.Value))
	case *Array:
		sb.WriteByte('[')

		for i, item := range t.Items {
			if i > 0 {
				sb.WriteByte(',')
			}

			render(sb, item)
		}

		sb.WriteByte(']')
	case *Object:
		sb.WriteByte('{')

		for i, e := range t.Entries {
			if i > 0 {
				sb.WriteByte(',')
			}

			sb.WriteString(strconv.Quote(e.Key))
			sb.WriteByte(':')
			render(sb, e.Value)
		}

		sb.WriteByte('}')
	case *Markdown:
		render(sb, t.Inner)
	case *Fixed:
		render(sb, t.Inner)
	case *AnyOf:
		sb.WriteString(t.Original)
	}
}
