package coerce

import (
	"fmt"
	"strings"

	"github.com/krypticmouse/dsgo/jsonish"
)

// FlagKind discriminates the diagnostic flags a coercion can attach to a
// typed value.
type FlagKind int

// Flag kinds. The set is exhaustive for scoring purposes: every kind has a
// fixed penalty in the table published in score.go.
const (
	// FlagIncomplete marks a value whose raw text was still streaming.
	FlagIncomplete FlagKind = iota

	// FlagPending marks a value that has not started arriving yet.
	FlagPending

	// FlagSingleToArray marks a lone value wrapped into a one-element
	// list.
	FlagSingleToArray

	// FlagArrayItemParseError records a list item that failed to coerce;
	// the list is returned without it.
	FlagArrayItemParseError

	// FlagMapKeyParseError records a map key that failed to coerce; the
	// entry is dropped.
	FlagMapKeyParseError

	// FlagMapValueParseError records a map value that failed to coerce;
	// the entry is dropped.
	FlagMapValueParseError

	// FlagObjectFromMarkdown marks a value recovered from a fenced code
	// block.
	FlagObjectFromMarkdown

	// FlagObjectFromFixedJSON marks a value recovered by repair
	// heuristics; Fixes records which ones fired.
	FlagObjectFromFixedJSON

	// FlagGreppedForJSON marks a value recovered by the balanced-span
	// grep.
	FlagGreppedForJSON

	// FlagFirstMatch records which parse interpretation of an AnyOf
	// candidate set won.
	FlagFirstMatch

	// FlagUnionMatch records which union variant won.
	FlagUnionMatch

	// FlagExtraKey records a raw object key with no declared field.
	FlagExtraKey

	// FlagOptionalDefaultFromNoValue marks an optional field defaulted to
	// null because the raw object had no entry for it.
	FlagOptionalDefaultFromNoValue

	// FlagImpliedKey marks a class built from a bare value by synthesizing
	// its only required field.
	FlagImpliedKey

	// FlagStringToNumber marks a number parsed out of a string.
	FlagStringToNumber

	// FlagFloatToInt marks an int accepted from a fraction-free float.
	FlagFloatToInt

	// FlagStringToBool marks a bool parsed out of a string.
	FlagStringToBool

	// FlagValueToString marks a non-string value stringified for a string
	// target.
	FlagValueToString
)

// Flag is a diagnostic annotation attached to a typed value. Only the
// fields relevant to the kind are populated.
type Flag struct {
	Kind FlagKind

	// Index is the item index (array errors), variant index (union
	// match), or candidate index (first match).
	Index int

	// Count is the number of candidates a FirstMatch chose among.
	Count int

	// Key is the affected object key (extra keys, implied keys, map entry
	// errors).
	Key string

	// Err is the underlying failure for parse-error flags.
	Err error

	// Raw preserves the raw value an ExtraKey flag refers to.
	Raw jsonish.Value

	// Fixes lists the repair markers behind an ObjectFromFixedJSON flag.
	Fixes []jsonish.Fix
}

// String renders the flag for diagnostics.
func (f Flag) String() string {
	switch f.Kind {
	case FlagIncomplete:
		return "incomplete"
	case FlagPending:
		return "pending"
	case FlagSingleToArray:
		return "single_to_array"
	case FlagArrayItemParseError:
		return fmt.Sprintf("array_item_parse_error(%d): %v", f.Index, f.Err)
	case FlagMapKeyParseError:
		return fmt.Sprintf("map_key_parse_error(%s): %v", f.Key, f.Err)
	case FlagMapValueParseError:
		return fmt.Sprintf("map_value_parse_error(%s): %v", f.Key, f.Err)
	case FlagObjectFromMarkdown:
		return "object_from_markdown"
	case FlagObjectFromFixedJSON:
		fixes := make([]string, len(f.Fixes))
		for i, fix := range f.Fixes {
			fixes[i] = string(fix)
		}

		return "object_from_fixed_json(" + strings.Join(fixes, ", ") + ")"
	case FlagGreppedForJSON:
		return "grepped_for_json"
	case FlagFirstMatch:
		return fmt.Sprintf("first_match(%d of %d)", f.Index, f.Count)
	case FlagUnionMatch:
		return fmt.Sprintf("union_match(%d)", f.Index)
	case FlagExtraKey:
		return fmt.Sprintf("extra_key(%s)", f.Key)
	case FlagOptionalDefaultFromNoValue:
		return "optional_default_from_no_value"
	case FlagImpliedKey:
		return fmt.Sprintf("implied_key(%s)", f.Key)
	case FlagStringToNumber:
		return "string_to_number"
	case FlagFloatToInt:
		return "float_to_int"
	case FlagStringToBool:
		return "string_to_bool"
	case FlagValueToString:
		return "value_to_string"
	}

	return fmt.Sprintf("flag(%d)", int(f.Kind))
}

// Conditions is the per-node flag set carried by every typed value.
type Conditions struct {
	Flags []Flag
}

// Add appends a flag.
func (c *Conditions) Add(f Flag) {
	c.Flags = append(c.Flags, f)
}

// Has reports whether any flag of the given kind is present.
func (c *Conditions) Has(kind FlagKind) bool {
	for _, f := range c.Flags {
		if f.Kind == kind {
			return true
		}
	}

	return false
}

// UnionWinner returns the variant index of the outermost UnionMatch flag.
// Flags append in coercion order, so for nested unions the LAST UnionMatch
// belongs to the outermost union; that is the one an array hint wants.
func (c *Conditions) UnionWinner() (int, bool) {
	for i := len(c.Flags) - 1; i >= 0; i-- {
		if c.Flags[i].Kind == FlagUnionMatch {
			return c.Flags[i].Index, true
		}
	}

	return 0, false
}
