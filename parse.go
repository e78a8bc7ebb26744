package dsgo

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/krypticmouse/dsgo/coerce"
	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/schema"
	"github.com/krypticmouse/dsgo/typeir"
)

// ErrLenientParseFailed reports that every parser strategy failed to
// produce a raw value for the input.
var ErrLenientParseFailed = errors.New("lenient parse failed")

// Result carries the typed value and the diagnostics surface of one
// parse.
type Result struct {
	// Value is the coerced, schema-conformant value with per-node flags.
	Value *coerce.Value

	// Flags is the flat view of every flag in the tree.
	Flags []coerce.Flag

	// Checks holds the evaluation of every user-declared constraint.
	Checks []coerce.ConstraintResult

	// Explanations are human-readable notes for sub-paths that needed
	// recovery or were dropped.
	Explanations []Explanation

	// RawResponse is the verbatim input text.
	RawResponse string
}

// Explanation is a human-readable diagnostic anchored at a value path.
type Explanation struct {
	Path    string
	Message string
}

// Parse turns free-form model output into a typed value conforming to the
// target type. When target is nil the registry's declared target is used.
// isDone=false marks streaming input: more text may arrive, and completion
// flags propagate accordingly.
//
// The pipeline is lenient parse, schema-directed coercion, then user
// checks; assert-level constraint failures reject the parse with an
// [coerce.AssertFailedError].
func Parse(
	text string,
	target *typeir.Type,
	reg *schema.Registry,
	opts jsonish.Options,
	isDone bool,
) (*Result, error) {
	if target == nil {
		target = reg.Target()
	}

	if target == nil {
		return nil, fmt.Errorf("%w: no target type", coerce.ErrUnsupportedTarget)
	}

	raw, err := jsonish.Parse(text, opts, isDone)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLenientParseFailed, err)
	}

	value, err := coerce.Coerce(reg, target, raw)
	if err != nil {
		return nil, err
	}

	checks, err := coerce.RunUserChecks(reg, value, target)
	if err != nil {
		return nil, err
	}

	return &Result{
		Value:        value,
		Flags:        value.AllFlags(),
		Checks:       checks,
		Explanations: explain(value, ""),
		RawResponse:  text,
	}, nil
}

// explain collects human-readable notes from recovery flags, anchored at
// their value paths.
func explain(v *coerce.Value, path string) []Explanation {
	if v == nil {
		return nil
	}

	if path == "" {
		path = "<root>"
	}

	var out []Explanation

	for _, f := range v.Cond.Flags {
		switch f.Kind {
		case coerce.FlagArrayItemParseError:
			out = append(out, Explanation{
				Path:    path + "." + strconv.Itoa(f.Index),
				Message: fmt.Sprintf("item dropped: %v", f.Err),
			})
		case coerce.FlagMapKeyParseError, coerce.FlagMapValueParseError:
			out = append(out, Explanation{
				Path:    path + "." + f.Key,
				Message: fmt.Sprintf("entry dropped: %v", f.Err),
			})
		case coerce.FlagExtraKey:
			out = append(out, Explanation{
				Path:    path + "." + f.Key,
				Message: "key not declared on class; ignored",
			})
		case coerce.FlagImpliedKey:
			out = append(out, Explanation{
				Path:    path,
				Message: fmt.Sprintf("object synthesized around bare value for field %q", f.Key),
			})
		}
	}

	for i, item := range v.Items {
		out = append(out, explain(item, path+"."+strconv.Itoa(i))...)
	}

	for _, e := range v.Entries {
		out = append(out, explain(e.Value, path+"."+e.Key)...)
	}

	for _, f := range v.Fields {
		out = append(out, explain(f.Value, path+"."+f.Name)...)
	}

	return out
}
