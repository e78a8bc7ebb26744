package coerce

import (
	"fmt"

	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/schema"
	"github.com/krypticmouse/dsgo/typeir"
)

// Coerce maps a parsed raw value onto the target type, resolving by-name
// references through the registry. The returned value minimizes the flag
// penalty score among all interpretations the parser and strategies
// produced.
func Coerce(reg *schema.Registry, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	return coerceValue(newCtx(reg), typeir.Simplify(target), raw)
}

// coerceValue is the type-directed dispatcher. Union and alias targets see
// the raw value as-is, so that each union member can interpret wrappers
// its own way; every other target first unwraps AnyOf, Markdown, and
// Fixed.
func coerceValue(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	if target == nil {
		return nil, fmt.Errorf("%s: %w: nil target", c.display(), ErrUnsupportedTarget)
	}

	v, err := coerceDispatch(c, target, raw)
	if err != nil {
		return nil, err
	}

	// Completion propagates: a value built from still-streaming text is
	// itself incomplete.
	if raw.CompletionState() == jsonish.Incomplete && !v.Cond.Has(FlagIncomplete) {
		v.AddFlag(Flag{Kind: FlagIncomplete})
	}

	return v, nil
}

func coerceDispatch(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	switch target.Kind {
	case typeir.KindUnion:
		return coerceUnion(c, target, raw)
	case typeir.KindAlias:
		return coerceAlias(c, target, raw)
	}

	switch r := raw.(type) {
	case *jsonish.AnyOf:
		// String targets recover the original text verbatim rather than
		// re-rendering one interpretation.
		if target.Kind == typeir.KindString {
			return &Value{Kind: KindString, Str: r.Original}, nil
		}

		return coerceAnyOf(c, target, r)

	case *jsonish.Markdown:
		v, err := coerceValue(c, target, r.Inner)
		if err != nil {
			return nil, err
		}

		v.AddFlag(Flag{Kind: FlagObjectFromMarkdown})

		return v, nil

	case *jsonish.Fixed:
		v, err := coerceValue(c, target, r.Inner)
		if err != nil {
			return nil, err
		}

		for _, f := range fixedFlags(r.Fixes) {
			v.AddFlag(f)
		}

		return v, nil
	}

	switch target.Kind {
	case typeir.KindNull:
		if _, ok := raw.(*jsonish.Null); ok {
			return &Value{Kind: KindNull, Type: target}, nil
		}

		return nil, c.mismatch(target, raw)
	case typeir.KindBool:
		return coerceBool(c, target, raw)
	case typeir.KindInt:
		return coerceInt(c, target, raw)
	case typeir.KindFloat:
		return coerceFloat(c, target, raw)
	case typeir.KindString:
		return coerceString(c, target, raw)
	case typeir.KindAny:
		return coerceAny(c, raw)
	case typeir.KindLiteral:
		return coerceLiteral(c, target, raw)
	case typeir.KindEnum:
		return coerceEnum(c, target, raw)
	case typeir.KindClass:
		return coerceClass(c, target, raw)
	case typeir.KindList:
		return coerceList(c, target, raw)
	case typeir.KindMap:
		return coerceMap(c, target, raw)
	case typeir.KindTuple:
		return coerceTuple(c, target, raw)
	case typeir.KindArrow:
		return nil, fmt.Errorf("%s: %w: %s", c.display(), ErrUnsupportedTarget, target)
	}

	return nil, fmt.Errorf("%s: %w: %s", c.display(), ErrUnsupportedTarget, target)
}

// fixedFlags converts repair markers into flags: the grep marker has its
// own flag kind, the rest ride on ObjectFromFixedJSON.
func fixedFlags(fixes []jsonish.Fix) []Flag {
	rest := make([]jsonish.Fix, 0, len(fixes))
	grepped := false

	for _, f := range fixes {
		if f == jsonish.FixGreppedForJSON {
			grepped = true

			continue
		}

		rest = append(rest, f)
	}

	var flags []Flag

	if grepped {
		flags = append(flags, Flag{Kind: FlagGreppedForJSON})
	}

	if !grepped || len(rest) > 0 {
		flags = append(flags, Flag{Kind: FlagObjectFromFixedJSON, Fixes: rest})
	}

	return flags
}

// coerceAnyOf fans the target out to every parse interpretation and keeps
// the best-scoring result. Ties break by candidate order, then fewer
// flags; the choice is recorded with a FirstMatch flag.
func coerceAnyOf(c ctx, target *typeir.Type, raw *jsonish.AnyOf) (*Value, error) {
	if len(raw.Candidates) == 0 {
		return nil, c.mismatch(target, raw)
	}

	var (
		results []candidate
		reasons []error
	)

	for i, cand := range raw.Candidates {
		v, err := coerceValue(c, target, cand)
		if err != nil {
			reasons = append(reasons, err)

			continue
		}

		results = append(results, candidate{index: i, value: v})
	}

	if len(results) == 0 {
		return nil, &MultipleErrors{Scope: c.display(), Errors: reasons}
	}

	best := pickBest(results)

	if len(raw.Candidates) > 1 {
		best.value.AddFlag(Flag{
			Kind:  FlagFirstMatch,
			Index: best.index,
			Count: len(raw.Candidates),
		})
	}

	return best.value, nil
}
