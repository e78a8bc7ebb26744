package coerce

import (
	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/typeir"
)

// tryCast is the cheap fast path beside coerceValue: it accepts only
// unambiguous, conversion-free (score 0) matches and returns nil for
// anything that needs the full scoring machinery. List and union coercion
// use it to skip scoring when the raw shape already fits exactly.
//
// tryCast never accepts what coerceValue would reject, and a non-nil
// result always equals the full path's score-0 result, so using it cannot
// change outcomes.
func tryCast(c ctx, target *typeir.Type, raw jsonish.Value) *Value {
	if raw.CompletionState() == jsonish.Incomplete {
		return nil
	}

	switch target.Kind {
	case typeir.KindNull:
		if _, ok := raw.(*jsonish.Null); ok {
			return &Value{Kind: KindNull, Type: target}
		}

	case typeir.KindBool:
		if b, ok := raw.(*jsonish.Bool); ok {
			return &Value{Kind: KindBool, Bool: b.Value}
		}

	case typeir.KindInt:
		if n, ok := raw.(*jsonish.Number); ok {
			if i, err := n.Value.Int64(); err == nil {
				return &Value{Kind: KindInt, Int: i}
			}
		}

	case typeir.KindFloat:
		if n, ok := raw.(*jsonish.Number); ok {
			if f, err := n.Value.Float64(); err == nil {
				return &Value{Kind: KindFloat, Float: f}
			}
		}

	case typeir.KindString:
		if s, ok := raw.(*jsonish.String); ok {
			return &Value{Kind: KindString, Str: s.Value}
		}

	case typeir.KindLiteral:
		if v, err := coerceLiteral(c, target, raw); err == nil {
			return v
		}

	case typeir.KindEnum:
		if v, err := coerceEnum(c, target, raw); err == nil {
			return v
		}

	case typeir.KindList:
		return tryCastList(c, target, raw)

	case typeir.KindUnion:
		return tryCastUnion(c, target, raw)
	}

	return nil
}

// tryCastList accepts an array whose every item casts exactly, threading
// the union hint the same way the full path does.
func tryCastList(c ctx, target *typeir.Type, raw jsonish.Value) *Value {
	arr, ok := raw.(*jsonish.Array)
	if !ok || arr.State == jsonish.Incomplete {
		return nil
	}

	result := &Value{Kind: KindList, Type: target}
	hint := -1

	for _, item := range arr.Items {
		cc := c
		cc.hint = hint

		v := tryCast(cc, target.Elem, item)
		if v == nil {
			return nil
		}

		if winner, won := v.Cond.UnionWinner(); won {
			hint = winner
		}

		result.Items = append(result.Items, v)
	}

	return result
}

// tryCastUnion accepts the first member that casts exactly, trying the
// hinted variant first. The declared-order scan keeps tie-breaking
// identical to the full path.
func tryCastUnion(c ctx, target *typeir.Type, raw jsonish.Value) *Value {
	if _, isNull := raw.(*jsonish.Null); isNull && target.IsOptional() {
		return &Value{Kind: KindNull, Type: target}
	}

	if c.hint >= 0 && c.hint < len(target.Members) {
		hinted := c
		hinted.hint = -1

		if v := tryCast(hinted, target.Members[c.hint], raw); v != nil {
			v.AddFlag(Flag{Kind: FlagUnionMatch, Index: c.hint})

			return v
		}
	}

	scan := c
	scan.hint = -1

	for i, member := range target.Members {
		if v := tryCast(scan, member, raw); v != nil {
			v.AddFlag(Flag{Kind: FlagUnionMatch, Index: i})

			return v
		}
	}

	return nil
}
