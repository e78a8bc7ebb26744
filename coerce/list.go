package coerce

import (
	"strconv"

	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/typeir"
)

// coerceList coerces arrays elementwise with partial-list semantics: an
// item that fails to coerce becomes an ArrayItemParseError flag instead of
// failing the list. A lone non-array value is tolerated as a one-element
// list.
//
// For arrays of unions, the variant that won for one element is forwarded
// as a hint for the next: model output is usually homogeneous, so the
// hinted variant is tried first and short-circuits on a perfect match.
func coerceList(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	result := &Value{Kind: KindList, Type: target}

	arr, ok := raw.(*jsonish.Array)
	if !ok {
		result.AddFlag(Flag{Kind: FlagSingleToArray})

		v, err := coerceValue(c.child("<implied>"), target.Elem, raw)
		if err != nil {
			result.AddFlag(Flag{Kind: FlagArrayItemParseError, Index: 0, Err: err})
		} else {
			result.Items = append(result.Items, v)
		}

		return result, nil
	}

	if arr.State == jsonish.Incomplete {
		result.AddFlag(Flag{Kind: FlagIncomplete})
	}

	hint := -1

	for i, item := range arr.Items {
		cc := c.childWithHint(strconv.Itoa(i), hint)

		if v := tryCast(cc, target.Elem, item); v != nil {
			if winner, won := v.Cond.UnionWinner(); won {
				hint = winner
			}

			result.Items = append(result.Items, v)

			continue
		}

		v, err := coerceValue(cc, target.Elem, item)
		if err != nil {
			result.AddFlag(Flag{Kind: FlagArrayItemParseError, Index: i, Err: err})

			continue
		}

		if winner, won := v.Cond.UnionWinner(); won {
			hint = winner
		}

		result.Items = append(result.Items, v)
	}

	return result, nil
}

// coerceTuple coerces an array elementwise against the tuple's item types,
// requiring exact arity.
func coerceTuple(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	arr, ok := raw.(*jsonish.Array)
	if !ok {
		return nil, c.mismatch(target, raw)
	}

	if len(arr.Items) != len(target.Members) {
		return nil, c.mismatch(target, raw)
	}

	result := &Value{Kind: KindList, Type: target}

	if arr.State == jsonish.Incomplete {
		result.AddFlag(Flag{Kind: FlagIncomplete})
	}

	for i, item := range arr.Items {
		v, err := coerceValue(c.child(strconv.Itoa(i)), target.Members[i], item)
		if err != nil {
			return nil, err
		}

		result.Items = append(result.Items, v)
	}

	return result, nil
}
