package coerce

import (
	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/typeir"
)

// coerceUnion fans a raw value out to every union member, scores each
// result, and keeps the minimum. Members are tried in declared order; a
// perfect (score 0) match short-circuits. Ties break by declared index,
// then fewer flags. The winning variant is recorded with a UnionMatch
// flag so arrays of unions can hint the next element.
func coerceUnion(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	// Optional unions accept null immediately.
	if _, isNull := unwrapForNull(raw).(*jsonish.Null); isNull && target.IsOptional() {
		return &Value{Kind: KindNull, Type: target}, nil
	}

	// Cheap pre-pass: an exact shape match needs no scoring. tryCast
	// respects the hint and declared order, so this cannot change the
	// outcome, only skip work.
	if v := tryCastUnion(c, target, raw); v != nil {
		return v, nil
	}

	// A hint from the previous element of an array of unions is tried
	// first; a perfect match skips the full scan. Anything less falls
	// back to scoring every member, so the hint never changes the
	// outcome.
	if c.hint >= 0 && c.hint < len(target.Members) {
		if v, err := coerceValue(c, target.Members[c.hint], raw); err == nil && v.Score() == 0 {
			v.AddFlag(Flag{Kind: FlagUnionMatch, Index: c.hint})

			return v, nil
		}
	}

	var (
		results []candidate
		reasons []error
	)

	for i, member := range target.Members {
		v, err := coerceValue(c, member, raw)
		if err != nil {
			reasons = append(reasons, err)

			continue
		}

		v.AddFlag(Flag{Kind: FlagUnionMatch, Index: i})

		if v.Score() == 0 {
			return v, nil
		}

		results = append(results, candidate{index: i, value: v})
	}

	if len(results) == 0 {
		return nil, &UnionNoMatchError{Target: target, Reasons: reasons}
	}

	return pickBest(results).value, nil
}

// unwrapForNull peels candidate wrappers just enough to see a null: the
// null fast path must fire even when the parser wrapped the value.
func unwrapForNull(raw jsonish.Value) jsonish.Value {
	for {
		switch r := raw.(type) {
		case *jsonish.Fixed:
			raw = r.Inner
		case *jsonish.Markdown:
			raw = r.Inner
		case *jsonish.AnyOf:
			if len(r.Candidates) == 1 {
				raw = r.Candidates[0]

				continue
			}

			return raw
		default:
			return raw
		}
	}
}
