package coerce

import (
	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/typeir"
)

// coerceLiteral accepts only the exact literal value, structurally.
func coerceLiteral(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	lit := target.Literal

	switch lit.Kind {
	case typeir.LiteralString:
		if s, ok := raw.(*jsonish.String); ok && s.Value == lit.Str {
			return &Value{Kind: KindString, Str: lit.Str}, nil
		}

	case typeir.LiteralInt:
		if n, ok := raw.(*jsonish.Number); ok {
			if i, err := n.Value.Int64(); err == nil && i == lit.Int {
				return &Value{Kind: KindInt, Int: lit.Int}, nil
			}
		}

	case typeir.LiteralBool:
		if b, ok := raw.(*jsonish.Bool); ok && b.Value == lit.Bool {
			return &Value{Kind: KindBool, Bool: lit.Bool}, nil
		}
	}

	return nil, c.mismatch(target, raw)
}
