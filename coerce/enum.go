package coerce

import (
	"fmt"
	"strings"

	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/typeir"
)

// coerceEnum matches a raw string against the enum's variants: primary
// labels first, then declared aliases. Matching is case-sensitive.
func coerceEnum(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	def, ok := c.reg.Enum(target.Name)
	if !ok {
		return nil, fmt.Errorf("%s: %w: enum %q", c.display(), ErrUnknownDefinition, target.Name)
	}

	s, ok := raw.(*jsonish.String)
	if !ok {
		return nil, c.mismatch(target, raw)
	}

	got := strings.TrimSpace(s.Value)

	for _, v := range def.Values {
		if v.Label == got {
			return &Value{Kind: KindEnum, Name: def.Name, Variant: v.Label}, nil
		}
	}

	for _, v := range def.Values {
		for _, alias := range v.Aliases {
			if alias == got {
				return &Value{Kind: KindEnum, Name: def.Name, Variant: v.Label}, nil
			}
		}
	}

	return nil, &UnknownVariantError{Enum: def.Name, Got: got, Valid: def.Labels()}
}
