package coerce

import (
	"fmt"

	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/typeir"
)

// coerceAlias resolves a recursive type alias through the registry and
// coerces against its target. A depth counter guards alias cycles the same
// way the parser guards its recursion.
func coerceAlias(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	c.aliasDepth++
	if c.aliasDepth > maxAliasDepth {
		return nil, fmt.Errorf("%s: %w: alias %q", c.display(), ErrDepthExceeded, target.Name)
	}

	resolved, ok := c.reg.Alias(target.Name)
	if !ok {
		return nil, fmt.Errorf("%s: %w: alias %q", c.display(), ErrUnknownDefinition, target.Name)
	}

	return coerceValue(c, resolved, raw)
}
