package coerce

import (
	"strings"

	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/schema"
	"github.com/krypticmouse/dsgo/typeir"
)

// maxAliasDepth bounds recursive alias resolution, mirroring the parser's
// depth cap.
const maxAliasDepth = 100

// classVisit identifies one (class, raw value) pair on the current
// coercion path. Raw values are pointers, so identity comparison detects a
// revisit of the same node.
type classVisit struct {
	class string
	raw   jsonish.Value
}

// ctx carries the coercion state down the recursion: the scope path for
// error messages, the registry, the seen set breaking recursive-class
// cycles, the alias depth counter, and the union-variant hint used by
// arrays of unions. The seen map is shared by all children on a path;
// everything else copies on descent.
type ctx struct {
	reg        *schema.Registry
	scope      []string
	seen       map[classVisit]bool
	aliasDepth int
	hint       int
}

func newCtx(reg *schema.Registry) ctx {
	return ctx{
		reg:  reg,
		seen: make(map[classVisit]bool),
		hint: -1,
	}
}

// child descends one scope level. The union-variant hint does not travel
// into subvalues.
func (c ctx) child(name string) ctx {
	n := c
	n.scope = append(c.scope[:len(c.scope):len(c.scope)], name)
	n.hint = -1

	return n
}

// childWithHint descends one scope level carrying a union-variant hint for
// the immediate target.
func (c ctx) childWithHint(name string, hint int) ctx {
	n := c.child(name)
	n.hint = hint

	return n
}

// display renders the scope path for error messages.
func (c ctx) display() string {
	if len(c.scope) == 0 {
		return "<root>"
	}

	return strings.Join(c.scope, ".")
}

// mismatch builds a TypeMismatchError at the current scope.
func (c ctx) mismatch(expected *typeir.Type, raw jsonish.Value) error {
	return &TypeMismatchError{
		Scope:    c.display(),
		Expected: expected,
		Actual:   raw.TypeName(),
	}
}
