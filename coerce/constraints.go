package coerce

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"

	"github.com/krypticmouse/dsgo/schema"
	"github.com/krypticmouse/dsgo/typeir"
)

// ConstraintResult is the outcome of evaluating one user-declared
// constraint against a coerced value.
type ConstraintResult struct {
	Label      string
	Expression string
	Level      typeir.ConstraintLevel
	Passed     bool
}

// RunUserChecks evaluates every constraint attached to the type and its
// descendants against the corresponding sub-values. Check-level results
// are reporting-only; if any assert-level constraint fails, the returned
// error is an [AssertFailedError] enumerating all failing asserts,
// deduplicated by label and expression.
func RunUserChecks(reg *schema.Registry, v *Value, t *typeir.Type) ([]ConstraintResult, error) {
	w := &checkWalker{reg: reg}
	w.walk(v, typeir.Simplify(t), 0)

	var failed []ConstraintResult

	seen := make(map[string]bool)

	for _, r := range w.results {
		if r.Level != typeir.LevelAssert || r.Passed {
			continue
		}

		key := r.Label + "\x00" + r.Expression
		if seen[key] {
			continue
		}

		seen[key] = true
		failed = append(failed, r)
	}

	if len(failed) > 0 {
		return w.results, &AssertFailedError{Failed: failed}
	}

	return w.results, nil
}

type checkWalker struct {
	reg     *schema.Registry
	results []ConstraintResult
}

func (w *checkWalker) walk(v *Value, t *typeir.Type, aliasDepth int) {
	if v == nil || t == nil || aliasDepth > maxAliasDepth {
		return
	}

	for _, c := range t.Meta.Constraints {
		w.results = append(w.results, evalConstraint(c, v))
	}

	switch t.Kind {
	case typeir.KindUnion:
		w.walkUnion(v, t, aliasDepth)

	case typeir.KindAlias:
		if resolved, ok := w.reg.Alias(t.Name); ok {
			w.walk(v, resolved, aliasDepth+1)
		}

	case typeir.KindList:
		for _, item := range v.Items {
			w.walk(item, t.Elem, aliasDepth)
		}

	case typeir.KindTuple:
		for i, item := range v.Items {
			if i < len(t.Members) {
				w.walk(item, t.Members[i], aliasDepth)
			}
		}

	case typeir.KindMap:
		for _, e := range v.Entries {
			w.walk(e.Value, t.Elem, aliasDepth)
		}

	case typeir.KindClass:
		w.walkClass(v, t, aliasDepth)
	}
}

// walkUnion descends into the member the coercion actually chose, located
// through the UnionMatch flag; distributed constraints then apply exactly
// once, to the winning rendition.
func (w *checkWalker) walkUnion(v *Value, t *typeir.Type, aliasDepth int) {
	if v.Kind == KindNull {
		return
	}

	if idx, ok := v.Cond.UnionWinner(); ok && idx < len(t.Members) {
		w.walk(v, t.Members[idx], aliasDepth)
	}
}

func (w *checkWalker) walkClass(v *Value, t *typeir.Type, aliasDepth int) {
	def, ok := w.reg.Class(t.Name, t.Mode)
	if !ok {
		return
	}

	for _, c := range def.Constraints {
		w.results = append(w.results, evalConstraint(c, v))
	}

	for _, f := range def.Fields {
		if fv, found := v.Field(f.Name); found {
			w.walk(fv, f.Type, aliasDepth)
		}
	}
}

// evalConstraint runs one expression with `this` bound to the value's
// plain projection. An expression that fails to compile, errors at
// runtime, or yields a non-boolean counts as failed rather than aborting
// the walk.
func evalConstraint(c typeir.Constraint, v *Value) ConstraintResult {
	result := ConstraintResult{
		Label:      c.Label,
		Expression: c.Expression,
		Level:      c.Level,
	}

	program, err := expr.Compile(c.Expression, expr.AllowUndefinedVariables())
	if err != nil {
		slog.Warn("constraint failed to compile",
			slog.String("label", c.Label),
			slog.String("expression", c.Expression),
			slog.Any("error", err),
		)

		return result
	}

	out, err := expr.Run(program, map[string]any{"this": v.Plain()})
	if err != nil {
		slog.Debug("constraint evaluation errored",
			slog.String("label", c.Label),
			slog.Any("error", err),
		)

		return result
	}

	passed, ok := out.(bool)
	if !ok {
		slog.Warn("constraint did not yield a boolean",
			slog.String("label", c.Label),
			slog.String("got", fmt.Sprintf("%T", out)),
		)

		return result
	}

	result.Passed = passed

	return result
}
