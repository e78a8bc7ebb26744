// Package coerce maps parsed raw values onto declared output types.
//
// [Coerce] drives a depth-first, type-directed recursion from a Type-IR
// and a [jsonish.Value] to a typed [Value]. Every node carries diagnostic
// flags; each flag has a fixed penalty, and where several interpretations
// are possible — union members, AnyOf candidate sets — the engine keeps
// the alternative with the lowest penalty sum. Ties break by declared
// order, then fewest flags, so results are fully deterministic.
//
// [RunUserChecks] evaluates user-declared check and assert constraints
// against the coerced value; failing asserts reject the parse while checks
// are reporting-only.
package coerce
