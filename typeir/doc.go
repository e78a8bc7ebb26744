// Package typeir models output types as an algebraic intermediate
// representation.
//
// A [Type] is a tagged variant over primitives, literal singleton types,
// by-name enum/class/alias references, lists, maps, tuples, unions, and
// function types. Every node carries a [Meta] with user-declared
// [Constraint] predicates and [StreamingBehavior] flags.
//
// [Simplify] computes the union normal form used throughout the engine:
// nested unions flatten, duplicate members collapse, members subsumed by
// other union members are absorbed, a redundant null marker folds into an
// optional member, and check/assert constraints distribute from a union
// onto its members. Coercion and scoring operate on simplified types.
package typeir
