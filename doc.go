// Package dsgo turns free-form language-model output into typed, validated
// values conforming to a declared output schema.
//
// [Parse] is the entry point: it runs the lenient parser over the raw
// text, coerces the result against a Type-IR through the schema registry,
// evaluates user-declared constraints, and returns the typed value
// alongside diagnostics. The subpackages hold the machinery: typeir (the
// algebraic type model), jsonish (the lenient parser), schema (the
// registry), and coerce (the schema-directed coercer).
//
// A parse is single-threaded and touches no shared mutable state; a
// registry, once built, may serve any number of concurrent parses.
package dsgo
