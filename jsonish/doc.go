// Package jsonish extracts JSON-like values from arbitrary text, such as
// raw language-model output.
//
// [Parse] runs a fixed chain of strategies: strict JSON first, then fenced
// markdown blocks, then repair heuristics for malformed JSON, then a
// balanced-span grep, and finally a raw-string fallback. The result is a
// [Value] tree — usually an [AnyOf] carrying every plausible
// interpretation — that a schema-directed coercer disambiguates later.
//
// Values track a two-state completion tag so streaming callers can parse
// a prefix of the output (isDone=false) and see which leaves may still
// grow.
package jsonish
