package jsonish

import (
	"errors"
	"fmt"
	"log/slog"
)

// maxDepth bounds recursive strategy nesting; exceeding it means the
// input (or a strategy interaction) produced a cycle.
const maxDepth = 100

// Sentinel errors returned by [Parse].
var (
	// ErrDepthExceeded reports that strategy recursion hit the depth cap.
	ErrDepthExceeded = errors.New("depth limit reached, circular reference suspected")

	// ErrNoParse reports that every strategy in the chain failed.
	ErrNoParse = errors.New("no parse strategy produced a value")
)

// parsingMode tracks which strategy requested a nested parse, so the
// nested options can switch off strategies that must not re-enter.
type parsingMode int

const (
	modeStandard parsingMode = iota
	modeMarkdown
	modeMarkdownString
	modeGrep
)

// Options controls which recovery strategies the parser may use. The zero
// value disables everything except strict JSON; use [DefaultOptions] for
// the full chain.
type Options struct {
	// AllowMarkdownJSON enables extraction of fenced code blocks.
	AllowMarkdownJSON bool

	// AllowFixes enables the repair parser.
	AllowFixes bool

	// AllowAsString enables the final raw-string fallback.
	AllowAsString bool

	// FindAllJSONObjects enables the balanced-span grep strategy.
	FindAllJSONObjects bool

	depth int
}

// DefaultOptions enables every strategy.
func DefaultOptions() Options {
	return Options{
		AllowMarkdownJSON:  true,
		AllowFixes:         true,
		AllowAsString:      true,
		FindAllJSONObjects: true,
	}
}

// next derives the options for a nested parse requested by the given
// strategy. Strategies that recurse switch themselves off below to keep
// the recursion well-founded; the depth guard backstops the rest.
func (o Options) next(mode parsingMode) Options {
	n := o

	switch mode {
	case modeMarkdown, modeMarkdownString:
		n.AllowMarkdownJSON = false
	case modeGrep:
		n.AllowMarkdownJSON = false
		n.FindAllJSONObjects = false
	case modeStandard:
	}

	return n
}

// Parse extracts a JSON-like value from arbitrary text. Strategies are
// tried in a fixed order — strict JSON, fenced markdown blocks, repair
// heuristics, balanced-span grep, raw string — and the first success wins.
// The result is usually an [AnyOf] exposing the interpretations found;
// isDone=false marks streaming input whose tail values stay Incomplete.
func Parse(text string, opts Options, isDone bool) (Value, error) {
	v, err := parseFunc(text, opts, isDone)
	if err != nil {
		return nil, err
	}

	return Simplify(v, isDone), nil
}

func parseFunc(text string, opts Options, isDone bool) (Value, error) {
	opts.depth++
	if opts.depth > maxDepth {
		return nil, fmt.Errorf("%w (depth %d)", ErrDepthExceeded, opts.depth)
	}

	if v, err := decodeStrict(text); err == nil {
		return &AnyOf{Candidates: []Value{v}, Original: text}, nil
	}

	if opts.AllowMarkdownJSON {
		if v, ok := tryMarkdown(text, opts); ok {
			return v, nil
		}
	}

	if opts.AllowFixes {
		if v, ok := tryFixes(text); ok {
			return v, nil
		}
	}

	if opts.FindAllJSONObjects {
		if v, ok := tryGrep(text, opts); ok {
			return v, nil
		}
	}

	if opts.AllowAsString {
		state := Incomplete
		if isDone {
			state = Complete
		}

		return &String{Value: text, State: state}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrNoParse, truncateForLog(text))
}

// tryMarkdown runs the fenced-block strategy. A single block returns a
// lone Markdown candidate; multiple blocks expose each block, the array of
// all blocks, and the parsed between-block text in one AnyOf, so a
// list-typed target can take the array while an object-typed target takes
// one block. When FindAllJSONObjects is set, grep candidates are appended
// as additional interpretations.
func tryMarkdown(text string, opts Options) (Value, bool) {
	blocks, err := parseMarkdown(text, opts)
	if err != nil {
		slog.Debug("markdown strategy failed", "error", err)

		return nil, false
	}

	var candidates []Value

	code := make([]markdownBlock, 0, len(blocks))

	for _, b := range blocks {
		if !b.isRaw {
			code = append(code, b)
		}
	}

	switch {
	case len(code) == 0:
		return nil, false

	case len(code) == 1 && len(blocks) == 1:
		candidates = []Value{&Markdown{Tag: code[0].tag, Inner: code[0].value, State: Incomplete}}

	default:
		mdValues := make([]Value, 0, len(code))

		for _, b := range code {
			mdValues = append(mdValues, &Markdown{
				Tag:   b.tag,
				Inner: b.value,
				State: b.value.CompletionState(),
			})
		}

		candidates = append(candidates, mdValues...)
		candidates = append(candidates, &Array{Items: mdValues, State: Incomplete})

		for _, b := range blocks {
			if !b.isRaw {
				continue
			}

			v, perr := parseFunc(b.text, opts.next(modeMarkdownString), false)
			if perr != nil {
				slog.Debug("markdown between-text parse failed", "error", perr)

				continue
			}

			candidates = append(candidates, v)
		}

		// With find-all requested, the grep strategy contributes its
		// interpretations to the same candidate set.
		if opts.FindAllJSONObjects {
			if grepped, ok := tryGrep(text, opts); ok {
				if anyOf, isAnyOf := grepped.(*AnyOf); isAnyOf {
					candidates = append(candidates, anyOf.Candidates...)
				}
			}
		}
	}

	return &AnyOf{Candidates: candidates, Original: text}, true
}

// tryFixes runs the repair strategy. A lone unfixed string identical to
// the input is no better than the raw-string fallback and is discarded.
func tryFixes(text string) (Value, bool) {
	items, err := parseFixing(text)
	if err != nil || len(items) == 0 {
		if err != nil && !errors.Is(err, errNothingToFix) {
			slog.Debug("repair strategy failed", "error", err)
		}

		return nil, false
	}

	if len(items) == 1 {
		it := items[0]

		if s, ok := it.value.(*String); ok && len(it.fixes) == 0 && s.Value == text {
			return nil, false
		}

		return &AnyOf{
			Candidates: []Value{&Fixed{Inner: it.value, Fixes: it.fixes}},
			Original:   text,
		}, true
	}

	fixed := make([]Value, 0, len(items)+1)

	for _, it := range items {
		fixed = append(fixed, &Fixed{Inner: it.value, Fixes: it.fixes})
	}

	candidates := append([]Value{}, fixed...)
	candidates = append(candidates, &Array{Items: fixed, State: Incomplete})

	return &AnyOf{Candidates: candidates, Original: text}, true
}

// tryGrep runs the balanced-span strategy: every span individually, plus
// an array of all of them, each marked as grepped.
func tryGrep(text string, opts Options) (Value, bool) {
	values, err := parseMulti(text, opts)
	if err != nil || len(values) == 0 {
		return nil, false
	}

	if len(values) == 1 {
		if s, ok := values[0].(*String); ok && s.Value == text {
			return nil, false
		}

		return &AnyOf{
			Candidates: []Value{&Fixed{Inner: values[0], Fixes: []Fix{FixGreppedForJSON}}},
			Original:   text,
		}, true
	}

	candidates := make([]Value, 0, len(values)+1)

	for _, v := range values {
		candidates = append(candidates, &Fixed{Inner: v, Fixes: []Fix{FixGreppedForJSON}})
	}

	candidates = append(candidates, &Fixed{
		Inner: &Array{Items: values, State: Incomplete},
		Fixes: []Fix{FixGreppedForJSON},
	})

	return &AnyOf{Candidates: candidates, Original: text}, true
}

// truncateForLog bounds error payloads taken from arbitrary model output.
func truncateForLog(s string) string {
	const limit = 256

	if len(s) <= limit {
		return s
	}

	return s[:limit] + "..."
}
