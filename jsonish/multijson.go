package jsonish

import "errors"

// errNoJSONObjects signals that no balanced JSON-like span was found.
var errNoJSONObjects = errors.New("no json objects found")

// parseMulti greps the text for balanced {...} and [...] spans and parses
// each one recursively. A trailing unbalanced span (streaming tail) is
// taken to the end of the input and recovered by the repair strategy of
// its nested parse. Quoted strings are skipped while scanning so braces
// inside them do not pair.
func parseMulti(text string, opts Options) ([]Value, error) {
	spans := balancedSpans(text)
	if len(spans) == 0 {
		return nil, errNoJSONObjects
	}

	values := make([]Value, 0, len(spans))

	for _, span := range spans {
		v, err := parseFunc(text[span[0]:span[1]], opts.next(modeGrep), false)
		if err != nil {
			continue
		}

		values = append(values, v)
	}

	if len(values) == 0 {
		return nil, errNoJSONObjects
	}

	return values, nil
}

// balancedSpans returns the [start, end) offsets of every top-level
// balanced brace or bracket span, plus the trailing unclosed span if the
// text ends mid-container.
func balancedSpans(text string) [][2]int {
	var (
		spans [][2]int
		stack []byte
		start int
	)

	inString := false

	var quote byte

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch c {
			case '\\':
				i++
			case quote:
				inString = false
			}

			continue
		}

		switch c {
		case '"', '\'':
			// Outside any span, stray quotes are prose, not string starts.
			if len(stack) > 0 {
				inString = true
				quote = c
			}
		case '{', '[':
			if len(stack) == 0 {
				start = i
			}

			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				continue
			}

			open := stack[len(stack)-1]
			if (c == '}' && open == '{') || (c == ']' && open == '[') {
				stack = stack[:len(stack)-1]

				if len(stack) == 0 {
					spans = append(spans, [2]int{start, i + 1})
				}
			}
		}
	}

	if len(stack) > 0 {
		spans = append(spans, [2]int{start, len(text)})
	}

	return spans
}
